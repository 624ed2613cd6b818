// Package accounts correlates provenance nodes with ledger identities.
//
// Every node owns exactly one Account: a secp256k1 key-pair and the id of
// the latest ledger record written for it. Accounts are created on first
// encounter by the Registry and persisted in a Store before anything is sent
// to the ledger, so that a document saved twice reuses the same keys. Stores
// never overwrite the keys of an existing account; inserting an account twice
// is a KeyAlreadyExists StoreErr.
//
// Three stores are provided: InmemStore, BadgerStore and SQLiteStore.
package accounts
