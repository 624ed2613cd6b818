// Package ledger defines the append-only ledger that provenance records are
// written to, and provides clients for it.
//
// The ledger stores signed transactions. A CREATE transaction establishes a
// new record owned by its signer. A TRANSFER transaction hands an existing
// record over to a new owner; its asset is a reference to the CREATE it
// spends. Transactions are identified by the SHA256 of their canonical JSON
// body and are pending until the ledger commits them into a block.
//
// InmemLedger is an in-process, eventually consistent implementation used by
// tests and by the development ledger service. HTTPClient talks to a remote
// ledger over the REST protocol served by the service package, and Pool
// spreads calls over several clients.
package ledger
