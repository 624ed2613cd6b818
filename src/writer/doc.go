// Package writer publishes payloads to a ledger.
//
// A publication is a pair of transactions: a CREATE that puts the payload on
// the ledger under the key of its owner, followed by a TRANSFER that assigns
// the record to its recipient. Each step waits for the previous one to be
// committed, using the confirmation oracle.
package writer
