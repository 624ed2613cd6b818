// Package oracle decides when a ledger record can be relied upon.
//
// Submitting a transaction only makes it pending. WaitUntilCommitted polls the
// ledger until the transaction is committed or rejected, and the single-shot
// checks IsRecordValid and IsEnclosingBlockValid tell whether a record and
// the block holding it are final. All polling goes through PollUntil.
package oracle
