// Package service serves a ledger over HTTP.
//
// It is the server side of ledger.HTTPClient. Backed by a ledger.InmemLedger,
// it is a development ledger that provledger can write to without an external
// ledger deployment:
//
//  POST /api/v1/transactions          submit a transaction, echoes it (202)
//  GET  /api/v1/transactions/{id}     fetch a transaction
//  GET  /api/v1/statuses/{id}         {"status": "pending|committed|rejected"}
//  GET  /api/v1/blocks?transaction_id  [{"id": "...", "status": "valid"}]
package service
