// Package assemble rebuilds a provenance document from ledger records.
package assemble
