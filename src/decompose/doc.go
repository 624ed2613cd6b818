// Package decompose splits a provenance document into per-node partitions,
// the unit in which documents are written to the ledger.
//
// Each partition holds one node together with the relations it is the source
// of, split into identified and anonymous relations, and the namespaces of
// the document. Partitions are ordered so that the targets of a node's
// relations come before the node itself.
package decompose
