// Package concept maps provenance documents onto ledger accounts.
//
// Three concepts decide which accounts own which records:
//
//   - document: the whole document is one record of a single account;
//   - graph: every node has an account. Its instance record is transferred to
//     itself and its relation records are transferred to the target nodes;
//   - role: like graph, but instance records are transferred to the agent
//     responsible for the node. The document must be acyclic and every node
//     other than an agent must be related to an agent.
//
// A Client saves documents with one of these concepts and reads them back
// from the ids it reports.
package concept
