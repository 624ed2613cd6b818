// Package prov implements the subset of the W3C PROV data model needed to
// decompose provenance documents into ledger records and to put them back
// together.
//
// A Document holds namespace declarations and a flat list of Records. Node
// records (entities, activities and agents) carry an identifier and free
// attributes. Relation records additionally carry formal attributes, the
// first of which is the source of the relation and the second its target.
// Relations may be anonymous, in which case their identifier is empty.
//
// Three encodings are understood: PROV-JSON (read and write), PROV-XML and
// PROV-N (read). Parse sniffs the encoding from the first bytes of the input.
package prov
