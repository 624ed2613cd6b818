package concept

import "fmt"

// Concept selects how a document is mapped onto accounts.
type Concept string

// Concepts
const (
	DocumentConcept Concept = "document"
	GraphConcept    Concept = "graph"
	RoleConcept     Concept = "role"
)

// ParseConcept ...
func ParseConcept(s string) (Concept, error) {
	switch c := Concept(s); c {
	case DocumentConcept, GraphConcept, RoleConcept:
		return c, nil
	}
	return "", fmt.Errorf("unknown concept %q", s)
}

// FailurePolicy decides what a failed relation write does to the rest of the
// save.
type FailurePolicy string

const (
	// Continue records the failure and writes the remaining relations.
	Continue FailurePolicy = "continue"
	// Abort stops at the first failed relation.
	Abort FailurePolicy = "abort"
)

// ParseFailurePolicy ...
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case Continue, Abort:
		return p, nil
	case "":
		return Continue, nil
	}
	return "", fmt.Errorf("unknown failure policy %q", s)
}

// Options configure a Client.
type Options struct {
	Concept       Concept
	FailurePolicy FailurePolicy

	// DocumentAccountID names the account owning documents saved with the
	// document concept.
	DocumentAccountID string

	// Metadata is added to the metadata of every record.
	Metadata map[string]string
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		Concept:           GraphConcept,
		FailurePolicy:     Continue,
		DocumentAccountID: "provledger:document",
	}
}
