package decompose

import (
	"errors"
	"fmt"
	"strings"
)

// GraphNotAcyclicError is returned in role mode when the relations of the
// document form a cycle.
type GraphNotAcyclicError struct {
	Cycle []string
}

func (e *GraphNotAcyclicError) Error() string {
	return fmt.Sprintf("graph is not acyclic: %s", strings.Join(e.Cycle, " -> "))
}

// IsolatedNodeError is returned in role mode for a node that is not an agent
// and has no relation to an agent.
type IsolatedNodeError struct {
	NodeID string
}

func (e *IsolatedNodeError) Error() string {
	return fmt.Sprintf("node %s has no relation to an agent", e.NodeID)
}

// DanglingRelationError is returned for a relation that references no node at
// all.
type DanglingRelationError struct {
	Kind string
	ID   string
}

func (e *DanglingRelationError) Error() string {
	return fmt.Sprintf("%s %s does not reference any node", e.Kind, e.ID)
}

// IsGraphNotAcyclic ...
func IsGraphNotAcyclic(err error) bool {
	var e *GraphNotAcyclicError
	return errors.As(err, &e)
}

// IsIsolatedNode ...
func IsIsolatedNode(err error) bool {
	var e *IsolatedNodeError
	return errors.As(err, &e)
}
