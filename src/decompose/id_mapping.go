package decompose

import (
	"fmt"
	"sync"
)

// Resolution is the state of an identifier in an IDMapping.
type Resolution int

const (
	// Unknown identifiers were never seeded nor written.
	Unknown Resolution = iota
	// Unresolved identifiers belong to a relation of the document whose
	// record has not been written yet.
	Unresolved
	// Resolved identifiers map to a record id.
	Resolved
)

// String ...
func (r Resolution) String() string {
	switch r {
	case Unknown:
		return "Unknown"
	case Unresolved:
		return "Unresolved"
	case Resolved:
		return "Resolved"
	default:
		return "Unknown"
	}
}

// IDMapping maps relation identifiers to the record ids they were written
// under. It lives for the duration of one document save.
type IDMapping struct {
	sync.RWMutex
	ids map[string]string
}

// NewIDMapping ...
func NewIDMapping() *IDMapping {
	return &IDMapping{ids: make(map[string]string)}
}

// Seed registers an identifier with an empty placeholder. Seeding a known
// identifier does nothing.
func (m *IDMapping) Seed(id string) {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.ids[id]; !ok {
		m.ids[id] = ""
	}
}

// Set records the record id of an identifier.
func (m *IDMapping) Set(id, recordID string) error {
	if recordID == "" {
		return fmt.Errorf("empty record id for %s", id)
	}
	m.Lock()
	defer m.Unlock()
	m.ids[id] = recordID
	return nil
}

// Resolve returns the record id of an identifier. The record id is only
// meaningful when the Resolution is Resolved.
func (m *IDMapping) Resolve(id string) (string, Resolution) {
	m.RLock()
	defer m.RUnlock()
	rec, ok := m.ids[id]
	switch {
	case !ok:
		return "", Unknown
	case rec == "":
		return "", Unresolved
	default:
		return rec, Resolved
	}
}

// Len returns the number of known identifiers.
func (m *IDMapping) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.ids)
}
