package decompose

import (
	"fmt"

	"github.com/mosaicnetworks/provledger/src/prov"
)

// Mode selects the validation applied before partitioning.
type Mode int

const (
	// GraphMode accepts any graph.
	GraphMode Mode = iota
	// RoleMode requires an acyclic graph in which every node other than an
	// agent is related to an agent.
	RoleMode
)

// String ...
func (m Mode) String() string {
	switch m {
	case GraphMode:
		return "graph"
	case RoleMode:
		return "role"
	default:
		return "unknown"
	}
}

// Partition is one node and its outgoing relations.
type Partition struct {
	Node       *prov.Record
	WithID     []*prov.Record
	WithoutID  []*prov.Record
	Namespaces []prov.Namespace

	// Inferred is true for nodes that are referenced by relations but never
	// declared in the document.
	Inferred bool

	// Agent is the agent responsible for the node in role mode. It is empty
	// for agents and in graph mode.
	Agent string
}

// Relations returns the identified relations followed by the anonymous ones.
func (p *Partition) Relations() []*prov.Record {
	res := make([]*prov.Record, 0, len(p.WithID)+len(p.WithoutID))
	res = append(res, p.WithID...)
	return append(res, p.WithoutID...)
}

// Decomposition is the result of Decompose.
type Decomposition struct {
	Partitions []*Partition
	IDs        *IDMapping
}

// Partition returns the partition of a node.
func (d *Decomposition) Partition(nodeID string) (*Partition, bool) {
	for _, p := range d.Partitions {
		if p.Node.ID == nodeID {
			return p, true
		}
	}
	return nil, false
}

type graph struct {
	order    []string
	parts    map[string]*Partition
	kinds    map[string]prov.Kind
	edges    map[string][]string
	touching map[string][]*prov.Record
}

// Decompose partitions doc. Every relation is attached to the partition of
// its source node. Role mode validation failures are returned before any
// partition is produced.
func Decompose(doc *prov.Document, mode Mode) (*Decomposition, error) {
	g := &graph{
		parts:    make(map[string]*Partition),
		kinds:    make(map[string]prov.Kind),
		edges:    make(map[string][]string),
		touching: make(map[string][]*prov.Record),
	}
	namespaces := doc.Namespaces()

	for _, n := range doc.Nodes() {
		if p, ok := g.parts[n.ID]; ok {
			// the same node declared twice, merge the attributes
			p.Node.Attributes = append(p.Node.Attributes, n.Attributes...)
			continue
		}
		g.add(n.Clone(), false, namespaces)
	}

	ids := NewIDMapping()
	relations := doc.Relations()

	// pre-scan identified relations so that forward references can be told
	// apart from unknown identifiers
	for _, r := range relations {
		if r.Identified() {
			ids.Seed(r.ID)
		}
	}

	for _, r := range relations {
		refs := r.NodeRefs()
		if len(refs) == 0 {
			return nil, &DanglingRelationError{Kind: string(r.Kind), ID: r.ID}
		}

		for _, ref := range refs {
			if _, ok := g.parts[ref.ID]; !ok {
				kind := ref.Slot.Implies
				if kind == "" {
					kind = prov.Entity
				}
				g.add(prov.NewNode(kind, ref.ID), true, namespaces)
			}
			g.touching[ref.ID] = append(g.touching[ref.ID], r)
		}

		source := r.Source()
		if source == "" {
			source = refs[0].ID
		}
		p := g.parts[source]
		if r.Identified() {
			p.WithID = append(p.WithID, r)
		} else {
			p.WithoutID = append(p.WithoutID, r)
		}

		if target := r.Target(); target != "" && target != source {
			g.edges[source] = append(g.edges[source], target)
		}
	}

	if mode == RoleMode {
		if err := g.detectCycles(); err != nil {
			return nil, err
		}
		if err := g.assignAgents(); err != nil {
			return nil, err
		}
	}

	return &Decomposition{Partitions: g.sorted(), IDs: ids}, nil
}

func (g *graph) add(n *prov.Record, inferred bool, namespaces []prov.Namespace) {
	g.order = append(g.order, n.ID)
	g.kinds[n.ID] = n.Kind
	g.parts[n.ID] = &Partition{
		Node:       n,
		Namespaces: namespaces,
		Inferred:   inferred,
	}
}

// sorted returns the partitions in depth-first post-order, so that the
// targets of a node come before it. Nodes are visited in document order and
// cycles are cut at the first node seen again.
func (g *graph) sorted() []*Partition {
	visited := make(map[string]bool)
	res := make([]*Partition, 0, len(g.order))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, t := range g.edges[id] {
			visit(t)
		}
		res = append(res, g.parts[id])
	}

	for _, id := range g.order {
		visit(id)
	}
	return res
}

// detectCycles runs a three-colour depth-first search over the relation
// edges. Self references are not cycles.
func (g *graph) detectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			cycle := []string{id}
			for i := len(stack) - 1; i >= 0; i-- {
				cycle = append([]string{stack[i]}, cycle...)
				if stack[i] == id {
					break
				}
			}
			return &GraphNotAcyclicError{Cycle: cycle}
		}

		temporary[id] = true
		stack = append(stack, id)

		for _, t := range g.edges[id] {
			if err := visit(t); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(temporary, id)
		permanent[id] = true

		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// assignAgents finds, for every node that is not an agent, the first agent it
// shares a relation with.
func (g *graph) assignAgents() error {
	for _, id := range g.order {
		if g.kinds[id] == prov.Agent {
			continue
		}
		agent := g.agentOf(id)
		if agent == "" {
			return &IsolatedNodeError{NodeID: id}
		}
		g.parts[id].Agent = agent
	}
	return nil
}

func (g *graph) agentOf(id string) string {
	for _, r := range g.touching[id] {
		for _, ref := range r.NodeRefs() {
			if ref.ID != id && g.kinds[ref.ID] == prov.Agent {
				return ref.ID
			}
		}
	}
	return ""
}

// ParseMode ...
func ParseMode(s string) (Mode, error) {
	switch s {
	case "graph":
		return GraphMode, nil
	case "role":
		return RoleMode, nil
	}
	return GraphMode, fmt.Errorf("unknown decomposition mode %q", s)
}
