package prov

import (
	"sort"
	"strings"
)

// Reserved namespaces are always in scope and never declared in documents.
var reservedNamespaces = map[string]string{
	"prov": "http://www.w3.org/ns/prov#",
	"xsd":  "http://www.w3.org/2001/XMLSchema#",
	"xsi":  "http://www.w3.org/2001/XMLSchema-instance",
}

// Namespace binds a prefix to a URI.
type Namespace struct {
	Prefix string
	URI    string
}

// Value is a typed literal. Type is a qualified name such as xsd:string or
// prov:QUALIFIED_NAME and Lang a language tag; both are optional.
type Value struct {
	Value string
	Type  string
	Lang  string
}

// String returns a literal with no type or language.
func String(v string) Value {
	return Value{Value: v}
}

// Attribute is a named value attached to a record. A record may carry several
// attributes with the same name.
type Attribute struct {
	Name  string
	Value Value
}

// Record is a node or a relation. Formal holds the formal attributes of a
// relation, keyed by slot name; it is nil for nodes.
type Record struct {
	Kind       Kind
	ID         string
	Formal     map[string]string
	Attributes []Attribute
}

// NewNode returns a node record.
func NewNode(kind Kind, id string, attrs ...Attribute) *Record {
	return &Record{Kind: kind, ID: id, Attributes: attrs}
}

// NewRelation returns a relation record with positional formal attributes, in
// the order given by kind.Slots(). Empty arguments are left unset.
func NewRelation(kind Kind, id string, args ...string) *Record {
	r := &Record{Kind: kind, ID: id, Formal: make(map[string]string)}
	slots := kind.Slots()
	for i, a := range args {
		if i >= len(slots) {
			break
		}
		if a != "" {
			r.Formal[slots[i].Name] = a
		}
	}
	return r
}

// IsNode ...
func (r *Record) IsNode() bool {
	return r.Kind.IsNode()
}

// IsRelation ...
func (r *Record) IsRelation() bool {
	return r.Kind.IsRelation()
}

// Identified reports whether the record carries an identifier. Only relations
// can be anonymous.
func (r *Record) Identified() bool {
	return r.ID != ""
}

// Source returns the first formal attribute of a relation.
func (r *Record) Source() string {
	slots := r.Kind.Slots()
	if len(slots) == 0 {
		return ""
	}
	return r.Formal[slots[0].Name]
}

// Target returns the second formal attribute of a relation.
func (r *Record) Target() string {
	slots := r.Kind.Slots()
	if len(slots) < 2 {
		return ""
	}
	return r.Formal[slots[1].Name]
}

// NodeRefs returns the node identifiers referenced by a relation, paired with
// the slot they appear in, in slot order.
func (r *Record) NodeRefs() []SlotRef {
	return r.refs(NodeRef)
}

// RelationRefs returns the relation identifiers referenced by a relation.
func (r *Record) RelationRefs() []SlotRef {
	return r.refs(RelationRef)
}

// SlotRef is a formal attribute value together with its slot.
type SlotRef struct {
	Slot Slot
	ID   string
}

func (r *Record) refs(t SlotType) []SlotRef {
	var res []SlotRef
	for _, s := range r.Kind.Slots() {
		if s.Type != t {
			continue
		}
		if v, ok := r.Formal[s.Name]; ok && v != "" {
			res = append(res, SlotRef{Slot: s, ID: v})
		}
	}
	return res
}

// Attr returns the first value of the named attribute.
func (r *Record) Attr(name string) (Value, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{Kind: r.Kind, ID: r.ID}
	if r.Formal != nil {
		c.Formal = make(map[string]string, len(r.Formal))
		for k, v := range r.Formal {
			c.Formal[k] = v
		}
	}
	c.Attributes = append([]Attribute(nil), r.Attributes...)
	return c
}

// key is a canonical string for the record's content. Two records with the
// same key are the same statement.
func (r *Record) key() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	b.WriteString("|")
	b.WriteString(r.ID)
	for _, s := range r.Kind.Slots() {
		b.WriteString("|")
		b.WriteString(s.Name)
		b.WriteString("=")
		b.WriteString(r.Formal[s.Name])
	}
	attrs := make([]string, len(r.Attributes))
	for i, a := range r.Attributes {
		attrs[i] = a.Name + "=" + a.Value.Value + "^" + a.Value.Type + "@" + a.Value.Lang
	}
	sort.Strings(attrs)
	for _, a := range attrs {
		b.WriteString("|")
		b.WriteString(a)
	}
	return b.String()
}

// Document is a provenance document: namespace declarations and records.
type Document struct {
	namespaces []Namespace
	records    []*Record
	keys       map[string]struct{}
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{keys: make(map[string]struct{})}
}

// AddNamespace declares a prefix. Declaring the same binding twice is a
// no-op, binding a declared prefix to another URI is a NamespaceConflictError.
// Reserved prefixes (prov, xsd, xsi) are accepted when they carry their
// standard URI and never stored.
func (d *Document) AddNamespace(prefix, uri string) error {
	if std, ok := reservedNamespaces[prefix]; ok {
		if std != uri {
			return &NamespaceConflictError{Prefix: prefix, Existing: std, URI: uri}
		}
		return nil
	}
	for _, ns := range d.namespaces {
		if ns.Prefix != prefix {
			continue
		}
		if ns.URI != uri {
			return &NamespaceConflictError{Prefix: prefix, Existing: ns.URI, URI: uri}
		}
		return nil
	}
	d.namespaces = append(d.namespaces, Namespace{Prefix: prefix, URI: uri})
	return nil
}

// Namespaces returns the declared namespaces in declaration order.
func (d *Document) Namespaces() []Namespace {
	return append([]Namespace(nil), d.namespaces...)
}

// NamespaceURI resolves a prefix, reserved ones included.
func (d *Document) NamespaceURI(prefix string) (string, bool) {
	if uri, ok := reservedNamespaces[prefix]; ok {
		return uri, true
	}
	for _, ns := range d.namespaces {
		if ns.Prefix == prefix {
			return ns.URI, true
		}
	}
	return "", false
}

// AddRecord appends a record. A record identical to one already in the
// document is ignored, and AddRecord returns false.
func (d *Document) AddRecord(r *Record) bool {
	if d.keys == nil {
		d.keys = make(map[string]struct{})
	}
	k := r.key()
	if _, ok := d.keys[k]; ok {
		return false
	}
	d.keys[k] = struct{}{}
	d.records = append(d.records, r)
	return true
}

// Records returns all records in insertion order.
func (d *Document) Records() []*Record {
	return append([]*Record(nil), d.records...)
}

// Nodes returns the node records in insertion order.
func (d *Document) Nodes() []*Record {
	var res []*Record
	for _, r := range d.records {
		if r.IsNode() {
			res = append(res, r)
		}
	}
	return res
}

// Relations returns the relation records in insertion order.
func (d *Document) Relations() []*Record {
	var res []*Record
	for _, r := range d.records {
		if r.IsRelation() {
			res = append(res, r)
		}
	}
	return res
}

// Node returns the first node record with the given identifier.
func (d *Document) Node(id string) (*Record, bool) {
	for _, r := range d.records {
		if r.IsNode() && r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Merge adds the namespaces and records of other to d. It stops at the first
// namespace conflict.
func (d *Document) Merge(other *Document) error {
	for _, ns := range other.namespaces {
		if err := d.AddNamespace(ns.Prefix, ns.URI); err != nil {
			return err
		}
	}
	for _, r := range other.records {
		d.AddRecord(r.Clone())
	}
	return nil
}

// Equal reports whether both documents bind the same namespaces and hold the
// same set of records, regardless of order.
func (d *Document) Equal(other *Document) bool {
	if len(d.namespaces) != len(other.namespaces) || len(d.records) != len(other.records) {
		return false
	}
	for _, ns := range d.namespaces {
		uri, ok := other.NamespaceURI(ns.Prefix)
		if !ok || uri != ns.URI {
			return false
		}
	}
	for _, r := range d.records {
		if _, ok := other.keys[r.key()]; !ok {
			return false
		}
	}
	return true
}
