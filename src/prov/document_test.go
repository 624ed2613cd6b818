package prov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleDocument is the document used across the codec tests. Every
// encoding in testdata describes it.
func exampleDocument(t *testing.T) *Document {
	t.Helper()

	doc := NewDocument()
	require.NoError(t, doc.AddNamespace("ex", "http://example.org/"))
	doc.AddRecord(NewNode(Entity, "ex:a", Attribute{Name: "prov:label", Value: String("A")}))
	doc.AddRecord(NewNode(Entity, "ex:b"))
	doc.AddRecord(NewNode(Agent, "ex:ag", Attribute{
		Name:  "prov:type",
		Value: Value{Value: "prov:Person", Type: "xsd:QName"},
	}))
	doc.AddRecord(NewRelation(WasDerivedFrom, "ex:r1", "ex:a", "ex:b"))
	doc.AddRecord(NewRelation(WasAttributedTo, "", "ex:a", "ex:ag"))
	return doc
}

func TestAddNamespace(t *testing.T) {
	doc := NewDocument()

	require.NoError(t, doc.AddNamespace("ex", "http://example.org/"))
	require.NoError(t, doc.AddNamespace("ex", "http://example.org/"), "redeclaring the same binding is a no-op")
	assert.Len(t, doc.Namespaces(), 1)

	err := doc.AddNamespace("ex", "http://other.org/")
	require.Error(t, err)
	assert.True(t, IsNamespaceConflict(err))

	require.NoError(t, doc.AddNamespace("prov", "http://www.w3.org/ns/prov#"))
	assert.Len(t, doc.Namespaces(), 1, "reserved prefixes are not stored")
	assert.True(t, IsNamespaceConflict(doc.AddNamespace("prov", "http://example.org/")))

	uri, ok := doc.NamespaceURI("xsd")
	assert.True(t, ok)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#", uri)
}

func TestAddRecordIgnoresDuplicates(t *testing.T) {
	doc := NewDocument()

	assert.True(t, doc.AddRecord(NewNode(Entity, "ex:a")))
	assert.False(t, doc.AddRecord(NewNode(Entity, "ex:a")))
	assert.True(t, doc.AddRecord(NewNode(Entity, "ex:a", Attribute{Name: "prov:label", Value: String("A")})))
	assert.Len(t, doc.Records(), 2)
}

func TestRelationAccessors(t *testing.T) {
	r := NewRelation(WasDerivedFrom, "ex:r1", "ex:a", "ex:b", "ex:act", "ex:gen")

	assert.True(t, r.IsRelation())
	assert.True(t, r.Identified())
	assert.Equal(t, "ex:a", r.Source())
	assert.Equal(t, "ex:b", r.Target())

	nodes := r.NodeRefs()
	require.Len(t, nodes, 3)
	assert.Equal(t, "prov:activity", nodes[2].Slot.Name)
	assert.Equal(t, Activity, nodes[2].Slot.Implies)

	rels := r.RelationRefs()
	require.Len(t, rels, 1)
	assert.Equal(t, "ex:gen", rels[0].ID)

	anon := NewRelation(Used, "", "ex:act")
	assert.False(t, anon.Identified())
	assert.Equal(t, "", anon.Target())
}

func TestMergeAndEqual(t *testing.T) {
	doc := exampleDocument(t)

	acc := NewDocument()
	require.NoError(t, acc.Merge(doc))
	require.NoError(t, acc.Merge(doc), "merging twice is idempotent")
	assert.True(t, acc.Equal(doc))
	assert.Len(t, acc.Nodes(), 3)
	assert.Len(t, acc.Relations(), 2)

	conflicting := NewDocument()
	require.NoError(t, conflicting.AddNamespace("ex", "http://elsewhere.org/"))
	err := acc.Merge(conflicting)
	require.Error(t, err)
	assert.True(t, IsNamespaceConflict(err))

	other := exampleDocument(t)
	other.AddRecord(NewNode(Activity, "ex:act"))
	assert.False(t, doc.Equal(other))
}
