package decompose

import (
	"testing"

	"github.com/mosaicnetworks/provledger/src/prov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, records ...*prov.Record) *prov.Document {
	t.Helper()
	doc := prov.NewDocument()
	require.NoError(t, doc.AddNamespace("ex", "http://example.org/"))
	for _, r := range records {
		doc.AddRecord(r)
	}
	return doc
}

func nodeIDs(d *Decomposition) []string {
	var ids []string
	for _, p := range d.Partitions {
		ids = append(ids, p.Node.ID)
	}
	return ids
}

func TestDecomposeDerivation(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Entity, "ex:A"),
		prov.NewNode(prov.Entity, "ex:B"),
		prov.NewRelation(prov.WasDerivedFrom, "ex:R1", "ex:A", "ex:B"),
	)

	d, err := Decompose(doc, GraphMode)
	require.NoError(t, err)

	assert.Equal(t, []string{"ex:B", "ex:A"}, nodeIDs(d), "targets come before sources")

	a, ok := d.Partition("ex:A")
	require.True(t, ok)
	require.Len(t, a.WithID, 1)
	assert.Equal(t, "ex:R1", a.WithID[0].ID)
	assert.Empty(t, a.WithoutID)
	assert.Equal(t, doc.Namespaces(), a.Namespaces)

	b, _ := d.Partition("ex:B")
	assert.Empty(t, b.Relations())

	_, res := d.IDs.Resolve("ex:R1")
	assert.Equal(t, Unresolved, res)
	_, res = d.IDs.Resolve("ex:R2")
	assert.Equal(t, Unknown, res)
}

func TestDecomposeClassifiesRelations(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Entity, "ex:e"),
		prov.NewNode(prov.Activity, "ex:act"),
		prov.NewNode(prov.Entity, "ex:lonely"),
		prov.NewRelation(prov.WasGeneratedBy, "ex:gen", "ex:e", "ex:act"),
		prov.NewRelation(prov.WasGeneratedBy, "", "ex:e", "ex:act", "2020-01-01T00:00:00"),
		prov.NewRelation(prov.Used, "", "ex:act", "ex:e"),
		prov.NewRelation(prov.WasDerivedFrom, "ex:self", "ex:e", "ex:e"),
	)

	d, err := Decompose(doc, GraphMode)
	require.NoError(t, err)
	require.Len(t, d.Partitions, 3, "isolated nodes still get a partition")

	e, _ := d.Partition("ex:e")
	assert.Len(t, e.WithID, 2)
	assert.Len(t, e.WithoutID, 1)

	act, _ := d.Partition("ex:act")
	assert.Len(t, act.WithoutID, 1)

	lonely, _ := d.Partition("ex:lonely")
	assert.Empty(t, lonely.Relations())

	assert.Equal(t, 2, d.IDs.Len())
}

func TestDecomposeInfersUndeclaredNodes(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Activity, "ex:act"),
		prov.NewRelation(prov.WasAssociatedWith, "", "ex:act", "ex:alice"),
	)

	d, err := Decompose(doc, GraphMode)
	require.NoError(t, err)

	p, ok := d.Partition("ex:alice")
	require.True(t, ok)
	assert.True(t, p.Inferred)
	assert.Equal(t, prov.Agent, p.Node.Kind)
	assert.Equal(t, []string{"ex:alice", "ex:act"}, nodeIDs(d))
}

func TestDecomposeCycleInGraphMode(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Entity, "ex:a"),
		prov.NewNode(prov.Entity, "ex:b"),
		prov.NewRelation(prov.WasDerivedFrom, "", "ex:a", "ex:b"),
		prov.NewRelation(prov.WasDerivedFrom, "", "ex:b", "ex:a"),
	)

	d, err := Decompose(doc, GraphMode)
	require.NoError(t, err)
	assert.Equal(t, []string{"ex:b", "ex:a"}, nodeIDs(d))
}

func TestDecomposeRoleModeRejectsCycles(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Entity, "ex:a"),
		prov.NewNode(prov.Entity, "ex:b"),
		prov.NewNode(prov.Agent, "ex:ag"),
		prov.NewRelation(prov.WasAttributedTo, "", "ex:a", "ex:ag"),
		prov.NewRelation(prov.WasAttributedTo, "", "ex:b", "ex:ag"),
		prov.NewRelation(prov.WasDerivedFrom, "", "ex:a", "ex:b"),
		prov.NewRelation(prov.WasDerivedFrom, "", "ex:b", "ex:a"),
	)

	_, err := Decompose(doc, RoleMode)
	require.Error(t, err)
	assert.True(t, IsGraphNotAcyclic(err))

	var cycleErr *GraphNotAcyclicError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"ex:a", "ex:b", "ex:a"}, cycleErr.Cycle)
}

func TestDecomposeRoleModeRejectsIsolatedNodes(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Entity, "ex:a"),
		prov.NewNode(prov.Agent, "ex:ag"),
		prov.NewNode(prov.Entity, "ex:orphan"),
		prov.NewRelation(prov.WasAttributedTo, "", "ex:a", "ex:ag"),
	)

	_, err := Decompose(doc, RoleMode)
	require.Error(t, err)
	assert.True(t, IsIsolatedNode(err))
	assert.Contains(t, err.Error(), "ex:orphan")
}

func TestDecomposeRoleModeAssignsAgents(t *testing.T) {
	doc := newDoc(t,
		prov.NewNode(prov.Entity, "ex:report"),
		prov.NewNode(prov.Activity, "ex:writing"),
		prov.NewNode(prov.Agent, "ex:alice"),
		prov.NewNode(prov.Agent, "ex:org"),
		prov.NewRelation(prov.WasAttributedTo, "", "ex:report", "ex:alice"),
		prov.NewRelation(prov.WasAssociatedWith, "", "ex:writing", "ex:alice"),
		prov.NewRelation(prov.ActedOnBehalfOf, "", "ex:alice", "ex:org"),
	)

	d, err := Decompose(doc, RoleMode)
	require.NoError(t, err)

	report, _ := d.Partition("ex:report")
	assert.Equal(t, "ex:alice", report.Agent)
	writing, _ := d.Partition("ex:writing")
	assert.Equal(t, "ex:alice", writing.Agent)
	alice, _ := d.Partition("ex:alice")
	assert.Equal(t, "", alice.Agent)
}

func TestDecomposeDanglingRelation(t *testing.T) {
	doc := newDoc(t, prov.NewRelation(prov.WasDerivedFrom, "ex:r"))

	_, err := Decompose(doc, GraphMode)
	require.Error(t, err)
}

func TestIDMapping(t *testing.T) {
	m := NewIDMapping()
	m.Seed("ex:r")

	_, res := m.Resolve("ex:r")
	assert.Equal(t, Unresolved, res)

	require.NoError(t, m.Set("ex:r", "abc"))
	m.Seed("ex:r")

	rec, res := m.Resolve("ex:r")
	assert.Equal(t, Resolved, res)
	assert.Equal(t, "abc", rec)

	assert.Error(t, m.Set("ex:r", ""))
	rec, _ = m.Resolve("ex:r")
	assert.Equal(t, "abc", rec, "placeholders never replace a record id")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("role")
	require.NoError(t, err)
	assert.Equal(t, RoleMode, m)
	assert.Equal(t, "role", m.String())

	_, err = ParseMode("tree")
	assert.Error(t, err)
}
