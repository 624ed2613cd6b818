package prov

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	cases := []struct {
		input  string
		format Format
		ok     bool
	}{
		{`{"entity": {}}`, FormatJSON, true},
		{"  \n{}", FormatJSON, true},
		{`<?xml version="1.0"?><prov:document/>`, FormatXML, true},
		{"document\nendDocument", FormatProvN, true},
		{"hello world", "", false},
		{"                {", "", false},
	}

	for _, c := range cases {
		format, ok := Sniff([]byte(c.input))
		assert.Equal(t, c.ok, ok, c.input)
		assert.Equal(t, c.format, format, c.input)
	}
}

func TestParseAllEncodings(t *testing.T) {
	want := exampleDocument(t)

	for _, name := range []string{"example.json", "example.xml", "example.provn"} {
		t.Run(name, func(t *testing.T) {
			data, err := ioutil.ReadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			doc, err := Parse(data)
			require.NoError(t, err)
			assert.True(t, want.Equal(doc), "decoded document differs from the example")

			doc, err = ParseReader(bytes.NewReader(data))
			require.NoError(t, err)
			assert.True(t, want.Equal(doc))
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse([]byte("not a provenance document"))
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	_, err = ParseFormat(Format("turtle"), []byte("@prefix"))
	assert.True(t, IsParseError(err))
}

func TestParseXMLErrors(t *testing.T) {
	cases := map[string]string{
		"wrong root":   `<?xml version="1.0"?><doc/>`,
		"unterminated": `<?xml version="1.0"?><prov:document xmlns:prov="http://www.w3.org/ns/prov#"><prov:entity prov:id="ex:a">`,
		"unknown kind": `<?xml version="1.0"?><prov:document xmlns:prov="http://www.w3.org/ns/prov#"><prov:thing prov:id="ex:a"/></prov:document>`,
		"no id":        `<?xml version="1.0"?><prov:document xmlns:prov="http://www.w3.org/ns/prov#"><prov:entity/></prov:document>`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseXML([]byte(data))
			require.Error(t, err)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParseProvN(t *testing.T) {
	data := []byte(`document
  prefix ex <http://example.org/>
  activity(ex:act, 2020-01-01T00:00:00, -, [ex:n=5, ex:x=1.5, ex:s="hi"@en])
  entity(ex:e)
  wasGeneratedBy(ex:e, ex:act, 2020-01-01T01:00:00)
  used(-; ex:act, ex:e, -)
  wasDerivedFrom(ex:d; ex:e, ex:e, -, -, -, [prov:type='prov:Revision'])
endDocument`)

	doc, err := ParseProvN(data)
	require.NoError(t, err)
	require.Len(t, doc.Nodes(), 2)
	require.Len(t, doc.Relations(), 3)

	act, ok := doc.Node("ex:act")
	require.True(t, ok)
	start, _ := act.Attr("prov:startTime")
	assert.Equal(t, Value{Value: "2020-01-01T00:00:00", Type: "xsd:dateTime"}, start)
	_, hasEnd := act.Attr("prov:endTime")
	assert.False(t, hasEnd)
	n, _ := act.Attr("ex:n")
	assert.Equal(t, "xsd:int", n.Type)
	x, _ := act.Attr("ex:x")
	assert.Equal(t, "xsd:double", x.Type)
	s, _ := act.Attr("ex:s")
	assert.Equal(t, Value{Value: "hi", Lang: "en"}, s)

	rels := doc.Relations()
	assert.Equal(t, "2020-01-01T01:00:00", rels[0].Formal["prov:time"])
	assert.False(t, rels[1].Identified())
	assert.Equal(t, "ex:d", rels[2].ID)
	assert.Equal(t, rels[2].Source(), rels[2].Target(), "self references are kept")
	typ, _ := rels[2].Attr("prov:type")
	assert.Equal(t, Value{Value: "prov:Revision", Type: "prov:QUALIFIED_NAME"}, typ)
}

func TestParseProvNErrors(t *testing.T) {
	cases := map[string]string{
		"no header":      "entity(ex:a)",
		"unterminated":   "document entity(ex:a)",
		"unknown":        "document thing(ex:a) endDocument",
		"too many args":  "document wasAttributedTo(ex:a, ex:b, ex:c) endDocument",
		"entity args":    "document entity(ex:a, ex:b) endDocument",
		"bundle":         "document bundle ex:b endBundle endDocument",
		"bad comment":    "document /* endDocument",
		"bad attributes": "document entity(ex:a, [prov:label]) endDocument",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProvN([]byte(data))
			require.Error(t, err)
			assert.True(t, IsParseError(err))
		})
	}
}
