package prov

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ugorji/go/codec"
)

const blankPrefix = "_:"

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return jh
}

// JSON returns the PROV-JSON encoding of the document. Keys are sorted so
// that equal documents have identical encodings. Anonymous relations get
// blank identifiers (_:id1, _:id2...) in record order.
func (d *Document) JSON() ([]byte, error) {
	out := make(map[string]interface{})

	if len(d.namespaces) > 0 {
		prefixes := make(map[string]interface{}, len(d.namespaces))
		for _, ns := range d.namespaces {
			prefixes[ns.Prefix] = ns.URI
		}
		out["prefix"] = prefixes
	}

	blank := 0
	for _, r := range d.records {
		section, ok := out[string(r.Kind)].(map[string]interface{})
		if !ok {
			section = make(map[string]interface{})
			out[string(r.Kind)] = section
		}

		id := r.ID
		if id == "" {
			blank++
			id = fmt.Sprintf("%sid%d", blankPrefix, blank)
		}

		body := encodeRecordBody(r)
		switch prev := section[id].(type) {
		case nil:
			section[id] = body
		case []interface{}:
			section[id] = append(prev, body)
		default:
			section[id] = []interface{}{prev, body}
		}
	}

	var b bytes.Buffer
	enc := codec.NewEncoder(&b, jsonHandle())
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func encodeRecordBody(r *Record) map[string]interface{} {
	body := make(map[string]interface{})
	for name, v := range r.Formal {
		body[name] = v
	}
	for _, a := range r.Attributes {
		v := encodeValue(a.Value)
		switch prev := body[a.Name].(type) {
		case nil:
			body[a.Name] = v
		case []interface{}:
			body[a.Name] = append(prev, v)
		default:
			body[a.Name] = []interface{}{prev, v}
		}
	}
	return body
}

func encodeValue(v Value) interface{} {
	if v.Type == "" && v.Lang == "" {
		return v.Value
	}
	m := map[string]interface{}{"$": v.Value}
	if v.Type != "" {
		m["type"] = v.Type
	}
	if v.Lang != "" {
		m["lang"] = v.Lang
	}
	return m
}

// ParseJSON decodes a PROV-JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var raw map[string]interface{}
	dec := codec.NewDecoderBytes(data, jsonHandle())
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Format: "json", Msg: "malformed document", Err: err}
	}

	doc := NewDocument()

	if p, ok := raw["prefix"]; ok {
		prefixes, ok := p.(map[string]interface{})
		if !ok {
			return nil, &ParseError{Format: "json", Msg: "prefix must be an object"}
		}
		for _, prefix := range sortedKeys(prefixes) {
			uri, ok := prefixes[prefix].(string)
			if !ok {
				return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("prefix %s must map to a string", prefix)}
			}
			if err := doc.AddNamespace(prefix, uri); err != nil {
				return nil, &ParseError{Format: "json", Msg: "invalid prefix", Err: err}
			}
		}
	}

	// nodes first so that relations always follow the nodes they reference
	for _, kinds := range [][]Kind{nodeKinds, relationKinds} {
		for _, kind := range kinds {
			section, ok := raw[string(kind)]
			if !ok {
				continue
			}
			records, ok := section.(map[string]interface{})
			if !ok {
				return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("%s must be an object", kind)}
			}
			for _, id := range sortedKeys(records) {
				rs, err := decodeRecords(kind, id, records[id])
				if err != nil {
					return nil, err
				}
				for _, r := range rs {
					doc.AddRecord(r)
				}
			}
		}
	}

	for k := range raw {
		if k == "prefix" {
			continue
		}
		if _, ok := kindFromName(k); !ok {
			if k == "bundle" {
				return nil, &ParseError{Format: "json", Msg: "bundles are not supported"}
			}
			return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("unknown record type %s", k)}
		}
	}

	return doc, nil
}

// decodeRecords decodes the statements of one identifier. An identifier maps
// to a single object, or to a list of objects when several statements share
// it.
func decodeRecords(kind Kind, id string, raw interface{}) ([]*Record, error) {
	bodies := []interface{}{raw}
	if list, isList := raw.([]interface{}); isList {
		if len(list) == 0 {
			return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("%s %s has no statements", kind, id)}
		}
		bodies = list
	}

	res := make([]*Record, 0, len(bodies))
	for _, b := range bodies {
		body, ok := b.(map[string]interface{})
		if !ok {
			return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("%s %s must be an object", kind, id)}
		}
		r, err := decodeRecord(kind, id, body)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

func decodeRecord(kind Kind, id string, body map[string]interface{}) (*Record, error) {
	if strings.HasPrefix(id, blankPrefix) {
		if kind.IsNode() {
			return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("%s cannot be anonymous", kind)}
		}
		id = ""
	}

	r := &Record{Kind: kind, ID: id}
	if kind.IsRelation() {
		r.Formal = make(map[string]string)
	}

	for _, name := range sortedKeys(body) {
		if _, isSlot := kind.slot(name); isSlot {
			v, err := decodeValue(body[name])
			if err != nil {
				return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("%s %s: %s", kind, id, name), Err: err}
			}
			r.Formal[name] = v.Value
			continue
		}

		values := []interface{}{body[name]}
		if list, isList := body[name].([]interface{}); isList {
			values = list
		}
		for _, raw := range values {
			v, err := decodeValue(raw)
			if err != nil {
				return nil, &ParseError{Format: "json", Msg: fmt.Sprintf("%s %s: %s", kind, id, name), Err: err}
			}
			r.Attributes = append(r.Attributes, Attribute{Name: name, Value: v})
		}
	}

	return r, nil
}

func decodeValue(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case string:
		return String(v), nil
	case bool:
		return Value{Value: strconv.FormatBool(v), Type: "xsd:boolean"}, nil
	case int64:
		return Value{Value: strconv.FormatInt(v, 10), Type: "xsd:int"}, nil
	case uint64:
		return Value{Value: strconv.FormatUint(v, 10), Type: "xsd:int"}, nil
	case float64:
		return Value{Value: strconv.FormatFloat(v, 'g', -1, 64), Type: "xsd:double"}, nil
	case map[string]interface{}:
		lit, ok := v["$"]
		if !ok {
			return Value{}, fmt.Errorf("typed literal without $")
		}
		inner, err := decodeValue(lit)
		if err != nil {
			return Value{}, err
		}
		res := Value{Value: inner.Value}
		if t, ok := v["type"].(string); ok {
			res.Type = t
		}
		if l, ok := v["lang"].(string); ok {
			res.Lang = l
		}
		return res, nil
	}
	return Value{}, fmt.Errorf("unsupported value %v", raw)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
