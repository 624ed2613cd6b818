package prov

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	provNS = "http://www.w3.org/ns/prov#"
	xsiNS  = "http://www.w3.org/2001/XMLSchema-instance"
	xmlNS  = "http://www.w3.org/XML/1998/namespace"
)

type xmlElement struct {
	Text  string     `xml:",chardata"`
	Attrs []xml.Attr `xml:",any,attr"`
}

func (e *xmlElement) attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// ParseXML decodes a PROV-XML document.
func ParseXML(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root, err := xmlRoot(dec)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	prefixes := map[string]string{provNS: "prov", xsiNS: "xsi", reservedNamespaces["xsd"]: "xsd"}
	for _, a := range root.Attr {
		switch {
		case a.Name.Space == "xmlns":
			if err := doc.AddNamespace(a.Name.Local, a.Value); err != nil {
				return nil, &ParseError{Format: "xml", Msg: "invalid namespace", Err: err}
			}
			prefixes[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			if err := doc.AddNamespace("default", a.Value); err != nil {
				return nil, &ParseError{Format: "xml", Msg: "invalid namespace", Err: err}
			}
			prefixes[a.Value] = "default"
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &ParseError{Format: "xml", Msg: "unterminated document"}
		}
		if err != nil {
			return nil, &ParseError{Format: "xml", Msg: "malformed document", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			r, err := xmlRecord(dec, t, prefixes)
			if err != nil {
				return nil, err
			}
			doc.AddRecord(r)
		case xml.EndElement:
			return doc, nil
		}
	}
}

func xmlRoot(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, &ParseError{Format: "xml", Msg: "no document element", Err: err}
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Space != provNS || se.Name.Local != "document" {
				return xml.StartElement{}, &ParseError{Format: "xml", Msg: fmt.Sprintf("unexpected root element %s", se.Name.Local)}
			}
			return se, nil
		}
	}
}

func xmlRecord(dec *xml.Decoder, start xml.StartElement, prefixes map[string]string) (*Record, error) {
	if start.Name.Space != provNS {
		return nil, &ParseError{Format: "xml", Msg: fmt.Sprintf("unexpected element %s", start.Name.Local)}
	}
	if start.Name.Local == "bundleContent" {
		return nil, &ParseError{Format: "xml", Msg: "bundles are not supported"}
	}
	kind, ok := kindFromName(start.Name.Local)
	if !ok {
		return nil, &ParseError{Format: "xml", Msg: fmt.Sprintf("unknown record type %s", start.Name.Local)}
	}

	r := &Record{Kind: kind}
	for _, a := range start.Attr {
		if a.Name.Space == provNS && a.Name.Local == "id" {
			r.ID = a.Value
		}
	}
	if r.ID == "" && kind.IsNode() {
		return nil, &ParseError{Format: "xml", Msg: fmt.Sprintf("%s without prov:id", kind)}
	}
	if kind.IsRelation() {
		r.Formal = make(map[string]string)
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ParseError{Format: "xml", Msg: "malformed record", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			prefix, ok := prefixes[t.Name.Space]
			if !ok {
				return nil, &ParseError{Format: "xml", Msg: fmt.Sprintf("undeclared namespace %s", t.Name.Space)}
			}
			name := prefix + ":" + t.Name.Local

			var el xmlElement
			if err := dec.DecodeElement(&el, &t); err != nil {
				return nil, &ParseError{Format: "xml", Msg: "malformed attribute " + name, Err: err}
			}

			if s, isSlot := kind.slot(name); isSlot {
				if s.Type == TimeLiteral {
					r.Formal[name] = strings.TrimSpace(el.Text)
				} else if ref, ok := el.attr(provNS, "ref"); ok {
					r.Formal[name] = ref
				}
				continue
			}

			v := Value{Value: strings.TrimSpace(el.Text)}
			if ref, ok := el.attr(provNS, "ref"); ok && v.Value == "" {
				v = Value{Value: ref, Type: "prov:QUALIFIED_NAME"}
			}
			if typ, ok := el.attr(xsiNS, "type"); ok {
				v.Type = typ
			}
			if lang, ok := el.attr(xmlNS, "lang"); ok {
				v.Lang = lang
			}
			r.Attributes = append(r.Attributes, Attribute{Name: name, Value: v})
		case xml.EndElement:
			return r, nil
		}
	}
}
