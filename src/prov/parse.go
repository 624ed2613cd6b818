package prov

import (
	"bytes"
	"io"
	"io/ioutil"
)

// sniffLen is how many leading bytes are inspected to pick an encoding.
const sniffLen = 15

// Format is a PROV encoding.
type Format string

// Supported encodings
const (
	FormatJSON  Format = "json"
	FormatXML   Format = "xml"
	FormatProvN Format = "provn"
)

// Sniff guesses the encoding of data from its first bytes: a curly brace for
// PROV-JSON, an XML declaration for PROV-XML and the document keyword for
// PROV-N.
func Sniff(data []byte) (Format, bool) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	switch {
	case bytes.Contains(head, []byte("{")):
		return FormatJSON, true
	case bytes.Contains(head, []byte("<?xml")):
		return FormatXML, true
	case bytes.Contains(head, []byte("document")):
		return FormatProvN, true
	}
	return "", false
}

// Parse decodes a document in any of the supported encodings.
func Parse(data []byte) (*Document, error) {
	format, ok := Sniff(data)
	if !ok {
		return nil, &ParseError{Format: "unknown", Msg: "unsupported encoding"}
	}
	return ParseFormat(format, data)
}

// ParseFormat decodes a document in the given encoding.
func ParseFormat(format Format, data []byte) (*Document, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatXML:
		return ParseXML(data)
	case FormatProvN:
		return ParseProvN(data)
	}
	return nil, &ParseError{Format: string(format), Msg: "unsupported encoding"}
}

// ParseReader reads r to the end and parses the content.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Format: "unknown", Msg: "reading input", Err: err}
	}
	return Parse(data)
}
