package prov

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type provnTokenType int

const (
	tokWord provnTokenType = iota
	tokString
	tokQName
	tokURI
	tokPunct
	tokEOF
)

type provnToken struct {
	typ  provnTokenType
	text string
	lang string
	line int
}

func (t provnToken) String() string {
	if t.typ == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q (line %d)", t.text, t.line)
}

func isWordRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return !strings.ContainsRune(`(),;=[]<>"'`, r)
}

func lexProvN(src string) ([]provnToken, error) {
	var toks []provnToken
	runes := []rune(src)
	line := 1

	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '\n':
			line++
			i++
		case unicode.IsSpace(c):
			i++
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			j := i + 2
			for j+1 < len(runes) && !(runes[j] == '*' && runes[j+1] == '/') {
				if runes[j] == '\n' {
					line++
				}
				j++
			}
			if j+1 >= len(runes) {
				return nil, fmt.Errorf("unterminated comment on line %d", line)
			}
			i = j + 2
		case strings.ContainsRune("(),;=[]", c):
			toks = append(toks, provnToken{typ: tokPunct, text: string(c), line: line})
			i++
		case c == '<':
			j := i + 1
			for j < len(runes) && runes[j] != '>' {
				j++
			}
			if j == len(runes) {
				return nil, fmt.Errorf("unterminated URI on line %d", line)
			}
			toks = append(toks, provnToken{typ: tokURI, text: string(runes[i+1 : j]), line: line})
			i = j + 1
		case c == '"' || c == '\'':
			var b strings.Builder
			j := i + 1
			for ; j < len(runes) && runes[j] != c; j++ {
				if runes[j] == '\\' && j+1 < len(runes) {
					j++
				}
				if runes[j] == '\n' {
					line++
				}
				b.WriteRune(runes[j])
			}
			if j == len(runes) {
				return nil, fmt.Errorf("unterminated literal on line %d", line)
			}
			tok := provnToken{typ: tokString, text: b.String(), line: line}
			if c == '\'' {
				tok.typ = tokQName
			}
			i = j + 1
			if c == '"' && i < len(runes) && runes[i] == '@' {
				j = i + 1
				for j < len(runes) && isWordRune(runes[j]) {
					j++
				}
				tok.lang = string(runes[i+1 : j])
				i = j
			}
			toks = append(toks, tok)
		default:
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			toks = append(toks, provnToken{typ: tokWord, text: string(runes[i:j]), line: line})
			i = j
		}
	}

	return append(toks, provnToken{typ: tokEOF, line: line}), nil
}

type provnParser struct {
	toks []provnToken
	pos  int
	doc  *Document
}

// ParseProvN decodes a PROV-N document. Bundles are not supported.
func ParseProvN(data []byte) (*Document, error) {
	toks, err := lexProvN(string(data))
	if err != nil {
		return nil, &ParseError{Format: "provn", Msg: err.Error()}
	}
	p := &provnParser{toks: toks, doc: NewDocument()}
	if err := p.parse(); err != nil {
		return nil, &ParseError{Format: "provn", Msg: err.Error()}
	}
	return p.doc, nil
}

func (p *provnParser) peek() provnToken {
	return p.toks[p.pos]
}

func (p *provnParser) next() provnToken {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *provnParser) expect(typ provnTokenType, text string) (provnToken, error) {
	t := p.next()
	if t.typ != typ || (text != "" && t.text != text) {
		want := text
		if want == "" {
			want = "a name"
		}
		return t, fmt.Errorf("expected %s, got %s", want, t)
	}
	return t, nil
}

func (p *provnParser) parse() error {
	if _, err := p.expect(tokWord, "document"); err != nil {
		return err
	}

	for {
		t := p.next()
		if t.typ != tokWord {
			return fmt.Errorf("unexpected %s", t)
		}

		switch t.text {
		case "endDocument":
			return nil
		case "prefix":
			name, err := p.expect(tokWord, "")
			if err != nil {
				return err
			}
			uri, err := p.expect(tokURI, "")
			if err != nil {
				return err
			}
			if err := p.doc.AddNamespace(name.text, uri.text); err != nil {
				return err
			}
		case "default":
			uri, err := p.expect(tokURI, "")
			if err != nil {
				return err
			}
			if err := p.doc.AddNamespace("default", uri.text); err != nil {
				return err
			}
		case "bundle":
			return fmt.Errorf("bundles are not supported")
		default:
			kind, ok := kindFromName(t.text)
			if !ok {
				return fmt.Errorf("unknown statement %s", t)
			}
			r, err := p.statement(kind)
			if err != nil {
				return err
			}
			p.doc.AddRecord(r)
		}
	}
}

func (p *provnParser) statement(kind Kind) (*Record, error) {
	if _, err := p.expect(tokPunct, "("); err != nil {
		return nil, err
	}

	r := &Record{Kind: kind}
	if kind.IsRelation() {
		r.Formal = make(map[string]string)
		if p.peek().typ == tokWord && p.toks[p.pos+1].typ == tokPunct && p.toks[p.pos+1].text == ";" {
			id := p.next().text
			p.next()
			if id != "-" {
				r.ID = id
			}
		}
	}

	var args []string
	for {
		t := p.next()
		switch {
		case t.typ == tokPunct && t.text == "[":
			attrs, err := p.attributes()
			if err != nil {
				return nil, err
			}
			r.Attributes = append(r.Attributes, attrs...)
		case t.typ == tokWord:
			args = append(args, t.text)
		default:
			return nil, fmt.Errorf("unexpected %s in %s", t, kind)
		}

		t = p.next()
		if t.typ == tokPunct && t.text == ")" {
			break
		}
		if t.typ != tokPunct || t.text != "," {
			return nil, fmt.Errorf("expected , or ) in %s, got %s", kind, t)
		}
	}

	if kind.IsNode() {
		if len(args) == 0 || args[0] == "-" {
			return nil, fmt.Errorf("%s without identifier", kind)
		}
		r.ID = args[0]
		extra := args[1:]
		if (kind != Activity && len(extra) > 0) || len(extra) > 2 {
			return nil, fmt.Errorf("too many arguments for %s %s", kind, r.ID)
		}
		for i, name := range []string{"prov:startTime", "prov:endTime"} {
			if i < len(extra) && extra[i] != "-" {
				r.Attributes = append(r.Attributes, Attribute{Name: name, Value: Value{Value: extra[i], Type: "xsd:dateTime"}})
			}
		}
		return r, nil
	}

	slots := kind.Slots()
	if len(args) > len(slots) {
		return nil, fmt.Errorf("too many arguments for %s", kind)
	}
	for i, a := range args {
		if a != "-" {
			r.Formal[slots[i].Name] = a
		}
	}
	return r, nil
}

func (p *provnParser) attributes() ([]Attribute, error) {
	var attrs []Attribute
	if t := p.peek(); t.typ == tokPunct && t.text == "]" {
		p.next()
		return nil, nil
	}
	for {
		name, err := p.expect(tokWord, "")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokPunct, "="); err != nil {
			return nil, err
		}
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attribute{Name: name.text, Value: v})

		t := p.next()
		if t.typ == tokPunct && t.text == "]" {
			return attrs, nil
		}
		if t.typ != tokPunct || t.text != "," {
			return nil, fmt.Errorf("expected , or ] in attributes, got %s", t)
		}
	}
}

func (p *provnParser) literal() (Value, error) {
	t := p.next()
	switch t.typ {
	case tokString:
		v := Value{Value: t.text, Lang: t.lang}
		if n := p.peek(); n.typ == tokWord && n.text == "%%" {
			p.next()
			typ, err := p.expect(tokWord, "")
			if err != nil {
				return Value{}, err
			}
			v.Type = typ.text
		}
		return v, nil
	case tokQName:
		return Value{Value: t.text, Type: "prov:QUALIFIED_NAME"}, nil
	case tokWord:
		if isInteger(t.text) {
			return Value{Value: t.text, Type: "xsd:int"}, nil
		}
		if _, err := strconv.ParseFloat(t.text, 64); err == nil {
			return Value{Value: t.text, Type: "xsd:double"}, nil
		}
		return Value{Value: t.text, Type: "prov:QUALIFIED_NAME"}, nil
	}
	return Value{}, fmt.Errorf("expected a literal, got %s", t)
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
