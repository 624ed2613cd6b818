package commands

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v3"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	var b bytes.Buffer
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	jh.Indent = 2
	if err := codec.NewEncoder(&b, jh).Encode(v); err != nil {
		return err
	}
	b.WriteByte('\n')
	_, err := w.Write(b.Bytes())
	return err
}

func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// render writes v in the configured output format, using text for the text
// format.
func render(w io.Writer, v interface{}, text func(io.Writer) error) error {
	switch _config.Output {
	case "json":
		return printJSON(w, v)
	case "yaml":
		return printYAML(w, v)
	case "text":
		return text(w)
	}
	return fmt.Errorf("unknown output format %q", _config.Output)
}
