package document

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding for documents.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{JSON, YAML}

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted
// as an alias for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", errors.Errorf("unsupported document format: %s", name)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes doc to w. JSON output is indented by two spaces, YAML output
// uses two-space block indentation.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "failed to encode json document")
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "failed to encode yaml document")
		}
		return errors.Wrap(enc.Close(), "failed to encode yaml document")
	default:
		return errors.Errorf("unsupported document format: %s", f)
	}
}

// Decode reads a single document from r. Unknown fields are rejected.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document

	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode json document")
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode yaml document")
		}
	default:
		return nil, errors.Errorf("unsupported document format: %s", f)
	}

	return &doc, nil
}
