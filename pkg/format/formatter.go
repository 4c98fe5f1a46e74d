package format

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/parser"
)

// FormatterOptions controls formatting behavior
type FormatterOptions struct {
	// IndentSize specifies the number of spaces for each indent level
	IndentSize int
	// AlignTypes whether to align column types within a table
	AlignTypes bool
}

// Defaults are the standard formatting options.
var Defaults = FormatterOptions{
	IndentSize: consts.DefaultIndentSize,
	AlignTypes: consts.DefaultAlignTypes,
}

// Formatter renders schemas as source text with configurable options
type Formatter struct {
	options FormatterOptions
}

// New creates a new Formatter with the specified options. A non-positive
// IndentSize falls back to the default.
func New(options FormatterOptions) *Formatter {
	if options.IndentSize <= 0 {
		options.IndentSize = Defaults.IndentSize
	}

	return &Formatter{options: options}
}

// Options returns the options the formatter was built with.
func (f *Formatter) Options() FormatterOptions {
	return f.options
}

// Format writes every table of schema to w, separated by blank lines and
// ending with a newline.
func (f *Formatter) Format(w io.Writer, schema *ast.Schema) error {
	if schema == nil || len(schema.Tables) == 0 {
		return nil
	}

	tables := make([]string, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		tables = append(tables, f.Table(t))
	}

	_, err := io.WriteString(w, strings.Join(tables, "\n\n")+"\n")
	return err
}

// Source parses src and returns it formatted. Only syntax is checked; the
// error is the parser's diagnostic.List when src does not parse.
func (f *Formatter) Source(sourceName, src string) (string, error) {
	schema, err := parser.Parse(sourceName, src)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := f.Format(&buf, schema); err != nil {
		return "", errors.Wrap(err, "failed to format schema")
	}

	return buf.String(), nil
}

// Format writes schema to w using options (convenience function)
func Format(w io.Writer, options FormatterOptions, schema *ast.Schema) error {
	return New(options).Format(w, schema)
}

// indent returns the specified number of indent levels as spaces
func (f *Formatter) indent(level int) string {
	return strings.Repeat(" ", level*f.options.IndentSize)
}
