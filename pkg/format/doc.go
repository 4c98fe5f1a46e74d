// Package format renders schemas back into mecha source text.
//
// The output is canonical: one column per line, tables separated by a blank
// line, keywords in lower case and any indexes section written directly after
// the closing brace. Formatting a parsed schema and parsing the result again
// yields the same tree (spans aside), so the formatter doubles as the textual
// emitter for documents decoded from JSON or YAML.
//
// Key features:
//   - Configurable indentation
//   - Optional alignment of column types within a table
//   - Source-to-source formatting for the `mecha fmt` command
//
// Usage:
//
//	// Object-oriented API with default options
//	formatter := format.New(format.Defaults)
//
//	// Object-oriented API with custom options
//	formatter := format.New(format.FormatterOptions{
//		IndentSize: 2,
//		AlignTypes: false,
//	})
//
//	var buf bytes.Buffer
//	err := formatter.Format(&buf, schema)
//
//	// Functional API
//	err := format.Format(&buf, format.Defaults, schema)
//
//	// Straight from source
//	out, err := formatter.Source("user.mecha", src)
//
// Output:
//
//	abstract table common {
//	    created_at: timestampz
//	}
//
//	table user extends common {
//	    id:   uuid primary,
//	    name: string unique (ref => team.owner)
//	} indexes { id, (id, name) }
package format
