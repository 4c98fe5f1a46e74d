package format

import (
	"strings"

	"github.com/pseudomuto/mecha/pkg/ast"
)

// Table formats a single table declaration. Indexes are written after the
// closing brace.
func (f *Formatter) Table(t ast.TableDef) string {
	var header strings.Builder
	if t.IsAbstract {
		header.WriteString("abstract ")
	}
	header.WriteString("table ")
	header.WriteString(t.ID.Name)
	if t.ExtendedBy != nil {
		header.WriteString(" extends ")
		header.WriteString(t.ExtendedBy.Name)
	}
	header.WriteString(" {")

	lines := make([]string, 0, len(t.Columns)+2)
	lines = append(lines, header.String())

	width := 0
	if f.options.AlignTypes {
		for _, c := range t.Columns {
			width = max(width, len(c.ID.Name)+1)
		}
	}

	for i, c := range t.Columns {
		line := f.indent(1) + f.column(c, width)
		if i < len(t.Columns)-1 {
			line += ","
		}
		lines = append(lines, line)
	}

	closing := "}"
	if t.Indexes != nil {
		closing += " " + formatIndexes(t.Indexes)
	}
	lines = append(lines, closing)

	return strings.Join(lines, "\n")
}

// column formats a column, padding "name:" to width when aligning types.
func (f *Formatter) column(c ast.ColumnDef, width int) string {
	name := c.ID.Name + ":"
	if pad := width - len(name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}

	parts := []string{name, c.Type.Name}
	if kw := c.Attribute.Keyword(); kw != "" {
		parts = append(parts, kw)
	}

	if ref := c.Reference; ref != nil {
		parts = append(parts, "(ref "+ref.Operator.Symbol()+" "+ref.Table.Name+"."+ref.Column.Name+")")
	}

	return strings.Join(parts, " ")
}

func formatIndexes(indexes []ast.Index) string {
	items := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		if idx.Kind == ast.IndexSingle {
			items = append(items, idx.Columns[0].Name)
			continue
		}

		names := make([]string, 0, len(idx.Columns))
		for _, c := range idx.Columns {
			names = append(names, c.Name)
		}
		items = append(items, "("+strings.Join(names, ", ")+")")
	}

	return "indexes { " + strings.Join(items, ", ") + " }"
}
