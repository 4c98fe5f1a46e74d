package document

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/ast"
)

type (
	// Document is the serialized form of a schema. It mirrors the syntax tree
	// without any source spans.
	Document struct {
		Name   string  `json:"name" yaml:"name"`
		Tables []Table `json:"tables" yaml:"tables"`
	}

	// Ident is a serialized identifier.
	Ident struct {
		Name string `json:"name" yaml:"name"`
	}

	// Table is a serialized table declaration. ExtendedBy and Indexes are null
	// when the source has no extends clause or indexes section.
	Table struct {
		ID         Ident    `json:"id" yaml:"id"`
		IsAbstract bool     `json:"is_abstract" yaml:"is_abstract"`
		ExtendedBy *Ident   `json:"extended_by" yaml:"extended_by,omitempty"`
		Columns    []Column `json:"columns" yaml:"columns"`
		Indexes    []Index  `json:"indexes" yaml:"indexes,omitempty"`
	}

	// Column is a serialized column. Attribute is "Primary", "Unique" or null.
	Column struct {
		ID        Ident      `json:"id" yaml:"id"`
		Type      Ident      `json:"typ" yaml:"typ"`
		Attribute *string    `json:"attribute" yaml:"attribute,omitempty"`
		Reference *Reference `json:"reference" yaml:"reference,omitempty"`
	}

	// Reference is a serialized reference clause. Operator is one of
	// "OneToMany", "OneToOne" or "ManyToMany".
	Reference struct {
		Operator string `json:"operator" yaml:"operator"`
		Table    Ident  `json:"table" yaml:"table"`
		Column   Ident  `json:"column" yaml:"column"`
	}

	// Index holds exactly one of Single or Composite, which encodes as
	// {"Single": {...}} or {"Composite": [...]}.
	Index struct {
		Single    *Ident  `json:"Single,omitempty" yaml:"Single,omitempty"`
		Composite []Ident `json:"Composite,omitempty" yaml:"Composite,omitempty"`
	}
)

// FromSchema converts a schema into its serialized form.
func FromSchema(schema *ast.Schema) *Document {
	doc := &Document{
		Name:   schema.Name,
		Tables: make([]Table, 0, len(schema.Tables)),
	}

	for _, t := range schema.Tables {
		table := Table{
			ID:         ident(t.ID),
			IsAbstract: t.IsAbstract,
			Columns:    make([]Column, 0, len(t.Columns)),
		}

		if t.ExtendedBy != nil {
			parent := ident(*t.ExtendedBy)
			table.ExtendedBy = &parent
		}

		for _, c := range t.Columns {
			table.Columns = append(table.Columns, column(c))
		}

		if t.Indexes != nil {
			table.Indexes = make([]Index, 0, len(t.Indexes))
			for _, idx := range t.Indexes {
				table.Indexes = append(table.Indexes, index(idx))
			}
		}

		doc.Tables = append(doc.Tables, table)
	}

	return doc
}

func column(c ast.ColumnDef) Column {
	col := Column{ID: ident(c.ID), Type: ident(c.Type)}

	if c.Attribute != ast.AttributeNone {
		attr := c.Attribute.String()
		col.Attribute = &attr
	}

	if c.Reference != nil {
		col.Reference = &Reference{
			Operator: c.Reference.Operator.String(),
			Table:    ident(c.Reference.Table),
			Column:   ident(c.Reference.Column),
		}
	}

	return col
}

func index(idx ast.Index) Index {
	if idx.Kind == ast.IndexSingle {
		single := ident(idx.Columns[0])
		return Index{Single: &single}
	}

	cols := make([]Ident, 0, len(idx.Columns))
	for _, c := range idx.Columns {
		cols = append(cols, ident(c))
	}

	return Index{Composite: cols}
}

func ident(id ast.Ident) Ident {
	return Ident{Name: id.Name}
}

// Schema converts the document back into a syntax tree. Spans are left zero.
func (d *Document) Schema() (*ast.Schema, error) {
	schema := &ast.Schema{
		Name:   d.Name,
		Tables: make([]ast.TableDef, 0, len(d.Tables)),
	}

	for _, t := range d.Tables {
		table, err := t.tableDef()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid table %q", t.ID.Name)
		}

		schema.Tables = append(schema.Tables, table)
	}

	return schema, nil
}

func (t Table) tableDef() (ast.TableDef, error) {
	table := ast.TableDef{
		ID:         t.ID.ident(),
		IsAbstract: t.IsAbstract,
		Columns:    make([]ast.ColumnDef, 0, len(t.Columns)),
	}

	if t.ExtendedBy != nil {
		parent := t.ExtendedBy.ident()
		table.ExtendedBy = &parent
	}

	for _, c := range t.Columns {
		col, err := c.columnDef()
		if err != nil {
			return ast.TableDef{}, errors.Wrapf(err, "invalid column %q", c.ID.Name)
		}

		table.Columns = append(table.Columns, col)
	}

	if t.Indexes != nil {
		table.Indexes = make([]ast.Index, 0, len(t.Indexes))
		for i, idx := range t.Indexes {
			switch {
			case idx.Single != nil && idx.Composite == nil:
				table.Indexes = append(table.Indexes, ast.SingleIndex(idx.Single.ident(), ast.Span{}))
			case idx.Single == nil && len(idx.Composite) >= 2:
				cols := make([]ast.Ident, 0, len(idx.Composite))
				for _, c := range idx.Composite {
					cols = append(cols, c.ident())
				}
				table.Indexes = append(table.Indexes, ast.CompositeIndex(cols, ast.Span{}))
			default:
				return ast.TableDef{}, errors.Errorf("index %d must be either a single column or a composite of at least two", i)
			}
		}
	}

	return table, nil
}

func (c Column) columnDef() (ast.ColumnDef, error) {
	col := ast.ColumnDef{ID: c.ID.ident(), Type: c.Type.ident()}

	if c.Attribute != nil {
		switch *c.Attribute {
		case ast.AttributePrimary.String():
			col.Attribute = ast.AttributePrimary
		case ast.AttributeUnique.String():
			col.Attribute = ast.AttributeUnique
		default:
			return ast.ColumnDef{}, errors.Errorf("unknown attribute %q", *c.Attribute)
		}
	}

	if c.Reference != nil {
		op, ok := refOperators[c.Reference.Operator]
		if !ok {
			return ast.ColumnDef{}, errors.Errorf("unknown reference operator %q", c.Reference.Operator)
		}

		col.Reference = &ast.ReferenceDef{
			Operator: op,
			Table:    c.Reference.Table.ident(),
			Column:   c.Reference.Column.ident(),
		}
	}

	return col, nil
}

var refOperators = map[string]ast.RefOperator{
	ast.OneToMany.String():  ast.OneToMany,
	ast.OneToOne.String():   ast.OneToOne,
	ast.ManyToMany.String(): ast.ManyToMany,
}

func (i Ident) ident() ast.Ident {
	return ast.Ident{Name: i.Name}
}
