package ast

type (
	// Ident is a single occurrence of a name in the source.
	Ident struct {
		Name string
		Span Span
	}

	// Schema is the root of the tree. Name is the source name handed to the
	// parser (usually a file path) and Span covers the whole source text.
	Schema struct {
		Name   string
		Tables []TableDef
		Span   Span
	}

	// TableDef is a single table declaration.
	TableDef struct {
		ID         Ident
		IsAbstract bool
		// ExtendedBy names the parent table, when the declaration has an extends
		// clause.
		ExtendedBy *Ident
		Columns    []ColumnDef
		// Indexes is nil when the table has no indexes section.
		Indexes []Index
		Span    Span
	}

	// ColumnDef is a column declared directly on a table.
	ColumnDef struct {
		ID        Ident
		Type      Ident
		Attribute Attribute
		Reference *ReferenceDef
		Span      Span
	}

	// ReferenceDef is the `(ref <op> table.column)` clause of a column.
	ReferenceDef struct {
		Operator RefOperator
		Table    Ident
		Column   Ident
		Span     Span
	}

	// Index is either a single column or a composite of two or more columns.
	Index struct {
		Kind    IndexKind
		Columns []Ident
		Span    Span
	}
)

// Attribute is the optional column modifier.
type Attribute int

const (
	// AttributeNone marks a plain column.
	AttributeNone Attribute = iota
	// AttributePrimary marks the primary key column.
	AttributePrimary
	// AttributeUnique marks a column with a uniqueness constraint.
	AttributeUnique
)

func (a Attribute) String() string {
	switch a {
	case AttributePrimary:
		return "Primary"
	case AttributeUnique:
		return "Unique"
	default:
		return "None"
	}
}

// Keyword returns the source keyword for the attribute, or "" for
// AttributeNone.
func (a Attribute) Keyword() string {
	switch a {
	case AttributePrimary:
		return "primary"
	case AttributeUnique:
		return "unique"
	default:
		return ""
	}
}

// RefOperator is the relation kind of a reference.
type RefOperator int

const (
	// OneToMany is written `=>`.
	OneToMany RefOperator = iota
	// OneToOne is written `==`.
	OneToOne
	// ManyToMany is written `<>`.
	ManyToMany
)

func (o RefOperator) String() string {
	switch o {
	case OneToOne:
		return "OneToOne"
	case ManyToMany:
		return "ManyToMany"
	default:
		return "OneToMany"
	}
}

// Symbol returns the operator as written in source: `=>`, `==` or `<>`.
func (o RefOperator) Symbol() string {
	switch o {
	case OneToOne:
		return "=="
	case ManyToMany:
		return "<>"
	default:
		return "=>"
	}
}

// RefOperatorFromSymbol maps a source operator back to its RefOperator.
func RefOperatorFromSymbol(sym string) (RefOperator, bool) {
	switch sym {
	case "=>":
		return OneToMany, true
	case "==":
		return OneToOne, true
	case "<>":
		return ManyToMany, true
	default:
		return OneToMany, false
	}
}

// IndexKind distinguishes single and composite indexes.
type IndexKind int

const (
	// IndexSingle covers exactly one column.
	IndexSingle IndexKind = iota
	// IndexComposite covers two or more columns, in order.
	IndexComposite
)

func (k IndexKind) String() string {
	if k == IndexComposite {
		return "Composite"
	}
	return "Single"
}

// SingleIndex builds an index over one column.
func SingleIndex(col Ident, span Span) Index {
	return Index{Kind: IndexSingle, Columns: []Ident{col}, Span: span}
}

// CompositeIndex builds an index over several columns, in order.
func CompositeIndex(cols []Ident, span Span) Index {
	return Index{Kind: IndexComposite, Columns: cols, Span: span}
}
