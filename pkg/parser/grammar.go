package parser

import (
	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/diagnostic"
	"github.com/pseudomuto/mecha/pkg/lexer"
)

// grammar is the participle parser for a complete schema. Each rule below is
// an ordinary participle node and can be built on its own (see the rule
// tests).
var grammar = participle.MustBuild[schemaNode](
	participle.Lexer(lexer.Definition),
)

type (
	// schema := table+
	schemaNode struct {
		Tables []*tableNode `parser:"@@+"`
	}

	// table := "abstract"? "table" ident ("extends" ident)?
	//          "{" column ("," column)* indexes? "}" indexes?
	tableNode struct {
		Tokens []plexer.Token

		Abstract bool          `parser:"@'abstract'?"`
		Name     *identNode    `parser:"'table' @@"`
		Parent   *identNode    `parser:"('extends' @@)?"`
		Columns  []*columnNode `parser:"'{' @@ (',' @@)*"`
		Inner    *indexesNode  `parser:"@@? '}'"`
		Outer    *indexesNode  `parser:"@@?"`
	}

	// column := ident ":" ident ("primary" | "unique")? reference?
	columnNode struct {
		Tokens []plexer.Token

		Name      *identNode     `parser:"@@ ':'"`
		Type      *identNode     `parser:"@@"`
		Attribute string         `parser:"@('primary' | 'unique')?"`
		Reference *referenceNode `parser:"@@?"`
	}

	// reference := "(" "ref" refop ident "." ident ")"
	referenceNode struct {
		Tokens []plexer.Token

		Operator string     `parser:"'(' 'ref' @RefOp"`
		Table    *identNode `parser:"@@ '.'"`
		Column   *identNode `parser:"@@ ')'"`
	}

	// indexes := "indexes" "{" index ("," index)* "}"
	indexesNode struct {
		Tokens []plexer.Token

		Items []*indexItemNode `parser:"'indexes' '{' @@ (',' @@)* '}'"`
	}

	// index := "(" ident "," ident ("," ident)* ")" | ident
	indexItemNode struct {
		Tokens []plexer.Token

		Composite []*identNode `parser:"  '(' @@ ',' @@ (',' @@)* ')'"`
		Single    *identNode   `parser:"| @@"`
	}

	identNode struct {
		Pos plexer.Position

		Name string `parser:"@Ident"`
	}
)

func (n *schemaNode) lower(sourceName, source string) (*ast.Schema, diagnostic.List) {
	schema := &ast.Schema{
		Name:   sourceName,
		Tables: make([]ast.TableDef, 0, len(n.Tables)),
		Span:   ast.NewSpan(0, len(source)),
	}

	var diags diagnostic.List
	for _, t := range n.Tables {
		table, diag := t.lower(sourceName)
		if diag != nil {
			diags = append(diags, *diag)
		}

		schema.Tables = append(schema.Tables, table)
	}

	return schema, diags
}

func (n *tableNode) lower(sourceName string) (ast.TableDef, *diagnostic.Diagnostic) {
	table := ast.TableDef{
		ID:         n.Name.ident(),
		IsAbstract: n.Abstract,
		Columns:    make([]ast.ColumnDef, 0, len(n.Columns)),
		Span:       spanOf(n.Tokens),
	}

	if n.Parent != nil {
		parent := n.Parent.ident()
		table.ExtendedBy = &parent
	}

	for _, c := range n.Columns {
		table.Columns = append(table.Columns, c.lower())
	}

	switch {
	case n.Inner != nil && n.Outer != nil:
		first, second := spanOf(n.Inner.Tokens), spanOf(n.Outer.Tokens)
		table.Indexes = n.Inner.lower()

		return table, &diagnostic.Diagnostic{
			Source:  sourceName,
			Kind:    diagnostic.DuplicateIndexes,
			Message: "table `" + table.ID.Name + "` declares more than one indexes section",
			Span:    second,
			Labels: []diagnostic.Label{
				{Span: first, Message: "indexes declared here"},
				{Span: second, Message: "but declared again here"},
			},
		}
	case n.Inner != nil:
		table.Indexes = n.Inner.lower()
	case n.Outer != nil:
		table.Indexes = n.Outer.lower()
	}

	return table, nil
}

func (n *columnNode) lower() ast.ColumnDef {
	col := ast.ColumnDef{
		ID:   n.Name.ident(),
		Type: n.Type.ident(),
		Span: spanOf(n.Tokens),
	}

	switch n.Attribute {
	case "primary":
		col.Attribute = ast.AttributePrimary
	case "unique":
		col.Attribute = ast.AttributeUnique
	}

	if n.Reference != nil {
		ref := n.Reference.lower()
		col.Reference = &ref
	}

	return col
}

func (n *referenceNode) lower() ast.ReferenceDef {
	// the lexer only produces the three known operators
	op, _ := ast.RefOperatorFromSymbol(n.Operator)

	return ast.ReferenceDef{
		Operator: op,
		Table:    n.Table.ident(),
		Column:   n.Column.ident(),
		Span:     spanOf(n.Tokens),
	}
}

func (n *indexesNode) lower() []ast.Index {
	out := make([]ast.Index, 0, len(n.Items))
	for _, item := range n.Items {
		span := spanOf(item.Tokens)
		if item.Single != nil {
			out = append(out, ast.SingleIndex(item.Single.ident(), span))
			continue
		}

		cols := make([]ast.Ident, 0, len(item.Composite))
		for _, c := range item.Composite {
			cols = append(cols, c.ident())
		}
		out = append(out, ast.CompositeIndex(cols, span))
	}

	return out
}

func (n *identNode) ident() ast.Ident {
	return ast.Ident{
		Name: n.Name,
		Span: ast.NewSpan(n.Pos.Offset, n.Pos.Offset+len(n.Name)),
	}
}

// spanOf returns the span from the first to the last consumed token.
func spanOf(tokens []plexer.Token) ast.Span {
	if len(tokens) == 0 {
		return ast.Span{}
	}

	first, last := tokens[0], tokens[len(tokens)-1]
	return ast.NewSpan(first.Pos.Offset, last.Pos.Offset+len(last.Value))
}
