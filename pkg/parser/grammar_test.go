package parser

import (
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/lexer"
	"github.com/stretchr/testify/require"
)

// Each grammar rule is built and exercised in isolation.
var (
	columnParser    = participle.MustBuild[columnNode](participle.Lexer(lexer.Definition))
	referenceParser = participle.MustBuild[referenceNode](participle.Lexer(lexer.Definition))
	indexesParser   = participle.MustBuild[indexesNode](participle.Lexer(lexer.Definition))
	tableParser     = participle.MustBuild[tableNode](participle.Lexer(lexer.Definition))
)

func TestColumnRule(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(*testing.T, ast.ColumnDef)
	}{
		{
			name:  "plain",
			input: "id: int",
			validate: func(t *testing.T, col ast.ColumnDef) {
				require.Equal(t, "id", col.ID.Name)
				require.Equal(t, "int", col.Type.Name)
				require.Equal(t, ast.AttributeNone, col.Attribute)
				require.Nil(t, col.Reference)
				require.Equal(t, ast.NewSpan(0, 7), col.Span)
			},
		},
		{
			name:  "primary",
			input: "id: int primary",
			validate: func(t *testing.T, col ast.ColumnDef) {
				require.Equal(t, ast.AttributePrimary, col.Attribute)
				require.Equal(t, ast.NewSpan(0, 15), col.Span)
			},
		},
		{
			name:  "unique with reference",
			input: "team: int unique (ref <> team.id)",
			validate: func(t *testing.T, col ast.ColumnDef) {
				require.Equal(t, ast.AttributeUnique, col.Attribute)
				require.NotNil(t, col.Reference)
				require.Equal(t, ast.ManyToMany, col.Reference.Operator)
				require.Equal(t, "team", col.Reference.Table.Name)
				require.Equal(t, ast.NewSpan(25, 29), col.Reference.Table.Span)
				require.Equal(t, "id", col.Reference.Column.Name)
				require.Equal(t, ast.NewSpan(30, 32), col.Reference.Column.Span)
				require.Equal(t, ast.NewSpan(17, 33), col.Reference.Span)
			},
		},
		{
			name:  "keywords as types are rejected",
			input: "id: table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := columnParser.ParseString("", tt.input)
			if tt.validate == nil {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.validate(t, node.lower())
		})
	}
}

func TestReferenceRule(t *testing.T) {
	for sym, op := range map[string]ast.RefOperator{
		"=>": ast.OneToMany,
		"==": ast.OneToOne,
		"<>": ast.ManyToMany,
	} {
		t.Run(sym, func(t *testing.T) {
			node, err := referenceParser.ParseString("", "(ref "+sym+" user.id)")
			require.NoError(t, err)

			ref := node.lower()
			require.Equal(t, op, ref.Operator)
			require.Equal(t, "user", ref.Table.Name)
			require.Equal(t, "id", ref.Column.Name)
		})
	}

	_, err := referenceParser.ParseString("", "(ref => user)")
	require.Error(t, err)
}

func TestIndexesRule(t *testing.T) {
	node, err := indexesParser.ParseString("", "indexes { a, (b, c), (a, b, c) }")
	require.NoError(t, err)

	idx := node.lower()
	require.Len(t, idx, 3)

	require.Equal(t, ast.IndexSingle, idx[0].Kind)
	require.Equal(t, "a", idx[0].Columns[0].Name)
	require.Equal(t, ast.NewSpan(10, 11), idx[0].Span)

	require.Equal(t, ast.IndexComposite, idx[1].Kind)
	require.Equal(t, []string{"b", "c"}, names(idx[1].Columns))
	require.Equal(t, ast.NewSpan(13, 19), idx[1].Span)

	require.Equal(t, []string{"a", "b", "c"}, names(idx[2].Columns))

	for _, input := range []string{"indexes { }", "indexes { (a) }", "indexes { a, }", "indexes a"} {
		_, err := indexesParser.ParseString("", input)
		require.Error(t, err, input)
	}
}

func TestTableRule(t *testing.T) {
	t.Run("abstract with parent", func(t *testing.T) {
		node, err := tableParser.ParseString("", "abstract table b extends a { x: int }")
		require.NoError(t, err)

		table, diag := node.lower("")
		require.Nil(t, diag)
		require.True(t, table.IsAbstract)
		require.Equal(t, "b", table.ID.Name)
		require.NotNil(t, table.ExtendedBy)
		require.Equal(t, "a", table.ExtendedBy.Name)
		require.Equal(t, ast.NewSpan(25, 26), table.ExtendedBy.Span)
		require.Nil(t, table.Indexes)
		require.Equal(t, ast.NewSpan(0, 37), table.Span)
	})

	t.Run("indexes inside braces", func(t *testing.T) {
		node, err := tableParser.ParseString("", "table u { id: int, name: string indexes { id } }")
		require.NoError(t, err)

		table, diag := node.lower("")
		require.Nil(t, diag)
		require.Len(t, table.Columns, 2)
		require.Len(t, table.Indexes, 1)
	})

	t.Run("indexes after braces", func(t *testing.T) {
		node, err := tableParser.ParseString("", "table u { id: int } indexes { id }")
		require.NoError(t, err)

		table, diag := node.lower("")
		require.Nil(t, diag)
		require.Len(t, table.Indexes, 1)
		require.Equal(t, ast.NewSpan(0, 34), table.Span)
	})

	t.Run("at least one column", func(t *testing.T) {
		_, err := tableParser.ParseString("", "table u { }")
		require.Error(t, err)
	})
}

func TestDescribeExpected(t *testing.T) {
	tests := []struct {
		ebnf string
		want string
	}{
		{`":" IdentNode ("primary" | "unique")? ReferenceNode?`, "`:`"},
		{`("extends" IdentNode)? "{" ColumnNode ("," ColumnNode)* IndexesNode? "}" IndexesNode?`, "`extends` or `{`"},
		{`"abstract"? "table" IdentNode`, "`abstract` or `table`"},
		{`<refop> IdentNode "." IdentNode ")"`, "relation operator"},
		{`IdentNode ":" IdentNode`, "identifier"},
		{`("primary" | "unique")? ReferenceNode?`, "`primary`, `unique` or reference"},
		{`"(" IdentNode "," IdentNode ("," IdentNode)* ")" | IdentNode`, "`(` or identifier"},
		{`"}" IndexesNode?`, "`}`"},
		{``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.ebnf, func(t *testing.T) {
			require.Equal(t, tt.want, describeExpected(tt.ebnf))
		})
	}
}

func TestSplitTop(t *testing.T) {
	require.Equal(t,
		[]string{`"("`, `IdentNode`, `("," IdentNode)*`, `")"`},
		splitTop(`"(" IdentNode ("," IdentNode)* ")"`, ' '),
	)
	require.Equal(t, []string{`"|"`, `"a" "b"`}, splitTop(`"|" | "a" "b"`, '|'))
	require.Equal(t, []string{`"\" x"`}, splitTop(`"\" x"`, ' '))
}

func names(ids []ast.Ident) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}
