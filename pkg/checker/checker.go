package checker

import (
	"slices"

	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/diagnostic"
)

// Analysis is the data derived while checking a valid schema.
type Analysis struct {
	// Effective maps every table name to its effective column set. Inherited
	// columns come first, root-most ancestor first, followed by the table's
	// own columns in declaration order.
	Effective map[string][]ast.ColumnDef
}

// Columns returns the effective column set of the named table, or nil when
// the schema has no such table.
func (a *Analysis) Columns(table string) []ast.ColumnDef {
	return a.Effective[table]
}

// Check validates schema, returning a diagnostic.List on failure.
func Check(schema *ast.Schema) error {
	_, err := Analyze(schema)
	return err
}

// Analyze validates schema and returns the effective column set of every
// table. On failure the error is a diagnostic.List produced by the first
// failing pass.
func Analyze(schema *ast.Schema) (*Analysis, error) {
	c := &checker{schema: schema}

	passes := []func() diagnostic.List{
		c.collectTables,
		c.checkExtensions,
		c.checkCycles,
		c.flattenColumns,
		c.checkIndexes,
		c.checkReferences,
	}

	for _, pass := range passes {
		if diags := pass(); len(diags) > 0 {
			return nil, diags
		}
	}

	return &Analysis{Effective: c.effective}, nil
}

// checker holds the bookkeeping for a single run.
type checker struct {
	schema    *ast.Schema
	tables    map[string]*ast.TableDef
	effective map[string][]ast.ColumnDef
}

func (c *checker) diag(kind diagnostic.Kind, span ast.Span, msg string, labels ...diagnostic.Label) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Source:  c.schema.Name,
		Kind:    kind,
		Message: msg,
		Span:    span,
		Labels:  labels,
	}
}

// sortedNames returns the table names in lexicographic order.
func (c *checker) sortedNames() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
