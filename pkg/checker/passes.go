package checker

import (
	"fmt"
	"slices"

	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/diagnostic"
)

// collectTables builds the name lookup. Every later declaration of a name is
// reported against the first one.
func (c *checker) collectTables() diagnostic.List {
	c.tables = make(map[string]*ast.TableDef, len(c.schema.Tables))

	var diags diagnostic.List
	for i := range c.schema.Tables {
		table := &c.schema.Tables[i]
		name := table.ID.Name

		prev, ok := c.tables[name]
		if !ok {
			c.tables[name] = table
			continue
		}

		diags = append(diags, c.diag(
			diagnostic.TableRedeclared,
			table.ID.Span,
			fmt.Sprintf("table `%s` is redeclared", name),
			diagnostic.Label{Span: prev.ID.Span, Message: fmt.Sprintf("table `%s` is declared here", name)},
			diagnostic.Label{Span: table.ID.Span, Message: "but redeclared here"},
		))
	}

	return diags
}

// checkExtensions makes sure every parent exists and is abstract.
func (c *checker) checkExtensions() diagnostic.List {
	var diags diagnostic.List
	for i := range c.schema.Tables {
		table := &c.schema.Tables[i]
		if table.ExtendedBy == nil {
			continue
		}

		ref := *table.ExtendedBy
		parent, ok := c.tables[ref.Name]
		switch {
		case !ok:
			diags = append(diags, c.diag(
				diagnostic.ParentMissing,
				ref.Span,
				fmt.Sprintf("table `%s` is not existed", ref.Name),
			))
		case !parent.IsAbstract:
			diags = append(diags, c.diag(
				diagnostic.ParentNotAbstract,
				ref.Span,
				fmt.Sprintf("table `%s` is not abstract", ref.Name),
				diagnostic.Label{Span: ref.Span, Message: fmt.Sprintf("table `%s` is referenced here", ref.Name)},
				diagnostic.Label{Span: parent.ID.Span, Message: "but it's not abstract"},
			))
		}
	}

	return diags
}

// checkCycles walks the extends chain from every table, in name order, with an
// explicit stack. Tables on a chain already proven acyclic end the walk.
func (c *checker) checkCycles() diagnostic.List {
	checked := make(map[string]bool, len(c.tables))

	for _, start := range c.sortedNames() {
		if checked[start] {
			continue
		}

		visited := make(map[string]bool)
		stack := []*ast.TableDef{c.tables[start]}

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			visited[cur.ID.Name] = true

			if cur.ExtendedBy == nil {
				continue
			}

			next := cur.ExtendedBy.Name
			if checked[next] {
				continue
			}

			parent := c.tables[next]
			if visited[next] {
				return diagnostic.List{c.diag(
					diagnostic.InheritanceCycle,
					parent.ID.Span,
					fmt.Sprintf("cyclic reference happens at `%s`", next),
					diagnostic.Label{Span: cur.ExtendedBy.Span, Message: fmt.Sprintf("`%s` extends `%s` here", cur.ID.Name, next)},
				)}
			}

			stack = append(stack, parent)
		}

		for name := range visited {
			checked[name] = true
		}
	}

	return nil
}

// flattenColumns resolves the effective column set of every table. A walk up
// the extends chain stops at the first ancestor resolved earlier and reuses
// its set.
func (c *checker) flattenColumns() diagnostic.List {
	c.effective = make(map[string][]ast.ColumnDef, len(c.tables))

	for i := range c.schema.Tables {
		var chain []*ast.TableDef
		for table := &c.schema.Tables[i]; ; {
			if _, ok := c.effective[table.ID.Name]; ok {
				break
			}

			chain = append(chain, table)
			if table.ExtendedBy == nil {
				break
			}
			table = c.tables[table.ExtendedBy.Name]
		}

		// root-most first, so every parent is resolved before its children
		for j := len(chain) - 1; j >= 0; j-- {
			table := chain[j]

			var inherited []ast.ColumnDef
			if table.ExtendedBy != nil {
				inherited = c.effective[table.ExtendedBy.Name]
			}

			cols, diag := c.merge(table, inherited)
			if diag != nil {
				return diagnostic.List{*diag}
			}
			c.effective[table.ID.Name] = cols
		}
	}

	return nil
}

// merge appends the table's own columns to the set it inherits. A name that
// is already present, whether inherited or declared twice on the table
// itself, is a redeclaration.
func (c *checker) merge(table *ast.TableDef, inherited []ast.ColumnDef) ([]ast.ColumnDef, *diagnostic.Diagnostic) {
	own := make(map[string]*ast.ColumnDef, len(table.Columns))
	for i := range table.Columns {
		col := &table.Columns[i]
		if prev, ok := own[col.ID.Name]; ok {
			d := c.columnRedeclared(col.Span, prev, col)
			return nil, &d
		}
		own[col.ID.Name] = col
	}

	for i := range inherited {
		col := &inherited[i]
		if redeclared, ok := own[col.ID.Name]; ok {
			d := c.columnRedeclared(col.Span, col, redeclared)
			return nil, &d
		}
	}

	cols := make([]ast.ColumnDef, 0, len(inherited)+len(table.Columns))
	cols = append(cols, inherited...)
	cols = append(cols, table.Columns...)

	return cols, nil
}

func (c *checker) columnRedeclared(at ast.Span, declared, redeclared *ast.ColumnDef) diagnostic.Diagnostic {
	name := declared.ID.Name

	return c.diag(
		diagnostic.ColumnRedeclared,
		at,
		fmt.Sprintf("column `%s` is redeclared", name),
		diagnostic.Label{Span: declared.Span, Message: fmt.Sprintf("column `%s` is declared here", name)},
		diagnostic.Label{Span: redeclared.Span, Message: "but redeclared here"},
	)
}

// checkIndexes reports every indexed name missing from the owning table's
// effective column set.
func (c *checker) checkIndexes() diagnostic.List {
	var diags diagnostic.List
	for i := range c.schema.Tables {
		table := &c.schema.Tables[i]
		cols := c.effective[table.ID.Name]

		for _, idx := range table.Indexes {
			for _, id := range idx.Columns {
				if hasColumn(cols, id.Name) {
					continue
				}

				diags = append(diags, c.diag(
					diagnostic.IndexedColumnMissing,
					id.Span,
					fmt.Sprintf("indexed column `%s` does not exist in table `%s`", id.Name, table.ID.Name),
				))
			}
		}
	}

	return diags
}

// checkReferences resolves the target of every column reference.
func (c *checker) checkReferences() diagnostic.List {
	var diags diagnostic.List
	for i := range c.schema.Tables {
		for _, col := range c.schema.Tables[i].Columns {
			ref := col.Reference
			if ref == nil {
				continue
			}

			target, ok := c.effective[ref.Table.Name]
			switch {
			case !ok:
				diags = append(diags, c.diag(
					diagnostic.ReferencedTableMissing,
					ref.Table.Span,
					fmt.Sprintf("table `%s` is not exist in the schema", ref.Table.Name),
				))
			case !hasColumn(target, ref.Column.Name):
				diags = append(diags, c.diag(
					diagnostic.ReferencedColumnMissing,
					ref.Column.Span,
					fmt.Sprintf("column `%s` is not existed in the table `%s`", ref.Column.Name, ref.Table.Name),
				))
			}
		}
	}

	return diags
}

func hasColumn(cols []ast.ColumnDef, name string) bool {
	return slices.ContainsFunc(cols, func(col ast.ColumnDef) bool {
		return col.ID.Name == name
	})
}
