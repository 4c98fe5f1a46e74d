// Package checker validates a parsed schema.
//
// Validation runs as six ordered passes. The first pass that finds a problem
// stops the run and its diagnostics are returned; later passes never see a
// schema an earlier pass rejected.
//
//  1. table names are unique
//  2. every extends clause names an existing, abstract table
//  3. the extends graph has no cycles
//  4. no column name repeats in a table's effective column set (its own
//     columns plus everything it inherits)
//  5. indexes name columns of the owning table's effective column set
//  6. references name an existing table and one of its effective columns
//
// Passes 1, 2, 5 and 6 report every independent problem they find. Passes 3
// and 4 stop at the first one.
//
// Checking is a pure function of the schema. Nothing is cached between calls
// and the schema is never modified, so schemas can be checked concurrently.
//
//	schema, err := parser.Parse("shop.mecha", src)
//	if err != nil {
//		return err
//	}
//
//	analysis, err := checker.Analyze(schema)
//	if err != nil {
//		return err // a diagnostic.List
//	}
//
//	for _, col := range analysis.Columns("user") {
//		fmt.Println(col.ID.Name)
//	}
package checker
