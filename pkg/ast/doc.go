// Package ast defines the syntax tree produced by the parser and consumed by
// the checker, the formatter and the document encoders.
//
// Every node records the half-open byte range of source text it was built
// from. Identifiers are nodes in their own right, so each occurrence of a name
// (a table declaration, an extends clause, a reference target, an index entry)
// can be pointed at independently when reporting diagnostics.
//
// A schema looks like this:
//
//	abstract table base {
//	    id: int primary
//	}
//
//	table user extends base {
//	    name: string unique,
//	    team: int (ref => team.id)
//	} indexes { name, (name, team) }
//
// Parsing it yields a Schema with two TableDef values. The second has
// ExtendedBy pointing at the "base" identifier inside the extends clause, two
// ColumnDef values, and two Index values (one Single, one Composite).
package ast
