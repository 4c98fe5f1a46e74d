// Package parser provides a participle-based parser for mecha schema sources.
//
// The grammar is split into small participle rules (table, column, reference,
// indexes, index item, identifier) which are composed into a schema rule.
// Tokens come from the lexer package one at a time; every node of the
// resulting syntax tree records the byte span of the tokens it consumed.
//
// Grammar:
//
//	schema     := table+
//	table      := "abstract"? "table" ident ("extends" ident)?
//	              "{" column ("," column)* indexes? "}" indexes?
//	column     := ident ":" ident ("primary" | "unique")? reference?
//	reference  := "(" "ref" ("=>" | "==" | "<>") ident "." ident ")"
//	indexes    := "indexes" "{" index ("," index)* "}"
//	index      := "(" ident "," ident ("," ident)* ")" | ident
//
// The indexes section may be written either as the last element inside the
// table braces or directly after them, but not both.
//
// Basic usage:
//
//	schema, err := parser.Parse("shop.mecha", src)
//
//	// or from any reader
//	f, _ := os.Open("shop.mecha")
//	schema, err = parser.ParseReader(f.Name(), f)
//
// Parsing fails closed: no partial tree is returned. Errors are
// diagnostic.List values describing every invalid character and the first
// structural problem, each with a byte span and, where possible, a
// description of what was expected.
package parser
