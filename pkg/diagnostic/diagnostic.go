// Package diagnostic holds the located error values produced by the parser
// and the checker.
//
// Diagnostics are plain data. Each one carries a primary span, a message, an
// optional "expected" description (syntax errors only) and any number of
// labelled secondary spans. A List of diagnostics implements error, so callers
// that only care about success can treat it like any other error while
// renderers and editors can recover the full list with errors.As.
package diagnostic

import (
	"fmt"
	"sort"

	"github.com/pseudomuto/mecha/pkg/ast"
)

// Kind classifies a diagnostic. Syntax kinds are only ever produced by the
// parser and semantic kinds only by the checker.
type Kind int

const (
	UnexpectedToken Kind = iota
	UnexpectedEOF
	InvalidToken
	DuplicateIndexes

	TableRedeclared
	ParentMissing
	ParentNotAbstract
	InheritanceCycle
	ColumnRedeclared
	IndexedColumnMissing
	ReferencedTableMissing
	ReferencedColumnMissing
)

var kindNames = map[Kind]string{
	UnexpectedToken:         "unexpected token",
	UnexpectedEOF:           "unexpected end of input",
	InvalidToken:            "invalid token",
	DuplicateIndexes:        "duplicate indexes section",
	TableRedeclared:         "table redeclared",
	ParentMissing:           "parent table missing",
	ParentNotAbstract:       "parent table not abstract",
	InheritanceCycle:        "inheritance cycle",
	ColumnRedeclared:        "column redeclared",
	IndexedColumnMissing:    "indexed column missing",
	ReferencedTableMissing:  "referenced table missing",
	ReferencedColumnMissing: "referenced column missing",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsSyntax reports whether k belongs to the syntax taxonomy.
func (k Kind) IsSyntax() bool {
	return k <= DuplicateIndexes
}

type (
	// Label attaches a message to a secondary span.
	Label struct {
		Span    ast.Span
		Message string
	}

	// Diagnostic is a single located problem.
	Diagnostic struct {
		// Source is the name of the source the spans index into.
		Source  string
		Kind    Kind
		Message string
		Span    ast.Span
		// Expected describes what the parser wanted at Span. Empty for semantic
		// diagnostics.
		Expected string
		Labels   []Label
	}
)

func (d Diagnostic) Error() string {
	msg := d.Message
	if d.Expected != "" {
		msg += " (expected " + d.Expected + ")"
	}

	if d.Source == "" {
		return fmt.Sprintf("%s: %s", d.Span, msg)
	}

	return fmt.Sprintf("%s:%s: %s", d.Source, d.Span, msg)
}

// List is an ordered collection of diagnostics. A non-empty List is an error.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// Err returns nil for an empty list and the list itself otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}

	return l
}

// Sort orders the list by primary span start, keeping the relative order of
// diagnostics that start at the same offset.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Span.Start < l[j].Span.Start
	})
}

// Kinds returns the kind of every diagnostic in order.
func (l List) Kinds() []Kind {
	kinds := make([]Kind, len(l))
	for i, d := range l {
		kinds[i] = d.Kind
	}

	return kinds
}
