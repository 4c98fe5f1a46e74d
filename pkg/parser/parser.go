package parser

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/diagnostic"
	"github.com/pseudomuto/mecha/pkg/lexer"
)

// expectedTable is reported when the parser stops between tables, where
// participle has nothing more specific to offer.
const expectedTable = "`abstract` or `table`"

// Parse parses source into a schema. sourceName is recorded as the schema name
// and on every diagnostic.
//
// On failure the returned error is a diagnostic.List holding one InvalidToken
// diagnostic per character the lexer could not make sense of, plus the first
// structural error the grammar ran into (unless it is one of those invalid
// tokens). The list is sorted by position.
//
// Example:
//
//	schema, err := parser.Parse("user.mecha", `
//		table user {
//			id: int primary,
//			name: string
//		} indexes { name }
//	`)
//	if err != nil {
//		var diags diagnostic.List
//		if errors.As(err, &diags) {
//			_ = diagnostic.Fprint(os.Stderr, src, diags)
//		}
//		return err
//	}
//
//	fmt.Println(schema.Tables[0].ID.Name) // user
func Parse(sourceName, source string) (*ast.Schema, error) {
	src := newTokenSource(sourceName, source)
	defer src.stop()

	peeker, err := plexer.Upgrade(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tokens")
	}

	root, perr := grammar.ParseFromLexer(peeker)

	diags := make(diagnostic.List, 0, len(src.invalid)+1)
	for _, tok := range src.invalid {
		diags = append(diags, diagnostic.Diagnostic{
			Source:  sourceName,
			Kind:    diagnostic.InvalidToken,
			Message: fmt.Sprintf("invalid token `%s`", tok.Text),
			Span:    tok.Span,
		})
	}

	if perr != nil {
		d := structuralError(sourceName, source, perr)
		if !src.invalidNear(d.Span.Start) {
			diags = append(diags, d)
		}
	}

	if len(diags) > 0 {
		diags.Sort()
		return nil, diags
	}

	schema, diags := root.lower(sourceName, source)
	if len(diags) > 0 {
		diags.Sort()
		return nil, diags
	}

	return schema, nil
}

// ParseReader reads all of r and parses it with Parse.
func ParseReader(sourceName string, r io.Reader) (*ast.Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source: %s", sourceName)
	}

	return Parse(sourceName, string(data))
}

func structuralError(sourceName, source string, err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{Source: sourceName}

	var tok plexer.Token
	var expected string

	var unexpected *participle.UnexpectedTokenError
	var perr participle.Error

	switch {
	case errors.As(err, &unexpected):
		tok = unexpected.Unexpected
		expected = expectedFrom(unexpected)
		if expected == "" {
			expected = expectedTable
		}
	case errors.As(err, &perr):
		off := min(max(perr.Position().Offset, 0), len(source))
		d.Kind = diagnostic.UnexpectedToken
		d.Message = perr.Message()
		d.Span = ast.NewSpan(off, off)
		return d
	default:
		d.Kind = diagnostic.UnexpectedToken
		d.Message = err.Error()
		return d
	}

	d.Expected = expected
	if tok.EOF() {
		d.Kind = diagnostic.UnexpectedEOF
		d.Message = "unexpected end of input"
		d.Span = ast.NewSpan(len(source), len(source))
		return d
	}

	d.Kind = diagnostic.UnexpectedToken
	d.Message = fmt.Sprintf("unexpected token `%s`", tok.Value)
	d.Span = ast.NewSpan(tok.Pos.Offset, tok.Pos.Offset+len(tok.Value))
	return d
}

// expectedFrom recovers the expectation participle renders into the error
// message; the node it is computed from is not exported.
func expectedFrom(err *participle.UnexpectedTokenError) string {
	if err.Expect != "" {
		return describeExpected(err.Expect)
	}

	msg := strings.TrimPrefix(err.Message(), fmt.Sprintf("unexpected token %q", err.Unexpected))
	msg, ok := strings.CutPrefix(msg, " (expected ")
	if !ok {
		return ""
	}

	return describeExpected(strings.TrimSuffix(msg, ")"))
}

// tokenSource feeds the lazy token sequence to participle, remembering every
// invalid token it hands over.
type tokenSource struct {
	next    func() (lexer.Token, bool)
	stop    func()
	source  string
	pos     plexer.Position
	invalid []lexer.Token
	// offsets of the keywords that can start a table declaration
	starts []int
}

func newTokenSource(sourceName, source string) *tokenSource {
	next, stop := iter.Pull(lexer.Tokenize(source, sourceName))

	return &tokenSource{
		next:   next,
		stop:   stop,
		source: source,
		pos:    plexer.Position{Filename: sourceName, Line: 1, Column: 1},
	}
}

func (s *tokenSource) Next() (plexer.Token, error) {
	tok, ok := s.next()
	if !ok {
		s.stop()
		return plexer.EOFToken(s.advance(len(s.source))), nil
	}

	switch {
	case tok.Kind == lexer.Invalid:
		s.invalid = append(s.invalid, tok)
	case tok.Kind == lexer.Keyword && (tok.Text == "abstract" || tok.Text == "table"):
		s.starts = append(s.starts, tok.Span.Start)
	}

	return plexer.Token{
		Type:  tok.Kind.TokenType(),
		Value: tok.Text,
		Pos:   s.advance(tok.Span.Start),
	}, nil
}

// advance moves the tracked position forward to offset. Offsets only grow.
func (s *tokenSource) advance(offset int) plexer.Position {
	if offset > s.pos.Offset {
		s.pos.Advance(s.source[s.pos.Offset:offset])
	}

	return s.pos
}

// invalidNear reports whether an invalid token lies in the table declaration
// around offset. participle backtracks out of the rule that hit the invalid
// token, so its error can land before it.
func (s *tokenSource) invalidNear(offset int) bool {
	start, end := 0, len(s.source)
	for _, off := range s.starts {
		if off > offset {
			end = off
			break
		}
		start = off
	}

	decl := ast.NewSpan(start, end)
	for _, tok := range s.invalid {
		if decl.Contains(tok.Span.Start) {
			return true
		}
	}

	return false
}
