// Package lexer turns schema source text into a lazy sequence of spanned
// tokens.
//
// Lexing is total: any character that does not start a valid token becomes an
// Invalid token, so the sequence always covers the whole input (minus
// whitespace) and it is up to the parser to report the problem.
package lexer

import (
	"iter"

	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/pseudomuto/mecha/pkg/ast"
)

// Kind classifies a token.
type Kind int

const (
	Invalid Kind = iota
	Keyword
	Ident
	RefOp
	Punct
)

var kindNames = [...]string{
	Invalid: "Invalid",
	Keyword: "Keyword",
	Ident:   "Ident",
	RefOp:   "RefOp",
	Punct:   "Punct",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}

	return kindNames[k]
}

// Keywords lists the reserved words of the language.
var Keywords = []string{"abstract", "table", "extends", "primary", "unique", "ref", "indexes"}

var (
	// Definition is the participle lexer for schema sources. Rule names match
	// the Kind names so grammars can refer to them directly (e.g. @Ident).
	// Rules are tried in order; the lower-case whitespace rule is dropped by the
	// lexer itself.
	Definition = plexer.MustSimple([]plexer.SimpleRule{
		{Name: "whitespace", Pattern: `[ \t\f\r\n]+`},
		{Name: "Keyword", Pattern: `(?:abstract|table|extends|primary|unique|ref|indexes)\b`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
		{Name: "RefOp", Pattern: `=>|==|<>`},
		{Name: "Punct", Pattern: `[{}().,:]`},
		{Name: "Invalid", Pattern: `(?s).`},
	})

	kindsByType = func() map[plexer.TokenType]Kind {
		syms := Definition.Symbols()
		out := make(map[plexer.TokenType]Kind, len(kindNames))
		for k, name := range kindNames {
			out[syms[name]] = Kind(k)
		}
		return out
	}()
)

// Token is a single lexeme.
type Token struct {
	Kind Kind
	Text string
	Span ast.Span
}

// TokenType returns the participle token type for k.
func (k Kind) TokenType() plexer.TokenType {
	return Definition.Symbols()[k.String()]
}

// Tokenize lexes source lazily, one token per iteration. Whitespace is
// skipped. The sequence stops early when the consumer stops ranging.
//
// Example:
//
//	for tok := range lexer.Tokenize("table user { id: int }", "user.mecha") {
//		fmt.Println(tok.Kind, tok.Text, tok.Span)
//	}
func Tokenize(source, sourceName string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		lex, err := Definition.LexString(sourceName, source)
		if err != nil {
			yield(Token{Kind: Invalid, Text: source, Span: ast.NewSpan(0, len(source))})
			return
		}

		for {
			tok, err := lex.Next()
			if err != nil {
				// unreachable with the catch-all rule, but keep the sequence total
				var off int
				if lerr, ok := err.(*plexer.Error); ok {
					off = min(lerr.Pos.Offset, len(source))
				}
				yield(Token{Kind: Invalid, Text: source[off:], Span: ast.NewSpan(off, len(source))})
				return
			}

			if tok.EOF() {
				return
			}

			t := Token{
				Kind: kindsByType[tok.Type],
				Text: tok.Value,
				Span: ast.NewSpan(tok.Pos.Offset, tok.Pos.Offset+len(tok.Value)),
			}
			if !yield(t) {
				return
			}
		}
	}
}
