package parser

import (
	"strconv"
	"strings"
)

// Friendly names for grammar productions and lexer token references as they
// appear in participle's EBNF.
var productionNames = map[string]string{
	"IdentNode":     "identifier",
	"ColumnNode":    "column",
	"ReferenceNode": "reference",
	"IndexesNode":   "`indexes`",
	"IndexItemNode": "index",
	"TableNode":     "table",
	"<ident>":       "identifier",
	"<refop>":       "relation operator",
	"<keyword>":     "keyword",
	"<punct>":       "punctuation",
}

// describeExpected turns the EBNF tail participle reports for a failed
// sequence into a short list of what could have appeared instead, e.g.
//
//	("extends" IdentNode)? "{" ColumnNode  =>  `extends` or `{`
func describeExpected(ebnf string) string {
	set, _ := firstSet(ebnf)

	seen := make(map[string]bool, len(set))
	uniq := make([]string, 0, len(set))
	for _, s := range set {
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, s)
		}
	}

	switch len(uniq) {
	case 0:
		return ""
	case 1:
		return uniq[0]
	}

	return strings.Join(uniq[:len(uniq)-1], ", ") + " or " + uniq[len(uniq)-1]
}

// firstSet returns the descriptions of every term that can start expr, and
// whether expr can match nothing at all.
func firstSet(expr string) ([]string, bool) {
	if alts := splitTop(expr, '|'); len(alts) > 1 {
		var (
			set      []string
			nullable bool
		)
		for _, alt := range alts {
			s, n := firstSet(alt)
			set = append(set, s...)
			nullable = nullable || n
		}
		return set, nullable
	}

	var set []string
	for _, term := range splitTop(expr, ' ') {
		body, optional := trimModifier(term)

		nullable := optional
		if strings.HasPrefix(body, "(") && strings.HasSuffix(body, ")") {
			s, n := firstSet(body[1 : len(body)-1])
			set = append(set, s...)
			nullable = nullable || n
		} else {
			set = append(set, describeTerm(body))
		}

		if !nullable {
			return set, false
		}
	}

	return set, true
}

func describeTerm(term string) string {
	if strings.HasPrefix(term, `"`) {
		if lit, err := strconv.Unquote(term); err == nil {
			return "`" + lit + "`"
		}
	}

	if name, ok := productionNames[term]; ok {
		return name
	}

	return strings.ToLower(term)
}

// trimModifier strips a trailing repetition modifier from term, reporting
// whether the term may be skipped.
func trimModifier(term string) (string, bool) {
	if strings.HasSuffix(term, `"`) || term == "" {
		return term, false
	}

	switch term[len(term)-1] {
	case '?', '*':
		return term[:len(term)-1], true
	case '+', '!':
		return term[:len(term)-1], false
	}

	return term, false
}

// splitTop splits s on sep, ignoring separators inside quotes or
// parentheses. Empty parts are dropped and the rest trimmed.
func splitTop(s string, sep byte) []string {
	var (
		parts   []string
		depth   int
		inQuote bool
		start   int
	)

	flush := func(end int) {
		if part := strings.TrimSpace(s[start:end]); part != "" {
			parts = append(parts, part)
		}
		start = end + 1
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			flush(i)
		}
	}
	flush(len(s))

	return parts
}
