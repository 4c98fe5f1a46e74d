package diagnostic

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pseudomuto/mecha/pkg/ast"
)

// Locate translates a byte offset into a 1-based line and column. Columns are
// counted in runes. Offsets outside src are clamped.
func Locate(src string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(src))
	prefix := src[:offset]

	line = strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	col = utf8.RuneCountInString(prefix[lineStart:]) + 1

	return line, col
}

// Position formats the location of offset as source:line:col.
func Position(sourceName, src string, offset int) string {
	line, col := Locate(src, offset)
	return fmt.Sprintf("%s:%d:%d", sourceName, line, col)
}

// Fprint writes a plain text report for every diagnostic in list. src must be
// the text the spans were computed against.
//
// Example output:
//
//	error[parent table missing]: table `bar` is not existed
//	 --> schema.mecha:1:19
//	  |
//	1 | table foo extends bar { id: int }
//	  |                   ^^^ table `bar` is not existed
func Fprint(w io.Writer, src string, list List) error {
	ew := &errWriter{w: w}

	for i, d := range list {
		if i > 0 {
			ew.printf("\n")
		}

		ew.printf("error[%s]: %s\n", d.Kind, d.Message)
		ew.printf(" --> %s\n", Position(d.Source, src, d.Span.Start))

		if len(d.Labels) == 0 {
			msg := d.Message
			if d.Expected != "" {
				msg = "expected " + d.Expected
			}

			printSnippet(ew, src, Label{Span: d.Span, Message: msg})
			continue
		}

		for _, l := range d.Labels {
			printSnippet(ew, src, l)
		}
	}

	return ew.err
}

func printSnippet(ew *errWriter, src string, l Label) {
	line, _ := Locate(src, l.Span.Start)
	start, end := lineBounds(src, l.Span.Start)
	text := strings.TrimRight(src[start:end], "\r")

	gutter := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(gutter))

	ew.printf("%s |\n", pad)
	ew.printf("%s | %s\n", gutter, text)
	ew.printf("%s | %s%s %s\n", pad, indentFor(src[start:min(max(l.Span.Start, start), end)]), carets(src, l.Span, end), l.Message)
}

func lineBounds(src string, offset int) (int, int) {
	offset = min(max(offset, 0), len(src))
	start := strings.LastIndexByte(src[:offset], '\n') + 1

	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		return start, len(src)
	}

	return start, offset + end
}

// indentFor mirrors prefix with spaces, keeping tabs so carets line up.
func indentFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteRune('\t')
			continue
		}
		b.WriteRune(' ')
	}

	return b.String()
}

func carets(src string, span ast.Span, lineEnd int) string {
	start := min(max(span.Start, 0), len(src))
	end := min(max(span.End, start), lineEnd)

	return strings.Repeat("^", max(utf8.RuneCountInString(src[start:end]), 1))
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}

	_, e.err = fmt.Fprintf(e.w, format, args...)
}
