package ast

import "fmt"

// Span is a half-open byte range [Start, End) into a source text.
type Span struct {
	Start int
	End   int
}

// NewSpan returns the span covering [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Text returns the slice of src covered by the span, clamped to src.
func (s Span) Text(src string) string {
	start := min(max(s.Start, 0), len(src))
	end := min(max(s.End, start), len(src))
	return src[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
