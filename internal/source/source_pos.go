package source

import "fmt"

// Span is a half-open byte range [Start, End) into an immutable input.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Shift returns the span moved forward by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// In returns the text the span covers in src.
func (s Span) In(src string) string {
	return src[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}
