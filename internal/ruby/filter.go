package ruby

import (
	"errors"
	"io"
	"iter"

	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/source"
)

// SegmentKind distinguishes plain text from annotations.
type SegmentKind int

const (
	Plain SegmentKind = iota
	Annotated
)

func (k SegmentKind) String() string {
	switch k {
	case Plain:
		return "Plain"
	case Annotated:
		return "Annotated"
	default:
		return "Unknown"
	}
}

// Segment is one piece of filtered input. Text is the literal text of a
// plain segment and the original command source of an annotated one, so
// concatenating Text over all segments reproduces the input.
type Segment struct {
	Kind       SegmentKind
	Text       string
	Span       source.Span
	Annotation Annotation
}

// Filter splits a string into plain and annotated segments, lazily and in
// order. A Filter is single-pass and must not be used from several
// goroutines at once.
type Filter struct {
	src     string
	scanner *notation.Scanner

	// start of the text not yet scanned
	pos int
	// a segment found together with a plain prefix, returned on the next
	// call
	pending *pendingSegment
}

type pendingSegment struct {
	seg Segment
	err error
}

type Option func(*Filter)

// WithTable makes the filter recognise the commands in t. Commands other
// than \ruby are returned as plain segments holding their source.
func WithTable(t notation.Table) Option {
	return func(f *Filter) {
		f.scanner = notation.NewScanner(t)
	}
}

func NewFilter(src string, opts ...Option) *Filter {
	f := &Filter{src: src, scanner: notation.NewScanner(notation.DefaultTable)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Next returns the next segment, or io.EOF when the input is exhausted.
//
// A \ruby command whose groups cannot be aligned yields a
// *GroupMismatchError in the position the annotation would have taken. The
// segment returned with it is the command's source as plain text, so a
// caller may substitute it, skip it, or stop. Iteration can continue after
// the error.
func (f *Filter) Next() (Segment, error) {
	if p := f.pending; p != nil {
		f.pending = nil
		return p.seg, p.err
	}
	if f.pos >= len(f.src) {
		return Segment{}, io.EOF
	}

	rest := f.src[f.pos:]
	m, ok := f.scanner.Scan(rest)
	if !ok {
		seg := Segment{Kind: Plain, Text: rest, Span: source.Span{Start: f.pos, End: len(f.src)}}
		f.pos = len(f.src)
		return seg, nil
	}

	span := m.Span.Shift(f.pos)
	seg, err := convert(m, span)
	f.pos = span.End
	if m.Prefix == "" {
		return seg, err
	}
	f.pending = &pendingSegment{seg: seg, err: err}
	return Segment{
		Kind: Plain,
		Text: m.Prefix,
		Span: source.Span{Start: span.Start - len(m.Prefix), End: span.Start},
	}, nil
}

func convert(m notation.Match, span source.Span) (Segment, error) {
	raw := Segment{Kind: Plain, Text: m.Source, Span: span}
	if m.Command.Name != Name {
		return raw, nil
	}
	a, err := FromCommand(m.Command)
	if err != nil {
		var gm *GroupMismatchError
		if errors.As(err, &gm) {
			gm.Span = span
			gm.Source = m.Source
		}
		return raw, err
	}
	return Segment{Kind: Annotated, Text: m.Source, Span: span, Annotation: a}, nil
}

// All yields the remaining segments with any per-command error.
func (f *Filter) All() iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		for {
			seg, err := f.Next()
			if err == io.EOF {
				return
			}
			if !yield(seg, err) {
				return
			}
		}
	}
}

// Segments filters src in one go. Commands that fail to align are kept as
// plain segments and their errors are joined into the returned error.
func Segments(src string, opts ...Option) ([]Segment, error) {
	var (
		segs []Segment
		errs []error
	)
	for seg, err := range NewFilter(src, opts...).All() {
		if err != nil {
			errs = append(errs, err)
		}
		segs = append(segs, seg)
	}
	return segs, errors.Join(errs...)
}
