package command

import (
	"fmt"
	"io"

	"github.com/alecthomas/repr"

	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/ruby"
)

// SegmentView is the exported shape of a segment, as printed by --repr.
type SegmentView struct {
	Kind  string
	Span  string
	Text  string
	Base  []string
	Ruby  []string
	Error string
}

// Views returns the segments of src in printable form. A command whose
// groups cannot be aligned shows up as a plain segment with Error set.
func Views(src string, table notation.Table) []SegmentView {
	var views []SegmentView
	for seg, err := range ruby.NewFilter(src, ruby.WithTable(table)).All() {
		v := SegmentView{Kind: seg.Kind.String(), Span: seg.Span.String(), Text: seg.Text}
		if seg.Kind == ruby.Annotated {
			v.Base = seg.Annotation.Base()
			v.Ruby = seg.Annotation.Ruby()
		}
		if err != nil {
			v.Error = err.Error()
		}
		views = append(views, v)
	}
	return views
}

// PrintSegments writes the segments of src to w, either pretty-printed or
// as Go values. It returns an error if any command failed to convert.
func PrintSegments(w io.Writer, src string, table notation.Table, asRepr, color bool) error {
	var nerr int
	if asRepr {
		views := Views(src, table)
		repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(views)
		for _, v := range views {
			if v.Error != "" {
				nerr++
			}
		}
	} else {
		nerr = ruby.NewPrettyPrinter(w, color).PrettyPrint(ruby.NewFilter(src, ruby.WithTable(table)).All())
	}
	if nerr > 0 {
		return fmt.Errorf("%d ruby command(s) could not be converted", nerr)
	}
	return nil
}
