package ruby

import (
	"strings"

	"github.com/adhocteam/rubyfilter/internal/element"
)

const (
	DefaultOpenParen  = "（"
	DefaultCloseParen = "）"
)

// HTMLRenderer renders annotations as <ruby> elements. Each group is followed
// by its ruby text in <rt> between fallback parentheses in <rp>, which
// browsers without ruby support display instead.
//
// An HTMLRenderer is read-only after construction and safe for concurrent
// use.
type HTMLRenderer struct {
	ruby       element.Tag
	openParen  string
	closeParen string
	escape     func(string) string
}

type RenderOption func(*HTMLRenderer)

// WithFallback sets the fallback parentheses.
func WithFallback(open, close string) RenderOption {
	return func(r *HTMLRenderer) {
		r.openParen = open
		r.closeParen = close
	}
}

// WithEscaper escapes group text and fallback parentheses before they are
// written. Without it text is written verbatim, which suits input that is
// already escaped HTML.
func WithEscaper(escape func(string) string) RenderOption {
	return func(r *HTMLRenderer) {
		r.escape = escape
	}
}

// WithClass sets the class attribute of the <ruby> element.
func WithClass(class string) RenderOption {
	return func(r *HTMLRenderer) {
		r.ruby = element.Ruby
		if class != "" {
			r.ruby = r.ruby.WithAttr("class", class)
		}
	}
}

func NewHTMLRenderer(opts ...RenderOption) *HTMLRenderer {
	r := &HTMLRenderer{
		ruby:       element.Ruby,
		openParen:  DefaultOpenParen,
		closeParen: DefaultCloseParen,
		escape:     func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTMLRenderer) Render(a Annotation) string {
	var buf strings.Builder
	r.RenderTo(&buf, a)
	return buf.String()
}

func (r *HTMLRenderer) RenderTo(buf *strings.Builder, a Annotation) {
	buf.WriteString(r.ruby.Start())
	for rb, rt := range a.Pairs() {
		buf.WriteString(r.escape(rb))
		r.writeParen(buf, r.openParen)
		buf.WriteString(element.Rt.Start())
		buf.WriteString(r.escape(rt))
		buf.WriteString(element.Rt.End())
		r.writeParen(buf, r.closeParen)
	}
	buf.WriteString(r.ruby.End())
}

func (r *HTMLRenderer) writeParen(buf *strings.Builder, paren string) {
	buf.WriteString(element.Rp.Start())
	buf.WriteString(r.escape(paren))
	buf.WriteString(element.Rp.End())
}
