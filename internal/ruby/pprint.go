package ruby

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

const (
	indentSize = 2
	maxLineLen = 80
)

type prettyPrinter struct {
	w     io.Writer
	depth int
	color bool
}

// NewPrettyPrinter returns a printer writing to w, with ANSI colors when
// color is set.
func NewPrettyPrinter(w io.Writer, color bool) *prettyPrinter {
	return &prettyPrinter{w: w, color: color}
}

func (p *prettyPrinter) print(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *prettyPrinter) println(code, format string, a ...any) {
	p.print(strings.Repeat(" ", p.depth*indentSize))
	if p.color && code != "" {
		format = "\x1b[" + code + "m" + format + "\x1b[0m"
	}
	p.print(format+"\n", a...)
}

func (p *prettyPrinter) indent() {
	p.depth++
}

func (p *prettyPrinter) dedent() {
	p.depth--
	if p.depth < 0 {
		p.depth = 0
	}
}

// PrettyPrint writes one entry per segment and reports how many errors it
// printed.
func (p *prettyPrinter) PrettyPrint(segs iter.Seq2[Segment, error]) int {
	var nerr int
	for seg, err := range segs {
		if err != nil {
			p.println("31", "ERROR %v", err)
			nerr++
			continue
		}
		p.printSegment(seg)
	}
	return nerr
}

func (p *prettyPrinter) printSegment(seg Segment) {
	switch seg.Kind {
	case Plain:
		p.printPlain(seg)
	case Annotated:
		p.printAnnotation(seg)
	}
}

func (p *prettyPrinter) printPlain(seg Segment) {
	p.println("", "PLAIN %s", seg.Span)
	p.indent()
	for _, line := range strings.Split(seg.Text, "\n") {
		if len(line) > maxLineLen {
			line = line[:maxLineLen] + "..."
		}
		p.println("32", "%q", line)
	}
	p.dedent()
}

func (p *prettyPrinter) printAnnotation(seg Segment) {
	p.println("35", "RUBY %s %s", seg.Span, seg.Text)
	p.indent()
	for rb, rt := range seg.Annotation.Pairs() {
		p.println("36", "%q -> %q", rb, rt)
	}
	p.dedent()
}
