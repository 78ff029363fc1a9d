package pipeline

import (
	"fmt"
	"io"
	"iter"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultSkip lists the elements whose text is never filtered.
var DefaultSkip = []string{
	atom.Script.String(),
	atom.Style.String(),
	atom.Textarea.String(),
	atom.Title.String(),
	atom.Code.String(),
	atom.Pre.String(),
	atom.Rt.String(),
	atom.Rp.String(),
}

// Tokenize turns an HTML document into events. Text tokens become EventText
// holding their raw, still entity-encoded source, unless they are inside one
// of the skip elements; everything else becomes EventRaw. Concatenating the
// data of all events reproduces the document.
func Tokenize(r io.Reader, skip []string) iter.Seq2[Event, error] {
	skipSet := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipSet[name] = true
	}

	return func(yield func(Event, error) bool) {
		z := html.NewTokenizer(r)
		z.SetMaxBuf(0) // unlimited buffer size

		// number of open skip elements
		depth := 0
		for {
			tt := z.Next()
			if tt == html.ErrorToken {
				if err := z.Err(); err != io.EOF {
					yield(Event{}, fmt.Errorf("tokenizing HTML: %w", err))
				}
				return
			}

			// NOTE: copy the raw bytes before TagName, which lower-cases the
			// tokenizer's buffer in place
			ev := Event{Kind: EventRaw, Data: string(z.Raw())}

			switch tt {
			case html.TextToken:
				if depth == 0 {
					ev.Kind = EventText
				}
			case html.StartTagToken:
				if name, _ := z.TagName(); skipSet[string(name)] {
					depth++
				}
			case html.EndTagToken:
				if name, _ := z.TagName(); skipSet[string(name)] && depth > 0 {
					depth--
				}
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}
