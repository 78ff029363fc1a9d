package pipeline

import (
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/ruby"
)

// Policy decides what happens to a \ruby command whose groups cannot be
// aligned.
type Policy int

const (
	// PolicyText keeps the command's source as text.
	PolicyText Policy = iota
	// PolicySkip drops the command from the output.
	PolicySkip
	// PolicyHalt stops the stream with the error.
	PolicyHalt
)

func (p Policy) String() string {
	switch p {
	case PolicyText:
		return "text"
	case PolicySkip:
		return "skip"
	case PolicyHalt:
		return "halt"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "text":
		return PolicyText, nil
	case "skip":
		return PolicySkip, nil
	case "halt":
		return PolicyHalt, nil
	}
	return 0, fmt.Errorf("unknown error policy %q", s)
}

type Options struct {
	// Renderer renders annotations; nil means ruby.NewHTMLRenderer().
	Renderer *ruby.HTMLRenderer
	// Table lists recognised commands; nil means notation.DefaultTable.
	Table  notation.Table
	Policy Policy
	// Skip names the HTML elements whose text is left alone; nil means
	// DefaultSkip.
	Skip   []string
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Renderer == nil {
		o.Renderer = ruby.NewHTMLRenderer()
	}
	if o.Table == nil {
		o.Table = notation.DefaultTable
	}
	if o.Skip == nil {
		o.Skip = DefaultSkip
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Filter replaces each text event with the segments of its text: plain
// segments as text events, annotations as markup events. Other events pass
// through unchanged and in order.
func Filter(events iter.Seq2[Event, error], opts Options) iter.Seq2[Event, error] {
	opts = opts.withDefaults()
	return func(yield func(Event, error) bool) {
		for ev, err := range events {
			if err != nil {
				yield(Event{}, err)
				return
			}
			switch ev.Kind {
			case EventText:
				if !filterText(ev.Data, opts, yield) {
					return
				}
			case EventMarkup, EventRaw:
				if !yield(ev, nil) {
					return
				}
			default:
				yield(Event{}, fmt.Errorf("unknown event kind %v", ev.Kind))
				return
			}
		}
	}
}

// filterText yields the events for one text run. It returns false when the
// stream should stop.
func filterText(text string, opts Options, yield func(Event, error) bool) bool {
	for seg, err := range ruby.NewFilter(text, ruby.WithTable(opts.Table)).All() {
		var ev Event
		switch {
		case err != nil:
			switch opts.Policy {
			case PolicyHalt:
				yield(Event{}, fmt.Errorf("filtering text run: %w", err))
				return false
			case PolicySkip:
				opts.Logger.Warn("Dropping ruby command", "error", err)
				continue
			default:
				opts.Logger.Warn("Keeping ruby command as text", "error", err)
				ev = Event{Kind: EventText, Data: seg.Text}
			}
		case seg.Kind == ruby.Annotated:
			ev = Event{Kind: EventMarkup, Data: opts.Renderer.Render(seg.Annotation)}
		default:
			ev = Event{Kind: EventText, Data: seg.Text}
		}
		if !yield(ev, nil) {
			return false
		}
	}
	return true
}

// FilterHTML filters the text of an HTML document read from r and writes the
// result to w.
func FilterHTML(w io.Writer, r io.Reader, opts Options) error {
	opts = opts.withDefaults()
	return Write(w, Filter(Tokenize(r, opts.Skip), opts))
}

// FilterText filters s as a single text run and writes the result to w.
func FilterText(w io.Writer, s string, opts Options) error {
	return Write(w, Filter(Text(s), opts))
}
