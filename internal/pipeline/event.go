// Package pipeline connects the ruby filter to a stream of document events.
// Only text runs are filtered; every other event passes through untouched,
// and the segments of each text run are re-injected in their original place.
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// EventKind is the closed set of events a pipeline carries.
type EventKind int

const (
	// EventText is a run of text eligible for filtering.
	EventText EventKind = iota
	// EventMarkup is rendered markup produced by the filter.
	EventMarkup
	// EventRaw is any other document content, passed through opaquely.
	EventRaw
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "Text"
	case EventMarkup:
		return "Markup"
	case EventRaw:
		return "Raw"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one piece of a document. Data is written to the output as is, so
// text events hold text in its serialized (e.g. entity-encoded) form.
type Event struct {
	Kind EventKind
	Data string
}

// Text returns a source that yields s as a single text run.
func Text(s string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if s != "" {
			yield(Event{Kind: EventText, Data: s}, nil)
		}
	}
}

// Write writes the data of every event to w, stopping at the first error
// from the stream.
func Write(w io.Writer, events iter.Seq2[Event, error]) error {
	bw := bufio.NewWriter(w)
	for ev, err := range events {
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(ev.Data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
