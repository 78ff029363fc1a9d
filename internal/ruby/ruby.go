// Package ruby turns \ruby{BASE}{RUBY} commands embedded in text into ruby
// annotations (base text with aligned pronunciation text) and renders them
// as HTML <ruby> elements.
//
// Base and ruby text are split into groups with '|':
//
//	\ruby{武|家|諸法度}{ぶ|け|しょはっと}
//
// pairs 武 with ぶ, 家 with け and 諸法度 with しょはっと. When the base has a
// single group but the ruby has several, each character of the base becomes
// its own group:
//
//	\ruby{大名}{だい|みょう}
package ruby

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/source"
)

// Name is the command name that produces annotations.
const Name = "ruby"

const groupSep = "|"

var (
	// ErrGroupMismatch is returned when base and ruby groups cannot be
	// aligned.
	ErrGroupMismatch = errors.New("ruby group count mismatch")
	// ErrNotRuby is returned when a command other than \ruby is converted.
	ErrNotRuby = errors.New("not a ruby command")
)

// Annotation is base text split into groups, each aligned with a group of
// ruby text. Both sides always have the same number of groups.
type Annotation struct {
	base []string
	ruby []string
}

// New builds an annotation from aligned groups.
func New(base, ruby []string) (Annotation, error) {
	if len(base) != len(ruby) {
		return Annotation{}, fmt.Errorf("%w: %d base groups, %d ruby groups", ErrGroupMismatch, len(base), len(ruby))
	}
	return Annotation{base: base, ruby: ruby}, nil
}

func (a Annotation) Base() []string {
	return a.base
}

func (a Annotation) Ruby() []string {
	return a.ruby
}

// Len is the number of aligned groups.
func (a Annotation) Len() int {
	return len(a.base)
}

// Pairs yields each base group with its ruby group, in order.
func (a Annotation) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := range a.base {
			if !yield(a.base[i], a.ruby[i]) {
				return
			}
		}
	}
}

// GroupMismatchError reports a \ruby command whose groups cannot be aligned
// in either group or per-character mode.
type GroupMismatchError struct {
	// Span locates the command in the filtered input. It is zero when the
	// error did not come from a Filter.
	Span   source.Span
	Source string
	Base   int // number of base groups, or base characters when PerChar
	Ruby   int
	// PerChar is set when the base was a single group and was split per
	// character before comparing.
	PerChar bool
}

func (e *GroupMismatchError) Error() string {
	unit := "groups"
	if e.PerChar {
		unit = "characters"
	}
	msg := fmt.Sprintf("ruby: %d base %s but %d ruby groups", e.Base, unit, e.Ruby)
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s in %q", e.Span, msg, e.Source)
	}
	return msg
}

func (e *GroupMismatchError) Unwrap() error {
	return ErrGroupMismatch
}

// FromArgs aligns the two arguments of a \ruby command.
func FromArgs(base, ruby string) (Annotation, error) {
	bs := strings.Split(base, groupSep)
	rs := strings.Split(ruby, groupSep)
	if len(bs) == len(rs) {
		return Annotation{base: bs, ruby: rs}, nil
	}
	if len(bs) != 1 {
		return Annotation{}, &GroupMismatchError{Base: len(bs), Ruby: len(rs)}
	}
	chars := splitChars(base)
	if len(chars) != len(rs) {
		return Annotation{}, &GroupMismatchError{Base: len(chars), Ruby: len(rs), PerChar: true}
	}
	return Annotation{base: chars, ruby: rs}, nil
}

// FromCommand converts a scanned \ruby command.
func FromCommand(cmd notation.Command) (Annotation, error) {
	if cmd.Name != Name || len(cmd.Args) != 2 {
		return Annotation{}, fmt.Errorf("%w: \\%s with %d arguments", ErrNotRuby, cmd.Name, len(cmd.Args))
	}
	return FromArgs(cmd.Args[0], cmd.Args[1])
}

// splitChars splits s into one string per Unicode scalar value, keeping the
// original bytes of any invalid sequence.
func splitChars(s string) []string {
	chars := make([]string, 0, utf8.RuneCountInString(s))
	for s != "" {
		_, size := utf8.DecodeRuneInString(s)
		chars = append(chars, s[:size])
		s = s[size:]
	}
	return chars
}
