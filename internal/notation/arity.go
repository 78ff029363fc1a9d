// Package notation recognises LaTeX-like escape commands embedded in free
// text: a backslash, an ASCII letter name, and a fixed number of
// brace-delimited arguments, e.g. \ruby{漢字}{かん|じ}.
package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry registers a command name with the number of arguments it requires.
type Entry struct {
	Name  string
	Arity int
}

// Table is an ordered name to arity mapping. Lookups return the first
// matching entry, so an earlier entry shadows a later one with the same name.
type Table []Entry

// DefaultTable registers only the ruby command.
var DefaultTable = Table{{Name: "ruby", Arity: 2}}

func (t Table) Lookup(name string) (int, bool) {
	for _, e := range t {
		if e.Name == name {
			return e.Arity, true
		}
	}
	return 0, false
}

// With returns a copy of t with entries appended after the existing ones.
func (t Table) With(entries ...Entry) Table {
	out := make(Table, 0, len(t)+len(entries))
	out = append(out, t...)
	return append(out, entries...)
}

// ParseEntry parses a "name=arity" pair as given on the command line.
func ParseEntry(s string) (Entry, error) {
	name, arity, ok := strings.Cut(s, "=")
	if !ok {
		return Entry{}, fmt.Errorf("command %q: expected name=arity", s)
	}
	if name == "" || !isCommandName(name) {
		return Entry{}, fmt.Errorf("command %q: name must be ASCII letters", s)
	}
	n, err := strconv.Atoi(arity)
	if err != nil {
		return Entry{}, fmt.Errorf("command %q: arity: %w", s, err)
	}
	if n < 0 {
		return Entry{}, fmt.Errorf("command %q: arity must not be negative", s)
	}
	return Entry{Name: name, Arity: n}, nil
}

func isCommandName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIIAlpha(s[i]) {
			return false
		}
	}
	return true
}

func isASCIIAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
