package notation

import (
	"unicode/utf8"

	"github.com/adhocteam/rubyfilter/internal/source"
)

// Command is one recognised command occurrence with its arguments.
type Command struct {
	Name string
	Args []string
}

// Match is the result of a successful Scan.
type Match struct {
	// Prefix is the text before the command, Suffix everything after its
	// closing brace. Both are untouched slices of the scanned text.
	Prefix  string
	Command Command
	Suffix  string
	// Span locates the command's source text within the scanned text.
	Span source.Span
	// Source is the command's original text, e.g. `\ruby{a}{b}`.
	Source string
}

// Scanner finds commands registered in its table. The zero value uses
// DefaultTable.
type Scanner struct {
	Table Table
}

func NewScanner(t Table) *Scanner {
	return &Scanner{Table: t}
}

func (sc *Scanner) table() Table {
	if sc.Table == nil {
		return DefaultTable
	}
	return sc.Table
}

// matchName parses a command name at the start of s: a backslash followed by
// one or more ASCII letters. The name ends at the first non-letter.
func matchName(s string) (string, bool) {
	if len(s) < 2 || s[0] != '\\' || !isASCIIAlpha(s[1]) {
		return "", false
	}
	i := 2
	for i < len(s) && isASCIIAlpha(s[i]) {
		i++
	}
	return s[1:i], true
}

// MatchAt tries to match a registered command with exactly its arity's worth
// of arguments at the very start of s. It returns the command and the number
// of bytes it spans.
func (sc *Scanner) MatchAt(s string) (Command, int, bool) {
	name, ok := matchName(s)
	if !ok {
		return Command{}, 0, false
	}
	arity, ok := sc.table().Lookup(name)
	if !ok {
		return Command{}, 0, false
	}
	nameEnd := 1 + len(name)
	args, n, ok := ReadExactly(s[nameEnd:], arity)
	if !ok {
		return Command{}, 0, false
	}
	return Command{Name: name, Args: args}, nameEnd + n, true
}

// Scan finds the first command in s. Text that looks like a command but is
// unregistered or has the wrong arguments is left in place as ordinary text.
func (sc *Scanner) Scan(s string) (Match, bool) {
	for pos := 0; pos < len(s); {
		rest := s[pos:]
		if cmd, n, ok := sc.MatchAt(rest); ok {
			return Match{
				Prefix:  s[:pos],
				Command: cmd,
				Suffix:  s[pos+n:],
				Span:    source.Span{Start: pos, End: pos + n},
				Source:  rest[:n],
			}, true
		}
		if _, isName := matchName(rest); isName {
			// a rejected name resumes one byte past its backslash, inside
			// the name itself
			pos++
			continue
		}
		_, size := utf8.DecodeRuneInString(rest)
		pos += size
	}
	return Match{}, false
}
