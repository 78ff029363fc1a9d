package notation

import "strings"

// Arguments is a cursor that reads consecutive {...} groups from a string.
// Inside a group a backslash escapes the following character, so \} does not
// close the group. Group contents are returned verbatim, escapes included.
type Arguments struct {
	s    string
	head int
}

func NewArguments(s string) *Arguments {
	return &Arguments{s: s}
}

// Next reads the group at the head. It fails, leaving the head where it was,
// when the head is not at a '{' or the group is never closed.
func (a *Arguments) Next() (string, bool) {
	rest := a.Rest()
	if !strings.HasPrefix(rest, "{") {
		return "", false
	}
	end := findCloseBrace(rest)
	if end < 0 {
		return "", false
	}
	a.head += end + 1
	return rest[1:end], true
}

// Offset is the number of bytes consumed so far.
func (a *Arguments) Offset() int {
	return a.head
}

// Rest returns the unread remainder.
func (a *Arguments) Rest() string {
	return a.s[a.head:]
}

// ReadExactly reads exactly n groups from the start of s and returns them
// along with the number of bytes they occupy. It fails when fewer than n
// groups can be read or when a complete (n+1)-th group follows, so that a
// command never absorbs a trailing group meant as separate content.
func ReadExactly(s string, n int) ([]string, int, bool) {
	a := NewArguments(s)
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		arg, ok := a.Next()
		if !ok {
			return nil, 0, false
		}
		args = append(args, arg)
	}
	if _, extra := a.Next(); extra {
		return nil, 0, false
	}
	return args, a.Offset(), true
}

// findCloseBrace returns the byte index of the first unescaped '}' in s, or
// -1 if there is none.
func findCloseBrace(s string) int {
	escaped := false
	for i, r := range s {
		switch {
		case r == '\\' && !escaped:
			escaped = true
		case r == '}' && !escaped:
			return i
		default:
			escaped = false
		}
	}
	return -1
}
