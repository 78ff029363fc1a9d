// Package element writes the HTML tags of the ruby markup.
package element

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Tag struct {
	Name  atom.Atom
	Attrs []html.Attribute
}

var (
	Ruby = Tag{Name: atom.Ruby}
	Rt   = Tag{Name: atom.Rt}
	Rp   = Tag{Name: atom.Rp}
)

// WithAttr returns a copy of t with the attribute added.
func (t Tag) WithAttr(key, val string) Tag {
	t.Attrs = append(t.Attrs[:len(t.Attrs):len(t.Attrs)], html.Attribute{Key: key, Val: val})
	return t
}

func (t Tag) String() string {
	if len(t.Attrs) == 0 {
		return t.Name.String()
	}
	var buf strings.Builder
	buf.WriteString(t.Name.String())
	for _, a := range t.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(a.Val))
		buf.WriteByte('"')
	}
	return buf.String()
}

func (t Tag) Start() string {
	return "<" + t.String() + ">"
}

func (t Tag) End() string {
	return "</" + t.Name.String() + ">"
}
