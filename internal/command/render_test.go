package command

import (
	"strings"
	"testing"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"index.html", FormatHTML},
		{"a/b/INDEX.HTM", FormatHTML},
		{"notes.md", FormatMarkdown},
		{"notes.markdown", FormatMarkdown},
		{"notes.txt", FormatText},
		{"-", FormatText},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		want   string
	}{
		{
			"text",
			`これは\ruby{鶏}{にわとり}`,
			FormatText,
			"これは<ruby>鶏<rp>（</rp><rt>にわとり</rt><rp>）</rp></ruby>",
		},
		{
			"html",
			`<p title="\ruby{a}{b}">\ruby{鶏}{にわとり}</p><code>\ruby{a}{b}</code>`,
			FormatHTML,
			`<p title="\ruby{a}{b}"><ruby>鶏<rp>（</rp><rt>にわとり</rt><rp>）</rp></ruby></p><code>\ruby{a}{b}</code>`,
		},
		{
			"markdown",
			"\\ruby{鶏}{にわとり}\n",
			FormatMarkdown,
			"<p><ruby>鶏<rp>（</rp><rt>にわとり</rt><rp>）</rp></ruby></p>\n",
		},
		{
			"mismatch kept as text",
			`\ruby{a|b}{c}`,
			FormatText,
			`\ruby{a|b}{c}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			if err := Render(&buf, []byte(tt.input), tt.format, defaultOptions(), quietLogger); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	halt := defaultOptions()
	halt.OnError = "halt"

	var buf strings.Builder
	if err := Render(&buf, []byte(`\ruby{a|b}{c}`), FormatText, halt, quietLogger); err == nil {
		t.Errorf("expected halt policy to fail on mismatched groups")
	}
	if err := Render(&buf, []byte("x"), FormatMarkdown, halt, quietLogger); err == nil {
		t.Errorf("expected halt policy to be rejected for Markdown")
	}
	if err := Render(&buf, []byte("x"), Format("rtf"), defaultOptions(), quietLogger); err == nil {
		t.Errorf("expected unknown format to fail")
	}
}
