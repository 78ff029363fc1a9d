package pipeline

import (
	"errors"
	"flag"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adhocteam/rubyfilter/internal/ruby"
	"github.com/google/go-cmp/cmp"
)

var update = flag.Bool("update", false, "update golden files")

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFilterHTMLGolden(t *testing.T) {
	testCases, err := filepath.Glob("testdata/*.html")
	if err != nil {
		t.Fatal(err)
	}
	for _, inputFile := range testCases {
		if strings.HasSuffix(inputFile, ".golden.html") {
			continue
		}
		t.Run(filepath.Base(inputFile), func(t *testing.T) {
			input, err := os.ReadFile(inputFile)
			if err != nil {
				t.Fatalf("failed to read input file: %v", err)
			}

			var out strings.Builder
			if err := FilterHTML(&out, strings.NewReader(string(input)), Options{Logger: quietLogger}); err != nil {
				t.Fatalf("FilterHTML: %v", err)
			}

			goldenFile := strings.TrimSuffix(inputFile, ".html") + ".golden.html"
			if *update {
				if err := os.WriteFile(goldenFile, []byte(out.String()), 0644); err != nil {
					t.Fatalf("failed to update golden file: %v", err)
				}
				return
			}

			expected, err := os.ReadFile(goldenFile)
			if err != nil {
				t.Fatalf("failed to read golden file: %v", err)
			}
			if diff := cmp.Diff(string(expected), out.String()); diff != "" {
				t.Errorf("unexpected output (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestFilterHTMLUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		`<DIV id=x data-a='1'>a &lt; b &amp;amp; c</DIV>`,
		"<!-- comment --><br/><img src=\"a.png\">\n\t<p>text</p>",
		`<p>\emph{x} \ruby{only one}</p>`,
		`<script>var s = "\ruby{a}{b}";</script>`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var out strings.Builder
			if err := FilterHTML(&out, strings.NewReader(input), Options{Logger: quietLogger}); err != nil {
				t.Fatalf("FilterHTML: %v", err)
			}
			if out.String() != input {
				t.Errorf("output = %q, want input unchanged", out.String())
			}
		})
	}
}

func TestTokenizeSkip(t *testing.T) {
	input := `<p>a<code>b<Code>c</code>d</CODE>e</p>`
	var got []Event
	for ev, err := range Tokenize(strings.NewReader(input), []string{"code"}) {
		if err != nil {
			t.Fatalf("Tokenize: %v", err)
		}
		got = append(got, ev)
	}
	want := []Event{
		{EventRaw, "<p>"},
		{EventText, "a"},
		{EventRaw, "<code>"},
		{EventRaw, "b"},
		{EventRaw, "<Code>"},
		{EventRaw, "c"},
		{EventRaw, "</code>"},
		{EventRaw, "d"},
		{EventRaw, "</CODE>"},
		{EventText, "e"},
		{EventRaw, "</p>"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want, +got)\n%s", diff)
	}
}

func collect(t *testing.T, events iter.Seq2[Event, error]) ([]Event, error) {
	t.Helper()
	var got []Event
	for ev, err := range events {
		if err != nil {
			return got, err
		}
		got = append(got, ev)
	}
	return got, nil
}

func source(events ...Event) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for _, ev := range events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func TestFilter(t *testing.T) {
	in := source(
		Event{EventRaw, "<p>"},
		Event{EventText, `前\ruby{漢字}{かん|じ}後`},
		Event{EventMarkup, "<hr>"},
		Event{EventText, "no commands"},
		Event{EventRaw, `\ruby{a}{b}`},
	)
	got, err := collect(t, Filter(in, Options{Renderer: ruby.NewHTMLRenderer(ruby.WithFallback("(", ")"))}))
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	want := []Event{
		{EventRaw, "<p>"},
		{EventText, "前"},
		{EventMarkup, "<ruby>漢<rp>(</rp><rt>かん</rt><rp>)</rp>字<rp>(</rp><rt>じ</rt><rp>)</rp></ruby>"},
		{EventText, "後"},
		{EventMarkup, "<hr>"},
		{EventText, "no commands"},
		{EventRaw, `\ruby{a}{b}`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want, +got)\n%s", diff)
	}
}

func TestFilterPolicies(t *testing.T) {
	text := `a\ruby{x|y}{p|q|r}b`
	tests := []struct {
		policy Policy
		want   []Event
	}{
		{PolicyText, []Event{{EventText, "a"}, {EventText, `\ruby{x|y}{p|q|r}`}, {EventText, "b"}}},
		{PolicySkip, []Event{{EventText, "a"}, {EventText, "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			got, err := collect(t, Filter(Text(text), Options{Policy: tt.policy, Logger: quietLogger}))
			if err != nil {
				t.Fatalf("Filter: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want, +got)\n%s", diff)
			}
		})
	}

	t.Run("halt", func(t *testing.T) {
		got, err := collect(t, Filter(Text(text), Options{Policy: PolicyHalt}))
		if !errors.Is(err, ruby.ErrGroupMismatch) {
			t.Fatalf("Filter error = %v, want ErrGroupMismatch", err)
		}
		if diff := cmp.Diff([]Event{{EventText, "a"}}, got); diff != "" {
			t.Errorf("events before error (-want, +got)\n%s", diff)
		}
	})
}

func TestFilterUnknownKind(t *testing.T) {
	_, err := collect(t, Filter(source(Event{Kind: EventKind(42)}), Options{}))
	if err == nil || !strings.Contains(err.Error(), "EventKind(42)") {
		t.Errorf("Filter error = %v, want unknown kind error", err)
	}
}

func TestFilterText(t *testing.T) {
	var out strings.Builder
	if err := FilterText(&out, `これは\ruby{鶏}{にわとり}`, Options{}); err != nil {
		t.Fatalf("FilterText: %v", err)
	}
	want := "これは<ruby>鶏<rp>（</rp><rt>にわとり</rt><rp>）</rp></ruby>"
	if out.String() != want {
		t.Errorf("FilterText() = %q, want %q", out.String(), want)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicyText, PolicySkip, PolicyHalt} {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", p.String(), got, err, p)
		}
	}
	if _, err := ParsePolicy("ignore"); err == nil {
		t.Errorf("ParsePolicy(ignore) should fail")
	}
}
