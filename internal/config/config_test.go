package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/pipeline"
	"github.com/adhocteam/rubyfilter/internal/ruby"
)

func defaults() Options {
	return Options{OpenParen: ruby.DefaultOpenParen, CloseParen: ruby.DefaultCloseParen, OnError: "text"}
}

func TestTable(t *testing.T) {
	o := defaults()
	o.Commands = []string{"emph=1", "ruby=3"}
	got, err := o.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	want := notation.Table{{Name: "ruby", Arity: 2}, {Name: "emph", Arity: 1}, {Name: "ruby", Arity: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want, +got)\n%s", diff)
	}

	o.Commands = []string{"bad"}
	if _, err := o.Table(); err == nil {
		t.Errorf("Table with bad command should fail")
	}
}

func TestPipeline(t *testing.T) {
	o := defaults()
	o.OpenParen, o.CloseParen = "(", ")"
	o.OnError = "halt"
	opts, err := o.Pipeline(nil)
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if opts.Policy != pipeline.PolicyHalt {
		t.Errorf("Policy = %v, want halt", opts.Policy)
	}

	var out strings.Builder
	if err := pipeline.FilterText(&out, `\ruby{字}{じ}`, opts); err != nil {
		t.Fatalf("FilterText: %v", err)
	}
	if want := "<ruby>字<rp>(</rp><rt>じ</rt><rp>)</rp></ruby>"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestMarkdownRejectsHalt(t *testing.T) {
	o := defaults()
	if _, err := o.Markdown(nil); err != nil {
		t.Errorf("Markdown: %v", err)
	}
	o.OnError = "halt"
	if _, err := o.Markdown(nil); err == nil {
		t.Errorf("Markdown with on-error=halt should fail")
	}
}

func TestFingerprint(t *testing.T) {
	a, b := defaults(), defaults()
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("equal options should have equal fingerprints")
	}
	b.Commands = []string{"emph=1"}
	if a.Fingerprint() == b.Fingerprint() {
		t.Errorf("different commands should change the fingerprint")
	}
	c := defaults()
	c.Class = "furigana"
	if a.Fingerprint() == c.Fingerprint() {
		t.Errorf("different class should change the fingerprint")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.html")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not one JSON record: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "shown" || rec["file"] != "a.html" {
		t.Errorf("unexpected record %v", rec)
	}
}
