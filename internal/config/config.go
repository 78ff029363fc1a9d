// Package config holds the options shared by the rubyfilter commands. The
// struct tags are read by kong, which fills the options from flags,
// RUBYFILTER_* environment variables and JSON configuration files.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/adhocteam/rubyfilter/internal/markdown"
	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/pipeline"
	"github.com/adhocteam/rubyfilter/internal/ruby"
)

// DefaultFile is the configuration file loaded when present.
const DefaultFile = ".rubyfilter.json"

type Options struct {
	OpenParen  string   `name:"open-paren" default:"（" env:"RUBYFILTER_OPEN_PAREN" help:"Fallback text before ruby text."`
	CloseParen string   `name:"close-paren" default:"）" env:"RUBYFILTER_CLOSE_PAREN" help:"Fallback text after ruby text."`
	Class      string   `name:"class" env:"RUBYFILTER_CLASS" help:"Class attribute of the <ruby> elements."`
	Commands   []string `name:"command" env:"RUBYFILTER_COMMANDS" help:"Additional command to recognise, as name=arity. Only \\ruby is rendered."`
	Skip       []string `name:"skip" env:"RUBYFILTER_SKIP" help:"HTML elements whose text is left alone (default: script,style,textarea,title,code,pre,rt,rp)."`
	OnError    string   `name:"on-error" enum:"text,skip,halt" default:"text" env:"RUBYFILTER_ON_ERROR" help:"What to do with a \\ruby command whose groups do not line up: ${enum}."`
}

// Table returns the command table: \ruby followed by any extra commands.
func (o *Options) Table() (notation.Table, error) {
	table := notation.DefaultTable
	for _, c := range o.Commands {
		e, err := notation.ParseEntry(c)
		if err != nil {
			return nil, err
		}
		table = table.With(e)
	}
	return table, nil
}

func (o *Options) renderOptions() []ruby.RenderOption {
	return []ruby.RenderOption{ruby.WithFallback(o.OpenParen, o.CloseParen), ruby.WithClass(o.Class)}
}

// Pipeline returns options for filtering HTML or plain text.
func (o *Options) Pipeline(logger *slog.Logger) (pipeline.Options, error) {
	table, err := o.Table()
	if err != nil {
		return pipeline.Options{}, err
	}
	policy, err := pipeline.ParsePolicy(o.OnError)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Renderer: ruby.NewHTMLRenderer(o.renderOptions()...),
		Table:    table,
		Policy:   policy,
		Skip:     o.Skip,
		Logger:   logger,
	}, nil
}

// Markdown returns options for the goldmark extension.
func (o *Options) Markdown(logger *slog.Logger) ([]markdown.Option, error) {
	table, err := o.Table()
	if err != nil {
		return nil, err
	}
	if o.OnError == pipeline.PolicyHalt.String() {
		return nil, fmt.Errorf("on-error %q is not supported for Markdown input", o.OnError)
	}
	opts := []markdown.Option{
		markdown.WithTable(table),
		markdown.WithRenderOptions(o.renderOptions()...),
	}
	if logger != nil {
		opts = append(opts, markdown.WithLogger(logger))
	}
	return opts, nil
}

// Fingerprint identifies the options that affect output, for cache keys.
func (o *Options) Fingerprint() string {
	return strings.Join([]string{
		o.OpenParen,
		o.CloseParen,
		o.Class,
		strings.Join(o.Commands, ","),
		strings.Join(o.Skip, ","),
		o.OnError,
	}, "\x00")
}
