// Package markdown is a goldmark extension that renders \ruby{BASE}{RUBY}
// commands in Markdown text as HTML <ruby> elements.
//
//	md := goldmark.New(goldmark.WithExtensions(markdown.New()))
//
// Commands are recognised wherever goldmark parses inline text, so code spans
// and code blocks are left alone. A command must fit on one line.
package markdown

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/adhocteam/rubyfilter/internal/notation"
	"github.com/adhocteam/rubyfilter/internal/ruby"
)

// KindRuby is the node kind of a ruby annotation.
var KindRuby = ast.NewNodeKind("Ruby")

// Node is an inline ruby annotation.
type Node struct {
	ast.BaseInline
	Annotation ruby.Annotation
	// Source is the command as written.
	Source string
}

func (n *Node) Kind() ast.NodeKind {
	return KindRuby
}

func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Source": n.Source}, nil)
}

type inlineParser struct {
	scanner *notation.Scanner
	logger  *slog.Logger
}

func (p *inlineParser) Trigger() []byte {
	return []byte{'\\'}
}

func (p *inlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	cmd, n, ok := p.scanner.MatchAt(string(line))
	if !ok || cmd.Name != ruby.Name {
		return nil
	}
	src := string(line[:n])
	a, err := ruby.FromCommand(cmd)
	if err != nil {
		// left in place, goldmark renders it as text
		p.logger.Warn("Keeping ruby command as text", "source", src, "error", err)
		return nil
	}
	block.Advance(n)
	return &Node{Annotation: a, Source: src}
}

type nodeRenderer struct {
	ruby *ruby.HTMLRenderer
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRuby, r.renderRuby)
}

func (r *nodeRenderer) renderRuby(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		if _, err := w.WriteString(r.ruby.Render(n.(*Node).Annotation)); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkSkipChildren, nil
}

type extension struct {
	table      notation.Table
	renderOpts []ruby.RenderOption
	logger     *slog.Logger
}

type Option func(*extension)

// WithTable sets the recognised commands. Only \ruby produces annotations;
// other commands stay as text.
func WithTable(t notation.Table) Option {
	return func(e *extension) {
		e.table = t
	}
}

// WithRenderOptions configures the annotation renderer. Group text is
// always HTML-escaped.
func WithRenderOptions(opts ...ruby.RenderOption) Option {
	return func(e *extension) {
		e.renderOpts = append(e.renderOpts, opts...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *extension) {
		e.logger = logger
	}
}

// New returns the extension.
func New(opts ...Option) goldmark.Extender {
	e := &extension{table: notation.DefaultTable, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *extension) Extend(m goldmark.Markdown) {
	p := &inlineParser{scanner: notation.NewScanner(e.table), logger: e.logger}
	renderOpts := append(append([]ruby.RenderOption{}, e.renderOpts...), ruby.WithEscaper(escapeHTML))
	r := &nodeRenderer{ruby: ruby.NewHTMLRenderer(renderOpts...)}

	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(p, 100)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(r, 100)))
}

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// Convert renders Markdown source to HTML with the extension enabled.
func Convert(w io.Writer, src []byte, opts ...Option) error {
	md := goldmark.New(goldmark.WithExtensions(New(opts...)))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
