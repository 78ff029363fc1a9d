package command

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adhocteam/rubyfilter/internal/config"
	"github.com/adhocteam/rubyfilter/internal/markdown"
	"github.com/adhocteam/rubyfilter/internal/pipeline"
)

// Format is the kind of document being filtered.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// FormatFor infers the format from a file name, defaulting to text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Render filters src as the given format and writes the result to w. Text
// input is treated as a single text run.
func Render(w io.Writer, src []byte, format Format, opts *config.Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	switch format {
	case FormatHTML, FormatText:
		popts, err := opts.Pipeline(logger)
		if err != nil {
			return err
		}
		if format == FormatHTML {
			return pipeline.FilterHTML(w, bytes.NewReader(src), popts)
		}
		return pipeline.FilterText(w, string(src), popts)
	case FormatMarkdown:
		mopts, err := opts.Markdown(logger)
		if err != nil {
			return err
		}
		return markdown.Convert(w, src, mopts...)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
