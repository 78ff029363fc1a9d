package command

import (
	"io"
	"log/slog"

	"github.com/adhocteam/rubyfilter/internal/config"
	"github.com/adhocteam/rubyfilter/internal/ruby"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultOptions() *config.Options {
	return &config.Options{
		OpenParen:  ruby.DefaultOpenParen,
		CloseParen: ruby.DefaultCloseParen,
		OnError:    "text",
	}
}
