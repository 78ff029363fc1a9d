package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/adhocteam/rubyfilter/internal/config"
)

const (
	historyFile = ".rubyfilter_history"
	prompt      = "ruby> "
	banner      = "rubyfilter REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit."
)

type REPLConfig struct {
	Options *config.Options
	Logger  *slog.Logger
	Color   bool
	// Out receives results; nil means os.Stdout.
	Out io.Writer
}

// REPL reads lines from the terminal and prints the segments and rendered
// markup of each, until EOF, :quit or ctx is cancelled.
func REPL(ctx context.Context, cfg REPLConfig) error {
	if cfg.Options == nil {
		cfg.Options = &config.Options{}
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	fmt.Fprintln(cfg.Out, banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for ctx.Err() == nil {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(cfg.Out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		switch cmd := strings.TrimSpace(line); {
		case cmd == "":
			continue
		case cmd == ":quit":
			return nil
		case strings.HasPrefix(cmd, ":"):
			fmt.Fprintln(cfg.Out, "unknown command. Type :quit to exit.")
			continue
		}

		if err := evalLine(cfg.Out, line, cfg.Options, cfg.Logger, cfg.Color); err != nil {
			fmt.Fprintln(cfg.Out, "error:", err)
		}
		ln.AppendHistory(line)
	}
	return ctx.Err()
}

// evalLine prints the segments of line followed by its rendered markup.
func evalLine(w io.Writer, line string, opts *config.Options, logger *slog.Logger, color bool) error {
	table, err := opts.Table()
	if err != nil {
		return err
	}
	// conversion errors are shown inline; rendering applies the policy
	_ = PrintSegments(w, line, table, false, color)

	var buf bytes.Buffer
	if err := Render(&buf, []byte(line), FormatText, opts, logger); err != nil {
		return err
	}
	fmt.Fprintf(w, "=> %s\n", buf.String())
	return nil
}
