// Command rubyfilter renders \ruby{BASE}{RUBY} annotations in HTML, Markdown
// and plain text as HTML <ruby> elements.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/adhocteam/rubyfilter/internal/command"
	"github.com/adhocteam/rubyfilter/internal/config"
	"github.com/adhocteam/rubyfilter/internal/version"
)

type cli struct {
	Config kong.ConfigFlag `help:"Load options from a JSON file." placeholder:"FILE"`

	config.Log     `embed:""`
	config.Options `embed:""`

	Render   renderCmd   `cmd:"" help:"Filter one document."`
	Segments segmentsCmd `cmd:"" help:"Print the segments of a document."`
	Build    buildCmd    `cmd:"" help:"Filter every document in a directory."`
	Watch    watchCmd    `cmd:"" help:"Build, then rebuild documents as they change."`
	Repl     replCmd     `cmd:"" help:"Filter lines typed at the terminal."`
	Version  versionCmd  `cmd:"" help:"Print version information."`
}

// env is handed to every command's Run method.
type env struct {
	ctx     context.Context
	logger  *slog.Logger
	options *config.Options
}

type renderCmd struct {
	File   string `arg:"" optional:"" default:"-" help:"Document to filter, - for stdin."`
	Format string `short:"f" enum:"auto,html,markdown,text" default:"auto" help:"Input format: ${enum}."`
	Output string `short:"o" default:"-" help:"Output file, - for stdout."`
}

func (c *renderCmd) Run(e *env) error {
	src, err := readInput(c.File)
	if err != nil {
		return err
	}
	format := command.Format(c.Format)
	if c.Format == "auto" {
		format = command.FormatFor(c.File)
	}

	if c.Output == "-" {
		w := bufio.NewWriter(os.Stdout)
		if err := command.Render(w, src, format, e.options, e.logger); err != nil {
			return err
		}
		return w.Flush()
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	if err := command.Render(f, src, format, e.options, e.logger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type segmentsCmd struct {
	File  string `arg:"" optional:"" default:"-" help:"Document to scan, - for stdin."`
	Repr  bool   `help:"Print segments as Go values."`
	Color bool   `help:"Colorize the output."`
}

func (c *segmentsCmd) Run(e *env) error {
	src, err := readInput(c.File)
	if err != nil {
		return err
	}
	table, err := e.options.Table()
	if err != nil {
		return err
	}
	return command.PrintSegments(os.Stdout, string(src), table, c.Repr, c.Color)
}

type BuildFlags struct {
	Root       string   `short:"r" default:"." help:"Source directory." type:"existingdir"`
	Out        string   `short:"o" default:"_site" help:"Output directory." type:"path"`
	Jobs       int      `short:"j" env:"RUBYFILTER_JOBS" help:"Files to filter at once (default: one per CPU)."`
	Force      bool     `help:"Rebuild files that are up to date."`
	Extensions []string `name:"ext" env:"RUBYFILTER_EXTENSIONS" help:"Source file extensions (default: .html,.htm,.md,.markdown)."`
}

func (f *BuildFlags) config(e *env) command.BuildConfig {
	return command.BuildConfig{
		Root:       f.Root,
		Out:        f.Out,
		Jobs:       f.Jobs,
		Force:      f.Force,
		Extensions: f.Extensions,
		Options:    e.options,
		Logger:     e.logger,
	}
}

type buildCmd struct {
	BuildFlags `embed:""`
}

func (c *buildCmd) Run(e *env) error {
	_, err := command.Build(e.ctx, c.config(e))
	return err
}

type watchCmd struct {
	BuildFlags `embed:""`
}

func (c *watchCmd) Run(e *env) error {
	return command.Watch(e.ctx, c.config(e))
}

type replCmd struct {
	Color bool `help:"Colorize the output."`
}

func (c *replCmd) Run(e *env) error {
	return command.REPL(e.ctx, command.REPLConfig{Options: e.options, Logger: e.logger, Color: c.Color})
}

type versionCmd struct{}

func (c *versionCmd) Run(e *env) error {
	fmt.Println(version.Version())
	return nil
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("rubyfilter"),
		kong.Description("Render \\ruby{BASE}{RUBY} annotations as HTML <ruby> elements."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Configuration(kong.JSON, config.DefaultFile),
	}
}

func main() {
	var c cli
	kctx := kong.Parse(&c, options()...)

	logger := c.Log.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := kctx.Run(&env{ctx: ctx, logger: logger, options: &c.Options})
	if err != nil && ctx.Err() == nil {
		logger.Error("Command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}
