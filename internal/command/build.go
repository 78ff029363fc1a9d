package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/adhocteam/rubyfilter/internal/cache"
	"github.com/adhocteam/rubyfilter/internal/config"
)

type BuildConfig struct {
	// Root is the directory of source documents.
	Root string
	// Out is the directory the filtered documents are written to, mirroring
	// Root's layout. It may be inside Root but not Root itself.
	Out string
	// Jobs bounds the number of files filtered at once; 0 means one per CPU.
	Jobs int
	// Force rebuilds every file, ignoring the manifest.
	Force bool
	// Extensions selects the source files; nil means DefaultExtensions.
	Extensions []string
	Options    *config.Options
	Logger     *slog.Logger
}

// BuildResult counts the files a build wrote and the ones it found up to
// date.
type BuildResult struct {
	Built   int
	Skipped int
}

type builder struct {
	cfg      BuildConfig
	manifest *cache.Manifest
	salt     string
}

func newBuilder(cfg BuildConfig) (*builder, error) {
	if cfg.Options == nil {
		cfg.Options = &config.Options{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Extensions == nil {
		cfg.Extensions = DefaultExtensions
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	out, err := filepath.Abs(cfg.Out)
	if err != nil {
		return nil, err
	}
	if root == out {
		return nil, fmt.Errorf("output directory %q is the source directory", cfg.Out)
	}
	if err := os.MkdirAll(cfg.Out, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	m, err := cache.Load(cfg.Out)
	if err != nil {
		return nil, err
	}
	return &builder{cfg: cfg, manifest: m, salt: cfg.Options.Fingerprint()}, nil
}

// Build filters every source document under cfg.Root into cfg.Out. Files
// whose content and options are unchanged since the last build are skipped.
func Build(ctx context.Context, cfg BuildConfig) (BuildResult, error) {
	b, err := newBuilder(cfg)
	if err != nil {
		return BuildResult{}, err
	}
	logger := b.cfg.Logger
	logger.Info("Building", "root", b.cfg.Root, "out", b.cfg.Out)

	var built, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Jobs)

	for path, err := range findSources(b.cfg.Root, b.cfg.Extensions, b.cfg.Out) {
		if err != nil {
			g.Go(func() error { return fmt.Errorf("walking %s: %w", b.cfg.Root, err) })
			break
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wrote, err := b.buildFile(path)
			if err != nil {
				return err
			}
			if wrote {
				built.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if saveErr := b.manifest.Save(); saveErr != nil {
		err = errors.Join(err, saveErr)
	}
	result := BuildResult{Built: int(built.Load()), Skipped: int(skipped.Load())}
	if err != nil {
		return result, err
	}
	logger.Info("Built", "built", result.Built, "skipped", result.Skipped)
	return result, nil
}

// outputPath maps a source file to its place in the output directory.
// Markdown becomes HTML; other files keep their name.
func (b *builder) outputPath(rel string) string {
	if FormatFor(rel) == FormatMarkdown {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	}
	return filepath.Join(b.cfg.Out, rel)
}

// buildFile filters one source file, reporting whether it wrote the output.
func (b *builder) buildFile(path string) (bool, error) {
	rel, err := filepath.Rel(b.cfg.Root, path)
	if err != nil {
		return false, err
	}
	key := filepath.ToSlash(rel)
	dst := b.outputPath(rel)

	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	digest := cache.Digest(src, b.salt)
	if !b.cfg.Force && b.manifest.Fresh(key, digest) && exists(dst) {
		b.cfg.Logger.Debug("Up to date", "source", path)
		return false, nil
	}

	var buf bytes.Buffer
	if err := Render(&buf, src, FormatFor(path), b.cfg.Options, b.cfg.Logger.With("source", path)); err != nil {
		b.manifest.Forget(key)
		return false, fmt.Errorf("filtering %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0644); err != nil {
		b.manifest.Forget(key)
		return false, fmt.Errorf("writing %s: %w", dst, err)
	}
	b.manifest.Record(key, digest)
	b.cfg.Logger.Info("Filtered", "source", path, "output", dst)
	return true, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
