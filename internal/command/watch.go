package command

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 125 * time.Millisecond

// Watch builds cfg.Root once and then rebuilds each source file as it
// changes, until ctx is cancelled. Errors from individual rebuilds are
// logged and do not stop the watch.
func Watch(ctx context.Context, cfg BuildConfig) error {
	if _, err := Build(ctx, cfg); err != nil {
		return err
	}
	b, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	logger := b.cfg.Logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating new fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchDirRecursively(watcher, b.cfg.Root, b.cfg.Out); err != nil {
		return fmt.Errorf("adding dir to watch: %w", err)
	}
	logger.Info("Watching for changes", "root", b.cfg.Root)

	// rebuilds run one at a time, in the debounce timers' goroutines
	var mu sync.Mutex
	debounceEvents(ctx, debounceInterval, watcher, func(err error) {
		logger.Error("File watch error", "error", err)
	}, func(event fsnotify.Event) {
		if !reloadableFilename(event.Name) {
			return
		}
		if isDir(event.Name) {
			if isExcluded(event.Name, []string{b.cfg.Out}) {
				return
			}
			if err := watchDirRecursively(watcher, event.Name, b.cfg.Out); err != nil {
				logger.Error("Watching new directory", "dir", event.Name, "error", err)
			}
			return
		}
		if !hasExt(event.Name, b.cfg.Extensions) {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := b.buildFile(event.Name); err != nil {
			logger.Error("Rebuilding", "source", event.Name, "error", err)
			return
		}
		if err := b.manifest.Save(); err != nil {
			logger.Error("Saving manifest", "error", err)
		}
	})
	return nil
}

// reloadableFilename tests whether a change to the file should trigger a
// rebuild. It ignores temporary files from editors like vim and Emacs.
func reloadableFilename(path string) bool {
	ext := filepath.Ext(path)
	// ignore vim swap files: .swp, .swo, .swn, etc
	if len(ext) == 4 && strings.HasPrefix(ext, ".sw") {
		return false
	}
	// ignore vim and Emacs backup files
	if strings.HasSuffix(ext, "~") {
		return false
	}
	// ignore Emacs autosave files
	if base := filepath.Base(path); strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return false
	}
	return true
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

// watchDirRecursively adds root and every directory below it to the watch,
// except the excluded ones.
func watchDirRecursively(watcher *fsnotify.Watcher, root string, exclude ...string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isExcluded(path, exclude) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("adding path %s to watch: %w", path, err)
		}
		return nil
	})
}

// debounceEvents calls fn once a file has seen no create or write events
// for interval. It returns when ctx is done or the watcher is closed.
func debounceEvents(ctx context.Context, interval time.Duration, watcher *fsnotify.Watcher, onError func(error), fn func(event fsnotify.Event)) {
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	has := func(ev fsnotify.Event, op fsnotify.Op) bool {
		return ev.Op&op == op
	}

	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			onError(err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !has(ev, fsnotify.Create) && !has(ev, fsnotify.Write) {
				continue
			}
			mu.Lock()
			t, ok := timers[ev.Name]
			if !ok {
				t = time.AfterFunc(math.MaxInt64, func() {
					fn(ev)
					mu.Lock()
					defer mu.Unlock()
					delete(timers, ev.Name)
				})
				t.Stop()
				timers[ev.Name] = t
			}
			mu.Unlock()
			t.Reset(interval)
		case <-ctx.Done():
			return
		}
	}
}
