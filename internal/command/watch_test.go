package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReloadableFilename(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"index.html", true},
		{"docs/page.md", true},
		{".index.html.swp", false},
		{".index.html.swo", false},
		{"index.html~", false},
		{"#index.html#", false},
		{"docs/#page.md#", false},
	}
	for _, tt := range tests {
		if got := reloadableFilename(tt.path); got != tt.want {
			t.Errorf("reloadableFilename(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	src := filepath.Join(root, "index.html")
	dst := filepath.Join(out, "index.html")
	writeFile(t, src, `\ruby{a}{b}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, BuildConfig{Root: root, Out: out, Options: defaultOptions(), Logger: quietLogger})
	}()

	want := "<ruby>犬<rp>（</rp><rt>いぬ</rt><rp>）</rp></ruby>"
	deadline := time.Now().Add(10 * time.Second)
	for i := 0; ; i++ {
		// rewrite until the watcher is up and has picked up a change
		writeFile(t, src, fmt.Sprintf(`\ruby{犬}{いぬ}<!-- %d -->`, i))
		time.Sleep(300 * time.Millisecond)
		if b, err := os.ReadFile(dst); err == nil && len(b) >= len(want) && string(b[:len(want)]) == want {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("output was not rebuilt")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Watch did not stop after cancel")
	}
}
