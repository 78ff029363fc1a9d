// Package cache remembers the content digest of every file a build has
// written, so unchanged inputs can be skipped on the next build.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"
)

// FileName is the manifest's name inside an output directory.
const FileName = ".rubyfilter-manifest.json"

// Manifest maps output-relative source paths to digests. It is safe for
// concurrent use.
type Manifest struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

type manifestFile struct {
	Entries map[string]string `json:"entries"`
}

// Load reads the manifest in dir. A missing manifest is empty.
func Load(dir string) (*Manifest, error) {
	m := &Manifest{path: filepath.Join(dir, FileName), entries: map[string]string{}}
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var f manifestFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", m.path, err)
	}
	if f.Entries != nil {
		m.entries = f.Entries
	}
	return m, nil
}

// Digest hashes content together with a salt describing how it is
// processed, so changing options invalidates every entry.
func Digest(content []byte, salt string) string {
	h := blake3.New()
	h.Write([]byte(salt))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Fresh reports whether name was last recorded with digest.
func (m *Manifest) Fresh(name, digest string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[name] == digest
}

func (m *Manifest) Record(name, digest string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = digest
}

// Forget drops name, e.g. after its output failed to build.
func (m *Manifest) Forget(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
}

// Save writes the manifest back to its directory.
func (m *Manifest) Save() error {
	m.mu.Lock()
	data, err := json.MarshalIndent(manifestFile{Entries: m.entries}, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
