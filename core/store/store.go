// Package store implements the process-wide filename -> lines mapping
// the workers read and mutate. Insertion and update both overwrite the
// whole value; there is no delete. A get concurrent with a put for the
// same key sees the old value, the new value, or (if absent) nothing —
// never a torn intermediate, which sync.Map's per-key atomicity gives
// us for free.
package store

import (
	"os"
	"path/filepath"
	"strings"

	concurrentmap "github.com/filestore/scheduler/lib/concurrent_map"
	"github.com/filestore/scheduler/lib/logger"
)

var log, _ = logger.New("store")

// Store is a filename -> ordered-lines mapping guarded by a single
// concurrency-safe map, adapted from the generic concurrent map the
// rest of this codebase's RPC services used for metadata lookups.
type Store struct {
	files concurrentmap.Map[string, []string]
}

// New returns an empty Store.
func New() *Store {
	return &Store{files: concurrentmap.NewMap[string, []string]()}
}

// Put overwrites the lines stored under name.
func (s *Store) Put(name string, lines []string) {
	// Copy so later caller-side mutation of lines can't be observed by
	// concurrent readers of a previously returned copy.
	stored := make([]string, len(lines))
	copy(stored, lines)
	s.files.Set(name, stored)
	log.Debugw("put", "filename", name, "lines", len(stored))
}

// Get copies out the stored sequence for name, reporting absence via
// the second return value.
func (s *Store) Get(name string) ([]string, bool) {
	v, ok := s.files.Get(name)
	if !ok {
		return nil, false
	}

	lines := make([]string, len(*v))
	copy(lines, *v)
	return lines, true
}

// Len reports how many files are currently stored; used by tests,
// not on any hot path.
func (s *Store) Len() int {
	return s.files.Len()
}

// PreloadPath preloads the store from a single file or, if path is a
// directory, from every regular file directly inside it (one stored
// entry per file, keyed by its base name), mirroring the server CLI's
// --file startup option.
func (s *Store) PreloadPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return s.preloadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := s.preloadFile(filepath.Join(path, entry.Name())); err != nil {
			log.Warnw("preload", "file", entry.Name(), "error", err)
		}
	}

	return nil
}

func (s *Store) preloadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}

	name := filepath.Base(path)
	s.Put(name, lines)
	log.Infow("preload", "filename", name, "lines", len(lines))
	return nil
}
