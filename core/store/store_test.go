package store

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := New()
	lines := []string{"hello", "world"}

	s.Put("a.txt", lines)

	got, ok := s.Get("a.txt")
	if !ok {
		t.Fatal("expected file to exist")
	}
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("got %v, want %v", got, lines)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	_, ok := s.Get("nope")
	if ok {
		t.Fatal("expected absence")
	}
}

func TestPutOverwriteIsIdempotent(t *testing.T) {
	s := New()
	s.Put("f", []string{"v1"})
	s.Put("f", []string{"v2", "v2b"})

	got, ok := s.Get("f")
	if !ok {
		t.Fatal("expected file to exist")
	}
	if !reflect.DeepEqual(got, []string{"v2", "v2b"}) {
		t.Fatalf("got %v", got)
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	s := New()
	s.Put("f", []string{"a", "b"})

	got, _ := s.Get("f")
	got[0] = "mutated"

	got2, _ := s.Get("f")
	if got2[0] != "a" {
		t.Fatalf("store value observed mutation from caller copy: %v", got2)
	}
}

func TestConcurrentPutGetNoTorn(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Put("k", []string{"x", "y", "z"})
		}()
		go func() {
			defer wg.Done()
			lines, ok := s.Get("k")
			if ok && len(lines) != 3 {
				t.Errorf("torn read: %v", lines)
			}
		}()
	}

	wg.Wait()
}

func TestPreloadPathFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	if err := s.PreloadPath(path); err != nil {
		t.Fatalf("PreloadPath: %v", err)
	}

	got, ok := s.Get("f.txt")
	if !ok {
		t.Fatal("expected preloaded file")
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestPreloadPathDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "one.txt"), []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "two.txt"), []byte("2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	if err := s.PreloadPath(dir); err != nil {
		t.Fatalf("PreloadPath: %v", err)
	}

	if s.Len() != 2 {
		t.Fatalf("got %d entries, want 2", s.Len())
	}
}
