package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
)

func TestOpenAt_StartsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := t.TempDir()

	c, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if c.Contains(blake3.Sum256([]byte("fn main() {}\n"))) {
		t.Error("empty cache should contain nothing")
	}
}

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := t.TempDir()
	ctx := context.Background()

	first := blake3.Sum256([]byte(`println!("{}", x);` + "\n"))
	second := blake3.Sum256([]byte(`let total = 1;` + "\n"))

	c, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	c.Add(first)
	c.Add(second)
	c.Add(first) // duplicates collapse
	if c.Len() != 2 {
		t.Errorf("expected 2 recorded hashes, got %d", c.Len())
	}
	if err := c.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() reopen error = %v", err)
	}
	if !reopened.Contains(first) {
		t.Error("expected first hash after reopen")
	}
	if !reopened.Contains(second) {
		t.Error("expected second hash after reopen")
	}
	if reopened.Contains(blake3.Sum256([]byte("other"))) {
		t.Error("unexpected hash after reopen")
	}
}

func TestCache_SaveReplacesSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := t.TempDir()
	ctx := context.Background()

	stale := blake3.Sum256([]byte("stale"))
	fresh := blake3.Sum256([]byte("fresh"))

	c, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	c.Add(stale)
	if err := c.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Second run: only the fresh hash is re-recorded.
	c, err = OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	if !c.Contains(stale) {
		t.Fatal("expected stale hash before replacement")
	}
	c.Add(fresh)
	if err := c.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	if reopened.Contains(stale) {
		t.Error("stale hash should have aged out")
	}
	if !reopened.Contains(fresh) {
		t.Error("expected fresh hash after replacement")
	}
}

func TestCache_VersionMismatchDiscards(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := t.TempDir()
	ctx := context.Background()

	hash := blake3.Sum256([]byte("content"))

	c, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	c.Add(hash)
	if err := c.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	upgraded, err := OpenAt(dir, root, "v1.1.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	if upgraded.Contains(hash) {
		t.Error("snapshot from another tool version should be discarded")
	}
}

func TestCache_CorruptSnapshotDiscards(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := t.TempDir()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	path := filepath.Join(dir, snapshotName(absRoot))
	if err := os.WriteFile(path, []byte("not msgpack"), 0644); err != nil {
		t.Fatalf("write corrupt snapshot: %v", err)
	}

	c, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() with corrupt snapshot error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after corrupt snapshot, got %d", c.Len())
	}
}

func TestCache_RootsAreIsolated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rootA := t.TempDir()
	rootB := t.TempDir()
	ctx := context.Background()

	hash := blake3.Sum256([]byte("shared content"))

	a, err := OpenAt(dir, rootA, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt(rootA) error = %v", err)
	}
	a.Add(hash)
	if err := a.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	b, err := OpenAt(dir, rootB, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt(rootB) error = %v", err)
	}
	if b.Contains(hash) {
		t.Error("snapshots must be isolated per root")
	}
}

func TestCache_NilIsDisabled(t *testing.T) {
	t.Parallel()

	var c *Cache

	hash := blake3.Sum256([]byte("anything"))
	c.Add(hash)
	if c.Contains(hash) {
		t.Error("nil cache should contain nothing")
	}
	if c.Len() != 0 {
		t.Errorf("nil cache Len() = %d", c.Len())
	}
	if err := c.Save(context.Background()); err != nil {
		t.Errorf("nil cache Save() error = %v", err)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := t.TempDir()

	c, err := OpenAt(dir, root, "v1.0.0")
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}

	done := make(chan struct{})
	for i := range 8 {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := range 100 {
				hash := blake3.Sum256([]byte{byte(n), byte(j)})
				c.Add(hash)
				c.Contains(hash)
			}
		}(i)
	}
	for range 8 {
		<-done
	}

	if c.Len() != 800 {
		t.Errorf("expected 800 recorded hashes, got %d", c.Len())
	}
}
