package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/yaklabco/fmtlift/pkg/driver"
	"github.com/yaklabco/fmtlift/pkg/fsutil"
)

// memCache implements driver.ResultCache for testing.
type memCache struct {
	mu     sync.Mutex
	hashes map[[32]byte]bool
}

func newMemCache() *memCache {
	return &memCache{hashes: make(map[[32]byte]bool)}
}

func (c *memCache) Contains(hash [32]byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hashes[hash]
}

func (c *memCache) Add(hash [32]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[hash] = true
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	}

	result, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesScanned != 0 {
		t.Errorf("FilesScanned = %d, want 0", result.Stats.FilesScanned)
	}

	if len(result.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(result.Files))
	}
}

func TestRun_FixWritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	dirty := filepath.Join(dir, "dirty.rs")
	dirtyContent := "fn main() {\n    let x = 1;\n    println!(\"{x}\");\n}\n"
	if err := os.WriteFile(dirty, []byte(dirtyContent), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	clean := filepath.Join(dir, "clean.rs")
	cleanContent := "fn main() {\n    println!(\"{}\", 1);\n}\n"
	if err := os.WriteFile(clean, []byte(cleanContent), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	}

	result, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", result.Stats.FilesScanned)
	}
	if result.Stats.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", result.Stats.FilesChanged)
	}
	if result.Stats.FilesWritten != 1 {
		t.Errorf("FilesWritten = %d, want 1", result.Stats.FilesWritten)
	}
	if result.Stats.FilesUnchanged != 1 {
		t.Errorf("FilesUnchanged = %d, want 1", result.Stats.FilesUnchanged)
	}

	// Outcomes arrive in discovery order.
	if len(result.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(result.Files))
	}
	if filepath.Base(result.Files[0].Path) != "clean.rs" {
		t.Errorf("Files[0] = %s, want clean.rs", result.Files[0].Path)
	}
	if result.Files[1].Result == nil || !result.Files[1].Result.Written {
		t.Error("dirty.rs should have been written")
	}

	// The dirty file was rewritten on disk.
	got, err := os.ReadFile(dirty)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "fn main() {\n    let x = 1;\n    println!(\"{}\", x);\n}\n"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestRun_CheckMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rsFile := filepath.Join(dir, "main.rs")
	original := "fn main() {\n    let x = 1;\n    println!(\"{x}\");\n}\n"
	if err := os.WriteFile(rsFile, []byte(original), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Check:      true,
	}

	result, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesChanged != 1 {
		t.Errorf("FilesChanged = %d, want 1", result.Stats.FilesChanged)
	}
	if result.Stats.FilesWritten != 0 {
		t.Errorf("FilesWritten = %d, want 0", result.Stats.FilesWritten)
	}
	if !result.HasChanges() {
		t.Error("HasChanges() should be true")
	}

	// Check mode never writes.
	got, err := os.ReadFile(rsFile)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != original {
		t.Errorf("file was modified in check mode: got %q", got)
	}

	if len(result.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(result.Files))
	}
	fr := result.Files[0].Result
	if fr == nil || !fr.Changed || fr.Written {
		t.Errorf("expected pending change without write, got %+v", fr)
	}
}

func TestRun_DryRunDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rsFile := filepath.Join(dir, "main.rs")
	original := "fn main() {\n    let x = 1;\n    println!(\"{x}\");\n}\n"
	if err := os.WriteFile(rsFile, []byte(original), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		DryRun:     true,
	}

	result, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Dry-run never writes.
	got, err := os.ReadFile(rsFile)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != original {
		t.Errorf("file was modified in dry-run mode: got %q", got)
	}

	if len(result.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(result.Files))
	}

	fr := result.Files[0].Result
	if fr == nil || fr.Diff == nil {
		t.Fatal("expected diff in dry-run mode")
	}
	if !fr.Diff.HasChanges() {
		t.Error("diff should have changes")
	}
}

func TestRun_CacheSkipsSecondRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	dirty := filepath.Join(dir, "dirty.rs")
	if err := os.WriteFile(dirty, []byte("fn main() {\n    let x = 1;\n    println!(\"{x}\");\n}\n"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	clean := filepath.Join(dir, "clean.rs")
	if err := os.WriteFile(clean, []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cache := newMemCache()
	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Cache:      cache,
	}

	first, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.Stats.FilesChanged != 1 {
		t.Errorf("first run FilesChanged = %d, want 1", first.Stats.FilesChanged)
	}
	if first.Stats.FilesSkippedCache != 0 {
		t.Errorf("first run FilesSkippedCache = %d, want 0", first.Stats.FilesSkippedCache)
	}

	// Both the untouched file and the rewritten one are now known clean.
	second, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if second.Stats.FilesChanged != 0 {
		t.Errorf("second run FilesChanged = %d, want 0", second.Stats.FilesChanged)
	}
	if second.Stats.FilesSkippedCache != 2 {
		t.Errorf("second run FilesSkippedCache = %d, want 2", second.Stats.FilesSkippedCache)
	}
}

func TestRun_Stats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rsFile := filepath.Join(dir, "main.rs")
	content := "fn main() {\n" +
		"    let a = 1;\n" +
		"    println!(\"{a}\");\n" +
		"    println!(\"{0}\", a);\n" +
		"}\n"
	if err := os.WriteFile(rsFile, []byte(content), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Check:      true,
	}

	result, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.InvocationsFound != 2 {
		t.Errorf("InvocationsFound = %d, want 2", result.Stats.InvocationsFound)
	}
	if result.Stats.InvocationsRewritten != 1 {
		t.Errorf("InvocationsRewritten = %d, want 1", result.Stats.InvocationsRewritten)
	}
	if result.Stats.InvocationsSkipped != 1 {
		t.Errorf("InvocationsSkipped = %d, want 1", result.Stats.InvocationsSkipped)
	}
	if result.Stats.ExpressionsLifted != 1 {
		t.Errorf("ExpressionsLifted = %d, want 1", result.Stats.ExpressionsLifted)
	}
}

func TestRun_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	fileCount := 20
	for idx := range fileCount {
		name := string(rune('a'+idx%26)) + string(rune('0'+idx/26)) + ".rs"
		path := filepath.Join(dir, name)
		content := "fn run() {\n    let value = 7;\n    println!(\"{value}\");\n}\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	// Check mode keeps the tree untouched between runs.
	ctx := context.Background()
	optsSerial := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Check:      true,
		Jobs:       1,
	}

	resultSerial, err := driver.Run(ctx, optsSerial)
	if err != nil {
		t.Fatalf("Run(serial) error = %v", err)
	}

	optsParallel := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Check:      true,
		Jobs:       4,
	}

	resultParallel, err := driver.Run(ctx, optsParallel)
	if err != nil {
		t.Fatalf("Run(parallel) error = %v", err)
	}

	if resultSerial.Stats != resultParallel.Stats {
		t.Errorf("stats mismatch: serial=%+v, parallel=%+v",
			resultSerial.Stats, resultParallel.Stats)
	}

	if len(resultSerial.Files) != len(resultParallel.Files) {
		t.Fatalf("file count mismatch: serial=%d, parallel=%d",
			len(resultSerial.Files), len(resultParallel.Files))
	}

	for i := range resultSerial.Files {
		if resultSerial.Files[i].Path != resultParallel.Files[i].Path {
			t.Errorf("file[%d] path mismatch: serial=%s, parallel=%s",
				i, resultSerial.Files[i].Path, resultParallel.Files[i].Path)
		}
	}
}

func TestRun_CollectsPerFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "good.rs")
	if err := os.WriteFile(good, []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Over the read size cap: processing it fails, the run continues.
	huge := filepath.Join(dir, "huge.rs")
	if err := os.WriteFile(huge, make([]byte, fsutil.MaxFileSize+1), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx := context.Background()
	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	}

	result, err := driver.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", result.Stats.FilesErrored)
	}
	if len(result.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want 1", len(result.Errors))
	}
	if !result.HasErrors() {
		t.Error("HasErrors() should be true")
	}
	if result.Stats.FilesUnchanged != 1 {
		t.Errorf("FilesUnchanged = %d, want 1", result.Stats.FilesUnchanged)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for idx := range 10 {
		path := filepath.Join(dir, string(rune('a'+idx))+".rs")
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	opts := driver.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	}

	_, err := driver.Run(ctx, opts)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestResult_HasChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *driver.Result
		want   bool
	}{
		{
			name:   "nil result",
			result: nil,
			want:   false,
		},
		{
			name: "no changes",
			result: &driver.Result{
				Stats: driver.Stats{FilesUnchanged: 3},
			},
			want: false,
		},
		{
			name: "with changes",
			result: &driver.Result{
				Stats: driver.Stats{FilesChanged: 1, FilesUnchanged: 2},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.result.HasChanges()
			if got != tt.want {
				t.Errorf("HasChanges() = %v, want %v", got, tt.want)
			}
		})
	}
}
