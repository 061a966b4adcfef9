// Package cache persists the set of known-normalized file hashes between
// runs, so repeated runs over a clean tree skip the rewrite engine entirely.
package cache

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/yaklabco/fmtlift/pkg/fsutil"
)

// schemaVersion invalidates every existing snapshot when the payload
// format changes.
const schemaVersion uint16 = 1

// snapshotFileMode is the file mode for cache snapshots.
const snapshotFileMode = 0644

// snapshot is the on-disk payload: the BLAKE3-256 content hashes of files
// that needed no rewriting, tagged with the schema and tool version that
// wrote them.
type snapshot struct {
	Schema  uint16
	Version string
	Count   uint32
	Hashes  [][32]byte
}

// Cache tracks content hashes of files known to need no rewriting.
// Contains serves the hashes loaded from the previous snapshot; Add
// records hashes for the next one. Save writes only the recorded set, so
// entries for files that changed or vanished age out on their own.
//
// A nil *Cache is valid and caches nothing, which is how --no-cache runs.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	path    string
	version string
	known   map[[32]byte]struct{}
	next    map[[32]byte]struct{}
}

// Open loads the snapshot for the given tree root from the user cache
// directory, creating the directory if needed. Each root gets its own
// snapshot file, named by the hash of the absolute root path.
func Open(root, version string) (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	return OpenAt(filepath.Join(base, "fmtlift"), root, version)
}

// OpenAt is Open with an explicit cache directory.
func OpenAt(dir, root, version string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	c := &Cache{
		path:    filepath.Join(dir, snapshotName(absRoot)),
		version: version,
		known:   make(map[[32]byte]struct{}),
		next:    make(map[[32]byte]struct{}),
	}
	c.load()
	return c, nil
}

// snapshotName derives the per-root file name from the absolute root path.
func snapshotName(absRoot string) string {
	sum := blake3.Sum256([]byte(filepath.ToSlash(absRoot)))
	return hex.EncodeToString(sum[:]) + ".mp"
}

// load reads the snapshot if one exists. Corrupt, truncated, or
// version-mismatched snapshots are discarded silently; the cache simply
// starts empty and the next Save replaces them.
func (c *Cache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return
	}
	if snap.Schema != schemaVersion || snap.Version != c.version {
		return
	}
	count, err := safecast.Conv[uint32](len(snap.Hashes))
	if err != nil || count != snap.Count {
		return
	}

	for _, hash := range snap.Hashes {
		c.known[hash] = struct{}{}
	}
}

// Contains reports whether the hash was clean as of the previous run.
func (c *Cache) Contains(hash [32]byte) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.known[hash]
	return ok
}

// Add records a content hash as clean for the next snapshot.
func (c *Cache) Add(hash [32]byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next[hash] = struct{}{}
}

// Len returns the number of hashes recorded for the next snapshot.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.next)
}

// Save atomically replaces the snapshot for this root with the hashes
// recorded since Open.
func (c *Cache) Save(ctx context.Context) error {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	hashes := make([][32]byte, 0, len(c.next))
	for hash := range c.next {
		hashes = append(hashes, hash)
	}
	c.mu.RUnlock()

	// Deterministic order.
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})

	count, err := safecast.Conv[uint32](len(hashes))
	if err != nil {
		return fmt.Errorf("snapshot too large: %w", err)
	}

	data, err := msgpack.Marshal(&snapshot{
		Schema:  schemaVersion,
		Version: c.version,
		Count:   count,
		Hashes:  hashes,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, c.path, data, snapshotFileMode); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
