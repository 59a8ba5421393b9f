package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"bproto/internal/source"
)

// Bump when the payload layout changes so stale entries self-invalidate.
const diskCacheSchemaVersion uint16 = 1

// Digest is a sha256 content hash.
type Digest = [32]byte

// DiskCache stores generated outputs keyed by the digest of the inputs
// and target. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// diskPayload is the msgpack-serialized cache entry. Paths and contents
// are parallel slices; a map would lose ordering under msgpack.
type diskPayload struct {
	Schema   uint16
	Target   string
	Paths    []string
	Contents [][]byte
}

// OpenDiskCache initializes the cache at the standard user cache
// location under app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "schemas", hex.EncodeToString(key[:])+".mp")
}

// Put writes an entry atomically: encode to a temp file, then rename.
func (c *DiskCache) Put(key Digest, target string, outputs map[string][]byte, order []string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := diskPayload{
		Schema: diskCacheSchemaVersion,
		Target: target,
	}
	for _, p := range order {
		payload.Paths = append(payload.Paths, p)
		payload.Contents = append(payload.Contents, outputs[p])
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry. The boolean is false on a miss or a version
// mismatch.
func (c *DiskCache) Get(key Digest, target string) (map[string][]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Target != target {
		return nil, false, nil
	}

	outputs := make(map[string][]byte, len(payload.Paths))
	for i, p := range payload.Paths {
		outputs[p] = payload.Contents[i]
	}
	return outputs, true, nil
}

// DropAll removes every cache entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "schemas"))
}

// cacheKey digests the target plus every input path and content hash,
// in input order.
func cacheKey(fileSet *source.FileSet, ids []source.FileID, target string) Digest {
	h := sha256.New()
	h.Write([]byte(target))
	h.Write([]byte{0})
	for _, id := range ids {
		f := fileSet.Get(id)
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write(f.Hash[:])
	}
	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

func lookupCache(cache *DiskCache, fileSet *source.FileSet, ids []source.FileID, target string) (*Result, bool) {
	outputs, hit, err := cache.Get(cacheKey(fileSet, ids, target), target)
	if err != nil || !hit {
		return nil, false
	}
	return &Result{Ok: true, Outputs: outputs, CacheHit: true}, true
}

func storeCache(cache *DiskCache, fileSet *source.FileSet, ids []source.FileID, target string, outputs map[string][]byte) {
	order := make([]string, 0, len(outputs))
	for p := range outputs {
		order = append(order, p)
	}
	sort.Strings(order)
	// Best effort: a failed cache write never fails the compilation.
	_ = cache.Put(cacheKey(fileSet, ids, target), target, outputs, order)
}
