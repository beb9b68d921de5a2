package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// AppName names the default cache directory under ~/.cache.
const AppName = "depexplorer"

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the TTL. The stale entry stays on disk until the next [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-encoded values in a directory, one file per key. File
// names are the SHA-256 of the namespaced key.
//
// A Cache is not safe for concurrent use. Several instances may share a
// directory.
//
// Entries expire TTL after their last write; a zero TTL never expires.
// [Cache.Namespace] scopes keys per data source:
//
//	meta := cache.Namespace("metadata:")
//	poms := cache.Namespace("pom:")
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// DefaultDir returns ~/.cache/depexplorer.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// NewCache returns a Cache rooted at dir, creating it when needed. An empty
// dir selects [DefaultDir].
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime. Zero means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Prefix returns the namespace prepended to keys.
func (c *Cache) Prefix() string { return c.prefix }

// Get decodes the entry stored under key into v, which must be a pointer.
//
// It reports (true, nil) on a hit, (false, nil) when no entry exists and
// (false, ErrExpired) for a stale entry. Any other error comes from the
// filesystem or from decoding.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set encodes v and stores it under key, replacing any previous entry. It
// returns the encoded size.
func (c *Cache) Set(key string, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(data), os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the cache whose keys are prefixed with
// prefix. Namespaces nest.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

// Len returns the number of entries in the directory, across namespaces.
func (c *Cache) Len() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}

// Clear removes every entry of the directory, across namespaces, and
// returns how many were removed.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
