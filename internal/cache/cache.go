// Package cache provides a small response cache for hub API payloads.
//
// The default backend is JSON files scoped per resource type, hub URL, and
// hub ID, with a 5-minute TTL. Setting VXHUB_CACHE_REDIS to a redis URL
// switches to a shared redis backend. Disable caching entirely with
// VXHUB_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Store reads and writes a single cache key (resource+hub).
type Store interface {
	// Get loads cached items into dst. Returns false on miss (absent,
	// expired, disabled, or backend failure).
	Get(dst any) bool
	// Put writes items to the cache. Silently no-ops on error or when disabled.
	Put(items any)
	// Clear removes this cache entry.
	Clear()
}

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

// NewStore creates a Store with the default 5-minute TTL.
// dir is the cache directory (typically from DefaultDir).
// key is the resource type (e.g. "products").
// baseURL is the hub server URL. hubID scopes entries per hub.
func NewStore(dir, key, baseURL, hubID string) Store {
	return NewStoreWithTTL(dir, key, baseURL, hubID, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, key, baseURL, hubID string, ttl time.Duration) Store {
	key = sanitizeKey(key)
	if addr := strings.TrimSpace(os.Getenv("VXHUB_CACHE_REDIS")); addr != "" {
		if s := newRedisStore(addr, key, baseURL, hubID, ttl); s != nil {
			return s
		}
	}
	return newFileStore(dir, key, baseURL, hubID, ttl)
}

// fileStore keeps one JSON file per cache key.
type fileStore struct {
	path string
	ttl  time.Duration
}

func newFileStore(dir, key, baseURL, hubID string, ttl time.Duration) *fileStore {
	filename := fmt.Sprintf("%s_%s.json", key, scopeSuffix(baseURL, hubID))
	return &fileStore{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

func (s *fileStore) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

func (s *fileStore) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

func (s *fileStore) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes all cache files from the directory.
// For safety, it only removes files matching this project's cache filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// DefaultDir returns the platform-appropriate cache directory.
// Returns "$XDG_CACHE_HOME/vxhub-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "vxhub-cli"), nil
}

func disabled() bool {
	return os.Getenv("VXHUB_NO_CACHE") != ""
}

func scopeSuffix(baseURL, hubID string) string {
	hash := sha1.Sum([]byte(baseURL + "\x00" + hubID))
	return hex.EncodeToString(hash[:6])
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "\\", "-")
	return key
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) != 2 {
		return false
	}
	if parts[0] == "" {
		return false
	}
	if len(parts[1]) != 12 || !isHex(parts[1]) {
		return false
	}
	return true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
