// Package cache maintains per-note metadata refreshed by modification
// time comparison. The cache is the sole owner of note metadata; callers
// receive copies.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rmarchant/nv/internal/parser"
	"github.com/rmarchant/nv/internal/pathutil"
)

// Entry is the cached metadata for one note. All fields belong to the
// same refresh generation; they are replaced together or not at all.
type Entry struct {
	Title    string
	Summary  string
	Keywords string
	Blob     string
	ModTime  time.Time
}

// Cache stores metadata entries keyed by normalized absolute path.
type Cache struct {
	entries map[string]Entry

	stat func(string) (fs.FileInfo, error)
	read func(string) ([]byte, error)
}

// New constructs an empty metadata cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		stat:    os.Stat,
		read:    os.ReadFile,
	}
}

// Refresh brings the entry for path up to date. A file that no longer
// exists leaves any cached entry untouched; removal is GarbageCollect's
// job. When the on-disk modification time is strictly newer than the
// cached one, or no entry exists yet, the file is re-read and all entry
// fields are replaced in one step. Unreadable files are skipped without
// producing an entry.
func (c *Cache) Refresh(path string) error {
	normalized := pathutil.NormalizePath(path)
	if normalized == "" {
		return nil
	}

	info, err := c.stat(normalized)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		return nil
	}

	if existing, ok := c.entries[normalized]; ok {
		if !info.ModTime().After(existing.ModTime) {
			return nil
		}
	}

	content, err := c.read(normalized)
	if err != nil {
		return nil
	}

	res := parser.Parse(content)
	c.entries[normalized] = Entry{
		Title:    res.Title,
		Summary:  res.Summary,
		Keywords: res.Keywords,
		Blob:     buildBlob(normalized, res),
		ModTime:  info.ModTime(),
	}
	return nil
}

// Get returns a copy of the cached entry for path.
func (c *Cache) Get(path string) (Entry, bool) {
	entry, ok := c.entries[pathutil.NormalizePath(path)]
	return entry, ok
}

// Blob returns the searchable blob for path, or the empty string when no
// entry exists.
func (c *Cache) Blob(path string) string {
	entry, ok := c.entries[pathutil.NormalizePath(path)]
	if !ok {
		return ""
	}
	return entry.Blob
}

// Remove drops the entry for path, if present. Used by file-management
// operations that know the file is gone.
func (c *Cache) Remove(path string) {
	delete(c.entries, pathutil.NormalizePath(path))
}

// GarbageCollect removes entries whose backing file no longer exists and
// returns the removed paths in sorted order. It never runs implicitly.
// Transient stat failures keep their entries; only a definite not-exist
// evicts.
func (c *Cache) GarbageCollect() []string {
	var removed []string
	for path := range c.entries {
		if _, err := c.stat(path); errors.Is(err, fs.ErrNotExist) {
			removed = append(removed, path)
		}
	}

	for _, path := range removed {
		delete(c.entries, path)
	}

	sort.Strings(removed)
	return removed
}

// Clear drops all entries. Used on full reset.
func (c *Cache) Clear() {
	c.entries = make(map[string]Entry)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Paths returns the cached paths in sorted order.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, len(c.entries))
	for path := range c.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func buildBlob(path string, res parser.Result) string {
	parts := []string{path}
	for _, field := range []string{res.Title, res.Keywords, res.Summary} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, " ")
}
