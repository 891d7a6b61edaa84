// Package search defines the contract against the external full-text
// engine and the enumerator fallback used when no engine is available.
package search

import (
	"io/fs"
	"os"
	"sort"

	"github.com/samber/lo"

	"github.com/rmarchant/nv/internal/handler"
)

// Order selects how query results are ranked.
type Order int

const (
	OrderRelevance Order = iota
	OrderRecency
)

// Config carries the engine-independent query settings.
type Config struct {
	// MaxResults truncates query output; 0 means unlimited.
	MaxResults int
	Order      Order
}

// Indexer is the sole boundary to the external search engine: index one
// or more directories (incrementally or forced) and query over a set of
// directories. Implementations own whatever storage they need; callers
// assume only that the index reflects disk state after IndexDirectories
// returns.
type Indexer interface {
	IndexDirectories(roots []string, force bool) error
	// Query returns absolute paths under roots matching query, ordered
	// per Config and truncated to MaxResults. A nil query means no
	// restriction.
	Query(roots []string, query *string) ([]string, error)
	Close() error
}

// Fallback satisfies Indexer without an external engine: enumeration
// plus modification-time sort, most recent first. The query expression
// is ignored; the in-memory filter engine still applies downstream.
type Fallback struct {
	handler *handler.FileHandler
	cfg     Config

	stat func(string) (fs.FileInfo, error)
}

// NewFallback constructs the enumerator-backed indexer.
func NewFallback(h *handler.FileHandler, cfg Config) *Fallback {
	return &Fallback{handler: h, cfg: cfg, stat: os.Stat}
}

// IndexDirectories is a no-op: the filesystem is the index.
func (f *Fallback) IndexDirectories(roots []string, force bool) error {
	return nil
}

type fileInfo struct {
	path    string
	modNano int64
}

// Query enumerates every note under roots and sorts by modification
// time, descending. Files that vanish between enumeration and stat are
// dropped silently.
func (f *Fallback) Query(roots []string, query *string) ([]string, error) {
	var infos []fileInfo
	for _, root := range roots {
		files, err := f.handler.WalkFiles(root, false)
		if err != nil {
			continue
		}
		for _, path := range files {
			info, err := f.stat(path)
			if err != nil {
				continue
			}
			infos = append(infos, fileInfo{path: path, modNano: info.ModTime().UnixNano()})
		}
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].modNano > infos[j].modNano
	})

	paths := lo.Map(infos, func(fi fileInfo, _ int) string {
		return fi.path
	})
	paths = lo.Uniq(paths)

	if f.cfg.MaxResults > 0 && len(paths) > f.cfg.MaxResults {
		paths = paths[:f.cfg.MaxResults]
	}
	return paths, nil
}

// Close is a no-op for the fallback.
func (f *Fallback) Close() error {
	return nil
}
