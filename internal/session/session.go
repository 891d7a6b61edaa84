// Package session owns the live note-repository state: resolved roots,
// the metadata cache, the current file lists, and the coalesced
// pending-update level that decides when recomputation happens.
//
// All state has a single writer by construction. Callers serialize
// external triggers through the Session rather than invoking cache or
// filter primitives concurrently.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rmarchant/nv/internal/cache"
	"github.com/rmarchant/nv/internal/filter"
	"github.com/rmarchant/nv/internal/handler"
	"github.com/rmarchant/nv/internal/pathspec"
	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/search"
)

// Session holds the synchronized view over the configured note roots.
type Session struct {
	specs   []pathspec.Spec
	handler *handler.FileHandler
	cache   *cache.Cache
	indexer search.Indexer

	roots []string

	query     *string
	filterStr string

	allFiles     []string
	currentFiles []string

	pending    PendingLevel
	dirtyRoots map[string]struct{}

	visible   func() bool
	render    func()
	observers []func([]string)
}

// New resolves the configured root specs and returns a session ready
// for its first recompute. Non-existing roots are dropped silently;
// malformed specs surface a ConfigError.
func New(specs []pathspec.Spec, h *handler.FileHandler, c *cache.Cache, idx search.Indexer) (*Session, error) {
	s := &Session{
		specs:      specs,
		handler:    h,
		cache:      c,
		indexer:    idx,
		pending:    PendingRecompute,
		dirtyRoots: make(map[string]struct{}),
	}

	if err := s.resolveRoots(); err != nil {
		return nil, err
	}

	h.OnChange(func(paths []string) {
		s.NotifyFilesChanged(paths...)
	})

	return s, nil
}

// SetCallbacks installs the visibility predicate and render callback.
// The core never touches presentation state beyond invoking these.
func (s *Session) SetCallbacks(visible func() bool, render func()) {
	s.visible = visible
	s.render = render
}

// OnChange registers a callback invoked with affected paths after every
// files-changed notification.
func (s *Session) OnChange(fn func([]string)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Roots returns a copy of the resolved, existing root directories.
func (s *Session) Roots() []string {
	return append([]string(nil), s.roots...)
}

// AllFiles returns a copy of the post-search, pre-filter file list.
func (s *Session) AllFiles() []string {
	return append([]string(nil), s.allFiles...)
}

// CurrentFiles returns a copy of the displayed file list.
func (s *Session) CurrentFiles() []string {
	return append([]string(nil), s.currentFiles...)
}

// Cache exposes the metadata cache for read access by surfaces.
func (s *Session) Cache() *cache.Cache {
	return s.cache
}

// Handler exposes the file handler used for file-management operations.
func (s *Session) Handler() *handler.FileHandler {
	return s.handler
}

// Pending reports the current coalesced update level.
func (s *Session) Pending() PendingLevel {
	return s.pending
}

// Query returns the current search expression; nil means no restriction.
func (s *Session) Query() *string {
	return s.query
}

// Filter returns the current filter string; empty means no filter.
func (s *Session) Filter() string {
	return s.filterStr
}

// SetQuery replaces the search expression and schedules a recompute
// when it changed.
func (s *Session) SetQuery(query *string) {
	if query != nil && *query == "" {
		query = nil
	}
	if equalQuery(s.query, query) {
		return
	}
	s.query = query
	s.pending = s.pending.Merge(PendingRecompute)
}

// SetFilter replaces the filter string and schedules a recompute when
// it changed. The empty string means no filter.
func (s *Session) SetFilter(filterStr string) {
	if s.filterStr == filterStr {
		return
	}
	s.filterStr = filterStr
	s.pending = s.pending.Merge(PendingRecompute)
}

// NotifyFilesChanged records that the given absolute paths changed on
// disk and schedules a recompute. File-management operations and save
// observers route through here; the core does no filesystem watching of
// its own.
func (s *Session) NotifyFilesChanged(paths ...string) {
	if len(paths) == 0 {
		return
	}

	for _, path := range paths {
		if root := pathutil.RootFor(s.roots, path); root != "" {
			s.dirtyRoots[root] = struct{}{}
		}
	}
	s.pending = s.pending.Merge(PendingRecompute)

	for _, fn := range s.observers {
		fn(paths)
	}
}

// NotifyDirsChanged records that the given root-relative directories
// changed and schedules a recompute. A directory that cannot be located
// under any root conservatively dirties every root.
func (s *Session) NotifyDirsChanged(dirs ...string) {
	if len(dirs) == 0 {
		return
	}

	for _, dir := range dirs {
		matched := false
		for _, root := range s.roots {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir))); err == nil {
				s.dirtyRoots[root] = struct{}{}
				matched = true
			}
		}
		if !matched {
			for _, root := range s.roots {
				s.dirtyRoots[root] = struct{}{}
			}
		}
	}
	s.pending = s.pending.Merge(PendingRecompute)
}

// Resized records a presentation-only change requiring a redraw.
func (s *Session) Resized() {
	s.pending = s.pending.Merge(PendingRedraw)
}

// FlushVisible acts on the pending level when the view is visible. When
// hidden, the level is retained and events keep accumulating their
// maximum. On a recompute flush the file lists are rebuilt before the
// render callback runs; a redraw-only flush skips straight to render.
// The level resets to none only after a successful flush. Returns
// whether a flush happened.
func (s *Session) FlushVisible() (bool, error) {
	if s.pending == PendingNone {
		return false, nil
	}
	if s.visible == nil || !s.visible() {
		return false, nil
	}

	if s.pending == PendingRecompute {
		if err := s.Recompute(); err != nil {
			return false, err
		}
	}

	if s.render != nil {
		s.render()
	}
	s.pending = PendingNone
	return true, nil
}

// Recompute rebuilds AllFiles and CurrentFiles in order: dirty roots
// are reindexed incrementally, the engine (or fallback) produces
// AllFiles, the cache is refreshed for every listed file, and the
// filter engine derives CurrentFiles. The two lists are never rebuilt
// independently.
func (s *Session) Recompute() error {
	if len(s.dirtyRoots) > 0 {
		dirty := make([]string, 0, len(s.dirtyRoots))
		for root := range s.dirtyRoots {
			dirty = append(dirty, root)
		}
		if err := s.indexer.IndexDirectories(dirty, false); err != nil {
			return fmt.Errorf("index dirty roots: %w", err)
		}
		s.dirtyRoots = make(map[string]struct{})
	}

	all, err := s.indexer.Query(s.roots, s.query)
	if err != nil {
		return fmt.Errorf("query index: %w", err)
	}

	// Cache refresh for every file completes before the filter engine
	// consults its content.
	for _, path := range all {
		if err := s.cache.Refresh(path); err != nil {
			return fmt.Errorf("refresh cache for %s: %w", path, err)
		}
	}

	s.allFiles = all
	s.currentFiles = filter.Apply(all, s.filterStr, s.cache.Blob)
	return nil
}

// RefreshRoots re-resolves the configured specs and replaces the root
// set wholesale. Roots are never partially updated in place.
func (s *Session) RefreshRoots() error {
	if err := s.resolveRoots(); err != nil {
		return err
	}
	s.pending = s.pending.Merge(PendingRecompute)
	return nil
}

// Reset drops all derived state: cache entries, file lists, and dirty
// bookkeeping. Roots are re-resolved and a full recompute is owed.
func (s *Session) Reset() error {
	s.cache.Clear()
	s.allFiles = nil
	s.currentFiles = nil
	s.dirtyRoots = make(map[string]struct{})
	s.query = nil
	s.filterStr = ""
	if err := s.resolveRoots(); err != nil {
		return err
	}
	s.pending = PendingRecompute
	return nil
}

// GarbageCollect removes cache entries whose backing file is gone and
// returns the removed paths.
func (s *Session) GarbageCollect() []string {
	return s.cache.GarbageCollect()
}

func (s *Session) resolveRoots() error {
	resolved, err := pathspec.Resolve(s.specs)
	if err != nil {
		return err
	}
	s.roots = pathspec.FilterExisting(resolved)

	// A fresh root set owes the index a pass over every root.
	for _, root := range s.roots {
		s.dirtyRoots[root] = struct{}{}
	}
	return nil
}

func equalQuery(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
