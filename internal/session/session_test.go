package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rmarchant/nv/internal/cache"
	"github.com/rmarchant/nv/internal/handler"
	"github.com/rmarchant/nv/internal/pathspec"
	"github.com/rmarchant/nv/internal/search"
)

func writeNote(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func newTestSession(t testing.TB, roots ...string) *Session {
	t.Helper()
	specs := make([]pathspec.Spec, 0, len(roots))
	for _, root := range roots {
		specs = append(specs, pathspec.Literal(root))
	}

	h := handler.NewFileHandler("org", nil, "._#", "archive")
	s, err := New(specs, h, cache.New(), search.NewFallback(h, search.Config{}))
	if err != nil {
		t.Fatalf("New session: %v", err)
	}
	return s
}

func TestPendingLevelMergeIsMax(t *testing.T) {
	sequences := [][]PendingLevel{
		{PendingRedraw, PendingRecompute, PendingRedraw},
		{PendingNone, PendingRedraw},
		{PendingRecompute, PendingNone, PendingNone},
		{PendingNone},
	}

	for _, seq := range sequences {
		level := PendingNone
		max := PendingNone
		for _, l := range seq {
			level = level.Merge(l)
			if l > max {
				max = l
			}
		}
		if level != max {
			t.Errorf("merge of %v = %v, want %v", seq, level, max)
		}
	}
}

func TestEventsRaisePendingLevel(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.org", "A\nbody")
	s := newTestSession(t, root)

	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	s.pending = PendingNone

	s.Resized()
	if s.Pending() != PendingRedraw {
		t.Fatalf("after resize pending = %v, want redraw", s.Pending())
	}

	s.SetFilter("alpha")
	if s.Pending() != PendingRecompute {
		t.Fatalf("after filter change pending = %v, want recompute", s.Pending())
	}

	// A later redraw must not demote the pending recompute.
	s.Resized()
	if s.Pending() != PendingRecompute {
		t.Fatalf("redraw demoted pending level to %v", s.Pending())
	}
}

func TestSetFilterUnchangedDoesNotSchedule(t *testing.T) {
	root := t.TempDir()
	s := newTestSession(t, root)
	s.pending = PendingNone

	s.SetFilter("")
	if s.Pending() != PendingNone {
		t.Fatalf("identical filter scheduled %v", s.Pending())
	}

	q := ""
	s.SetQuery(&q)
	if s.Pending() != PendingNone {
		t.Fatalf("empty query should normalize to nil and not schedule, got %v", s.Pending())
	}
}

func TestFlushDeferredWhileHidden(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.org", "A\nbody")
	s := newTestSession(t, root)

	visible := false
	renders := 0
	s.SetCallbacks(func() bool { return visible }, func() { renders++ })

	s.NotifyFilesChanged(filepath.Join(root, "a.org"))
	flushed, err := s.FlushVisible()
	if err != nil {
		t.Fatalf("FlushVisible: %v", err)
	}
	if flushed || renders != 0 {
		t.Fatalf("hidden view must defer work (flushed=%v renders=%d)", flushed, renders)
	}
	if s.Pending() != PendingRecompute {
		t.Fatalf("pending level lost while hidden: %v", s.Pending())
	}

	// Any number of events while hidden still costs one cycle.
	s.Resized()
	s.SetFilter("body")
	s.Resized()

	visible = true
	flushed, err = s.FlushVisible()
	if err != nil {
		t.Fatalf("FlushVisible: %v", err)
	}
	if !flushed || renders != 1 {
		t.Fatalf("expected exactly one render, got flushed=%v renders=%d", flushed, renders)
	}
	if s.Pending() != PendingNone {
		t.Fatalf("pending should reset after flush, got %v", s.Pending())
	}
}

func TestFlushRedrawSkipsRecompute(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.org", "A\nbody")
	s := newTestSession(t, root)
	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	s.pending = PendingNone

	// A new file appears but only a resize is reported: the flush must
	// not silently re-derive the lists.
	writeNote(t, root, "b.org", "B\nbody")
	s.Resized()

	renders := 0
	s.SetCallbacks(func() bool { return true }, func() { renders++ })
	if _, err := s.FlushVisible(); err != nil {
		t.Fatalf("FlushVisible: %v", err)
	}

	if renders != 1 {
		t.Fatalf("expected render, got %d", renders)
	}
	if len(s.AllFiles()) != 1 {
		t.Fatalf("redraw flush must not recompute, got %v", s.AllFiles())
	}
}

func TestRecomputeRebuildsBothLists(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "alpha.org", "Alpha Note\nshared topic")
	writeNote(t, root, "beta.org", "Beta Note\nother topic")
	s := newTestSession(t, root)

	s.SetFilter("shared")
	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if len(s.AllFiles()) != 2 {
		t.Fatalf("AllFiles = %v, want both notes", s.AllFiles())
	}
	current := s.CurrentFiles()
	if len(current) != 1 || filepath.Base(current[0]) != "alpha.org" {
		t.Fatalf("CurrentFiles = %v, want only alpha.org", current)
	}
}

func TestCurrentFilesIsSubsequenceOfAllFiles(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, note := range []struct{ name, body string }{
		{"one.org", "One\nkeep this"},
		{"two.org", "Two\ndrop"},
		{"three.org", "Three\nkeep that"},
	} {
		path := writeNote(t, root, note.name, note.body)
		mod := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	s := newTestSession(t, root)
	for _, filterStr := range []string{"", "keep", "keep this", "absent-token"} {
		s.SetFilter(filterStr)
		if err := s.Recompute(); err != nil {
			t.Fatalf("Recompute(%q): %v", filterStr, err)
		}

		all := s.AllFiles()
		current := s.CurrentFiles()

		i := 0
		for _, path := range all {
			if i < len(current) && current[i] == path {
				i++
			}
		}
		if i != len(current) {
			t.Fatalf("filter %q: %v is not a subsequence of %v", filterStr, current, all)
		}
	}
}

func TestNotifyFilesChangedRunsObservers(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, "a.org", "A\nbody")
	s := newTestSession(t, root)

	var seen []string
	s.OnChange(func(paths []string) { seen = append(seen, paths...) })

	s.NotifyFilesChanged(path)
	if len(seen) != 1 || seen[0] != path {
		t.Fatalf("expected observer to see [%s], got %v", path, seen)
	}
}

func TestHandlerOperationsFeedSession(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, "a.org", "A\nbody")
	s := newTestSession(t, root)
	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	s.pending = PendingNone

	if err := s.Handler().Delete(path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Pending() != PendingRecompute {
		t.Fatalf("file operation should schedule recompute, got %v", s.Pending())
	}

	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if len(s.AllFiles()) != 0 {
		t.Fatalf("deleted note still listed: %v", s.AllFiles())
	}
}

func TestResetClearsDerivedState(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "a.org", "A\nbody")
	s := newTestSession(t, root)
	s.SetFilter("body")
	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if s.Cache().Len() != 0 {
		t.Errorf("cache should be empty after reset")
	}
	if len(s.AllFiles()) != 0 || len(s.CurrentFiles()) != 0 {
		t.Errorf("file lists should be empty after reset")
	}
	if s.Filter() != "" || s.Query() != nil {
		t.Errorf("filter/query should clear on reset")
	}
	if s.Pending() != PendingRecompute {
		t.Errorf("reset should owe a recompute, got %v", s.Pending())
	}
}

func TestGarbageCollectThroughSession(t *testing.T) {
	root := t.TempDir()
	keep := writeNote(t, root, "keep.org", "K\nbody")
	gone := writeNote(t, root, "gone.org", "G\nbody")
	s := newTestSession(t, root)
	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if err := os.Remove(gone); err != nil {
		t.Fatalf("remove: %v", err)
	}

	removed := s.GarbageCollect()
	if len(removed) != 1 || removed[0] != gone {
		t.Fatalf("expected [%s], got %v", gone, removed)
	}
	if _, ok := s.Cache().Get(keep); !ok {
		t.Fatalf("surviving entry was dropped")
	}
}
