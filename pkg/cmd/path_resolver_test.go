package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/cache"
	"github.com/rmarchant/nv/internal/handler"
	"github.com/rmarchant/nv/internal/pathspec"
	"github.com/rmarchant/nv/internal/search"
	"github.com/rmarchant/nv/internal/session"
	"github.com/rmarchant/nv/internal/state"
)

func newTestState(t *testing.T, roots ...string) *state.State {
	t.Helper()

	specs := make([]pathspec.Spec, 0, len(roots))
	for _, root := range roots {
		specs = append(specs, pathspec.Literal(root))
	}

	h := handler.NewFileHandler("org", nil, "._#", "archive")
	sess, err := session.New(specs, h, cache.New(), search.NewFallback(h, search.Config{}))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	return &state.State{Handler: h, Session: sess}
}

func writeNote(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("Title\nbody"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestResolveNotePathAbsolute(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, "a.org")
	s := newTestState(t, root)

	resolved, err := ResolveNotePath(&cobra.Command{}, s, path)
	if err != nil {
		t.Fatalf("ResolveNotePath: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
}

func TestResolveNotePathOutsideRootsFails(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	path := writeNote(t, other, "a.org")
	s := newTestState(t, root)

	if _, err := ResolveNotePath(&cobra.Command{}, s, path); err == nil {
		t.Fatal("expected error for path outside every root")
	}
}

func TestResolveNotePathRelativeProbesRootsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	path := writeNote(t, second, "sub/b.org")
	s := newTestState(t, first, second)

	resolved, err := ResolveNotePath(&cobra.Command{}, s, filepath.Join("sub", "b.org"))
	if err != nil {
		t.Fatalf("ResolveNotePath: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
}

func TestResolveNotePathUnarchiveProbesArchiveDir(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, filepath.Join("archive", "old.org"))
	s := newTestState(t, root)

	cmd := &cobra.Command{Use: "unarchive"}
	resolved, err := ResolveNotePath(cmd, s, "old.org")
	if err != nil {
		t.Fatalf("ResolveNotePath: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
}

func TestResolveNotePathMissingFails(t *testing.T) {
	root := t.TempDir()
	s := newTestState(t, root)

	if _, err := ResolveNotePath(&cobra.Command{}, s, "nope.org"); err == nil {
		t.Fatal("expected error for missing note")
	}
}
