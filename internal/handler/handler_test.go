package handler

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t testing.TB, dir, name, content string) string {
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

func newTestHandler() *FileHandler {
	return NewFileHandler("org", []string{"txt"}, "._#", "archive")
}

func TestWalkFilesMatchesExtensions(t *testing.T) {
	dir := t.TempDir()
	keepOrg := writeFile(t, dir, "a.org", "x")
	keepTxt := writeFile(t, dir, "sub/b.txt", "x")
	writeFile(t, dir, "c.md", "x")
	writeFile(t, dir, "plain", "x")

	h := newTestHandler()
	files, err := h.WalkFiles(dir, false)
	if err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}

	sort.Strings(files)
	want := []string{keepOrg, keepTxt}
	sort.Strings(want)

	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestWalkFilesExcludesPrefixedEntries(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "visible.org", "x")
	writeFile(t, dir, ".hidden.org", "x")
	writeFile(t, dir, "_draft.org", "x")
	writeFile(t, dir, "#lock.org", "x")
	writeFile(t, dir, ".archive/buried.org", "x")
	writeFile(t, dir, "_private/also.org", "x")

	h := newTestHandler()
	files, err := h.WalkFiles(dir, false)
	if err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}

	if len(files) != 1 || files[0] != keep {
		t.Fatalf("expected only %s, got %v", keep, files)
	}
}

func TestWalkFilesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/deep/note.org", "x")

	h := newTestHandler()
	files, err := h.WalkFiles(dir, true)
	if err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}

	if len(files) != 1 || files[0] != filepath.Join("sub", "deep", "note.org") {
		t.Fatalf("expected relative path, got %v", files)
	}
}

func TestRenameNotifiesObservers(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.org", "x")
	newPath := filepath.Join(dir, "new.org")

	h := newTestHandler()
	var notified []string
	h.OnChange(func(paths []string) {
		notified = append(notified, paths...)
	})

	if err := h.Rename(oldPath, newPath); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if len(notified) != 2 || notified[0] != oldPath || notified[1] != newPath {
		t.Fatalf("expected [%s %s], got %v", oldPath, newPath, notified)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
}

func TestRenameCollisionIsOperationError(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.org", "x")
	newPath := writeFile(t, dir, "taken.org", "y")

	h := newTestHandler()
	var notified int
	h.OnChange(func([]string) { notified++ })

	err := h.Rename(oldPath, newPath)
	if err == nil {
		t.Fatalf("expected collision error")
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %T: %v", err, err)
	}
	if notified != 0 {
		t.Fatalf("no notification expected for failed rename")
	}
}

func TestRenameMissingSourceIsOperationError(t *testing.T) {
	dir := t.TempDir()

	h := newTestHandler()
	err := h.Rename(filepath.Join(dir, "ghost.org"), filepath.Join(dir, "new.org"))

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %T: %v", err, err)
	}
}

func TestArchivePreservesSubdirectory(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "projects/plan.org", "x")

	h := newTestHandler()
	var notified []string
	h.OnChange(func(paths []string) { notified = append(notified, paths...) })

	if err := h.Archive(path, root); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	archived := filepath.Join(root, "archive", "projects", "plan.org")
	if _, err := os.Stat(archived); err != nil {
		t.Fatalf("expected archived note at %s: %v", archived, err)
	}
	if len(notified) != 2 {
		t.Fatalf("expected old+new notification, got %v", notified)
	}
}

func TestUnarchiveRestoresLocation(t *testing.T) {
	root := t.TempDir()
	archived := writeFile(t, root, "archive/projects/plan.org", "x")

	h := newTestHandler()
	if err := h.Unarchive(archived, root); err != nil {
		t.Fatalf("Unarchive: %v", err)
	}

	restored := filepath.Join(root, "projects", "plan.org")
	if _, err := os.Stat(restored); err != nil {
		t.Fatalf("expected restored note at %s: %v", restored, err)
	}
}

func TestDeleteNotifies(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gone.org", "x")

	h := newTestHandler()
	var notified []string
	h.OnChange(func(paths []string) { notified = append(notified, paths...) })

	if err := h.Delete(path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(notified) != 1 || notified[0] != path {
		t.Fatalf("expected [%s], got %v", path, notified)
	}
}

func TestGetSubdirectoriesSkipsExcluded(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"keep", ".hidden", "_priv"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}

	h := newTestHandler()
	subs, err := h.GetSubdirectories(dir)
	if err != nil {
		t.Fatalf("GetSubdirectories: %v", err)
	}
	if len(subs) != 1 || subs[0] != "keep" {
		t.Fatalf("expected [keep], got %v", subs)
	}
}
