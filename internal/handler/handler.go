// Package handler walks note roots and performs file-management
// operations, notifying registered observers after every completed
// filesystem action so caches stay correct.
package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmarchant/nv/internal/pathutil"
)

// OperationError reports a failed file-management operation such as a
// rename collision or a missing source file.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// FileHandler enumerates note files and moves them around. Observers
// registered via OnChange receive the absolute paths affected by each
// completed operation.
type FileHandler struct {
	primaryExt      string
	secondaryExts   []string
	excludePrefixes string
	archiveDir      string
	observers       []func([]string)
}

// NewFileHandler constructs a handler. primaryExt and secondaryExts are
// extensions without the leading dot; excludePrefixes is the set of
// leading characters that hide a file or directory from enumeration.
func NewFileHandler(primaryExt string, secondaryExts []string, excludePrefixes, archiveDir string) *FileHandler {
	if excludePrefixes == "" {
		excludePrefixes = "._#"
	}
	if archiveDir == "" {
		archiveDir = "archive"
	}
	return &FileHandler{
		primaryExt:      strings.TrimPrefix(primaryExt, "."),
		secondaryExts:   trimDots(secondaryExts),
		excludePrefixes: excludePrefixes,
		archiveDir:      archiveDir,
	}
}

// OnChange registers an observer invoked with the affected absolute
// paths after each completed operation.
func (h *FileHandler) OnChange(fn func([]string)) {
	if fn != nil {
		h.observers = append(h.observers, fn)
	}
}

func (h *FileHandler) notify(paths ...string) {
	if len(paths) == 0 {
		return
	}
	for _, fn := range h.observers {
		fn(paths)
	}
}

// ArchiveDir returns the configured archive subdirectory name.
func (h *FileHandler) ArchiveDir() string {
	return h.archiveDir
}

// WalkFiles recursively enumerates note files under root. Entries whose
// name starts with an excluded prefix are skipped, directories
// included. When relative is true, returned paths are relative to root;
// otherwise they are absolute. Traversal is depth-first; callers must
// not depend on ordering beyond set membership.
func (h *FileHandler) WalkFiles(root string, relative bool) ([]string, error) {
	normalized := pathutil.NormalizePath(root)
	var files []string

	err := filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if path != normalized && h.isExcluded(name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !h.MatchesExtension(name) {
			return nil
		}

		if relative {
			rel, relErr := filepath.Rel(normalized, path)
			if relErr != nil {
				return nil
			}
			files = append(files, rel)
		} else {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// MatchesExtension reports whether name carries the primary or one of
// the secondary note extensions. Matching is case-insensitive.
func (h *FileHandler) MatchesExtension(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	if strings.EqualFold(ext, h.primaryExt) {
		return true
	}
	for _, secondary := range h.secondaryExts {
		if strings.EqualFold(ext, secondary) {
			return true
		}
	}
	return false
}

// Excluded reports whether name starts with one of the exclusion
// prefixes and is therefore hidden from enumeration.
func (h *FileHandler) Excluded(name string) bool {
	if name == "" {
		return false
	}
	return strings.ContainsRune(h.excludePrefixes, rune(name[0]))
}

func (h *FileHandler) isExcluded(name string) bool {
	return h.Excluded(name)
}

// Rename moves a note to a new path within the same directory tree. The
// destination must not exist.
func (h *FileHandler) Rename(oldPath, newPath string) error {
	oldPath = pathutil.NormalizePath(oldPath)
	newPath = pathutil.NormalizePath(newPath)

	if _, err := os.Stat(oldPath); err != nil {
		return &OperationError{Op: "rename", Path: oldPath, Err: err}
	}
	if _, err := os.Stat(newPath); err == nil {
		return &OperationError{Op: "rename", Path: newPath, Err: errors.New("destination already exists")}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return &OperationError{Op: "rename", Path: oldPath, Err: err}
	}

	h.notify(oldPath, newPath)
	return nil
}

// Move relocates a note into destDir, creating it as needed.
func (h *FileHandler) Move(path, destDir string) error {
	path = pathutil.NormalizePath(path)
	destDir = pathutil.NormalizePath(destDir)

	if _, err := os.Stat(path); err != nil {
		return &OperationError{Op: "move", Path: path, Err: err}
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &OperationError{Op: "move", Path: destDir, Err: err}
	}

	newPath := filepath.Join(destDir, filepath.Base(path))
	if _, err := os.Stat(newPath); err == nil {
		return &OperationError{Op: "move", Path: newPath, Err: errors.New("destination already exists")}
	}

	if err := os.Rename(path, newPath); err != nil {
		return &OperationError{Op: "move", Path: path, Err: err}
	}

	h.notify(path, newPath)
	return nil
}

// Archive moves a note under the archive subdirectory of its root,
// preserving its relative location.
func (h *FileHandler) Archive(path, root string) error {
	path = pathutil.NormalizePath(path)
	root = pathutil.NormalizePath(root)

	subDir, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return &OperationError{Op: "archive", Path: path, Err: err}
	}

	return h.Move(path, filepath.Join(root, h.archiveDir, subDir))
}

// Unarchive moves a note back out of the archive subdirectory to its
// original location under root.
func (h *FileHandler) Unarchive(path, root string) error {
	path = pathutil.NormalizePath(path)
	root = pathutil.NormalizePath(root)

	subDir, err := filepath.Rel(filepath.Join(root, h.archiveDir), filepath.Dir(path))
	if err != nil {
		return &OperationError{Op: "unarchive", Path: path, Err: err}
	}

	return h.Move(path, filepath.Join(root, subDir))
}

// Delete removes a note from disk.
func (h *FileHandler) Delete(path string) error {
	path = pathutil.NormalizePath(path)

	if err := os.Remove(path); err != nil {
		return &OperationError{Op: "delete", Path: path, Err: err}
	}

	h.notify(path)
	return nil
}

// GetSubdirectories lists the immediate subdirectory names of directory,
// excluding names hidden by the exclusion prefixes.
func (h *FileHandler) GetSubdirectories(directory string) ([]string, error) {
	entries, err := os.ReadDir(pathutil.NormalizePath(directory))
	if err != nil {
		return nil, err
	}

	var subDirs []string
	for _, entry := range entries {
		if entry.IsDir() && !h.isExcluded(entry.Name()) {
			subDirs = append(subDirs, entry.Name())
		}
	}
	return subDirs, nil
}

func trimDots(exts []string) []string {
	trimmed := make([]string, 0, len(exts))
	for _, ext := range exts {
		trimmed = append(trimmed, strings.TrimPrefix(ext, "."))
	}
	return trimmed
}
