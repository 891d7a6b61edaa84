// Package fzf provides interactive fuzzy selection over the note
// repository, displaying cached titles and keywords instead of raw
// paths.
package fzf

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/viper"

	"github.com/rmarchant/nv/internal/cache"
	"github.com/rmarchant/nv/internal/pathutil"
)

// FuzzyFinder selects one note out of the current session file lists.
type FuzzyFinder struct {
	cache  *cache.Cache
	roots  []string
	Header string
	// Format overrides how a selection row is rendered. When nil the
	// cached title plus keywords is shown.
	Format func(path string, entry cache.Entry) string
	files  []string
}

func NewFuzzyFinder(c *cache.Cache, roots []string, header string) *FuzzyFinder {
	return &FuzzyFinder{cache: c, roots: roots, Header: header}
}

// Run selects over files and either returns the chosen path or opens it
// in the configured editor.
func (f *FuzzyFinder) Run(files []string, execute bool) (string, error) {
	return f.RunWithQuery(files, "", execute)
}

func (f *FuzzyFinder) RunWithQuery(files []string, query string, execute bool) (string, error) {
	f.files = files

	idx, err := f.fuzzySelectFile(query)
	if err != nil {
		f.handleFuzzySelectError(err)
		return "", err
	}
	if idx == -1 {
		return "", fmt.Errorf("no file selected")
	}

	selected := f.files[idx]
	if execute {
		return selected, f.open(selected)
	}
	return selected, nil
}

func (f *FuzzyFinder) fuzzySelectFile(query string) (int, error) {
	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}

	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}

	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	return fuzzyfinder.Find(f.files, func(i int) string {
		return f.displayLine(f.files[i])
	}, options...)
}

// displayLine builds the selection row from the cached metadata so the
// finder never re-reads note files itself.
func (f *FuzzyFinder) displayLine(path string) string {
	entry, ok := f.cache.Get(path)
	if f.Format != nil {
		return f.Format(path, entry)
	}

	title := entry.Title
	if !ok || title == "" {
		title = displayPath(f.roots, path)
	}

	if entry.Keywords == "" {
		return title
	}
	return fmt.Sprintf("%s [%s]", title, entry.Keywords)
}

func (f *FuzzyFinder) renderPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	content, err := os.ReadFile(f.files[i])
	if err != nil {
		return "Error reading file"
	}

	lines := strings.Split(string(content), "\n")
	if h > 0 && len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func (f *FuzzyFinder) handleFuzzySelectError(err error) {
	if err == fuzzyfinder.ErrAbort {
		fmt.Println("No file selected")
	} else {
		fmt.Println("Error selecting file:", err)
	}
}

func (f *FuzzyFinder) open(path string) error {
	editor := viper.GetString("editor")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return fmt.Errorf("no editor configured")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func displayPath(roots []string, path string) string {
	root := pathutil.RootFor(roots, path)
	if root == "" {
		return path
	}
	rel, err := pathutil.RootRelative(root, path)
	if err != nil {
		return path
	}
	return rel
}
