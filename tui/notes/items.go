package notes

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/rmarchant/nv/internal/cache"
	"github.com/rmarchant/nv/internal/pathutil"
)

type ListItem struct {
	path         string
	relPath      string
	title        string
	summary      string
	keywords     string
	showFullPath bool
}

func (i ListItem) Title() string {
	if i.showFullPath {
		return i.path
	}
	if i.title == "" {
		return i.relPath
	}
	return i.title
}

func (i ListItem) Description() string {
	if i.showFullPath {
		return i.relPath
	}

	description := ""
	if i.keywords != "" {
		description = "[" + i.keywords + "] "
	}
	if i.summary != "" {
		description += i.summary
	}
	if description == "" {
		description = "No summary"
	}
	return description
}

// FilterValue feeds the list's built-in filter. The session already
// applies the repository filter; this only drives incremental
// highlighting inside the visible list.
func (i ListItem) FilterValue() string {
	return i.title + " " + i.keywords + " " + i.relPath
}

// buildItems converts the session's current file list into list rows
// using cached metadata only.
func buildItems(files, roots []string, c *cache.Cache, showFullPath bool) []list.Item {
	items := make([]list.Item, 0, len(files))
	for _, path := range files {
		entry, _ := c.Get(path)
		items = append(items, ListItem{
			path:         path,
			relPath:      relDisplay(roots, path),
			title:        entry.Title,
			summary:      entry.Summary,
			keywords:     entry.Keywords,
			showFullPath: showFullPath,
		})
	}
	return items
}

func relDisplay(roots []string, path string) string {
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
