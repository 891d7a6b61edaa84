// Package bleveidx implements the search.Indexer contract on top of a
// bleve full-text index stored under the user cache directory.
package bleveidx

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/samber/lo"

	_ "github.com/blevesearch/bleve/v2/config"

	"github.com/rmarchant/nv/internal/handler"
	"github.com/rmarchant/nv/internal/parser"
	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/search"
)

// document is the indexed representation of one note.
type document struct {
	Path     string
	Title    string
	Keywords string
	Body     string
	ModTime  time.Time
}

// fileInfo records the on-disk state an indexed file had when it was
// last incorporated. Snapshots of these drive incremental indexing.
type fileInfo struct {
	Path    string
	ModTime time.Time
}

// Indexer owns the on-disk bleve index and its companion snapshot file.
type Indexer struct {
	dataDir string
	handler *handler.FileHandler
	cfg     search.Config
	index   bleve.Index
}

const (
	indexName    = "index.bleve"
	snapshotName = "fileinfos.json"
)

// unlimitedSize stands in for "no cap" since bleve requires a concrete
// request size.
const unlimitedSize = 100000

// New opens (or creates) the index under dataDir.
func New(dataDir string, h *handler.FileHandler, cfg search.Config) (*Indexer, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, err
	}

	idx, err := openIndex(filepath.Join(dataDir, indexName))
	if err != nil {
		return nil, err
	}

	return &Indexer{dataDir: dataDir, handler: h, cfg: cfg, index: idx}, nil
}

// IndexDirectories incorporates on-disk changes under roots into the
// index. Incremental runs compare the current file set against the
// stored snapshot; force drops the index and snapshot first and
// reindexes from scratch.
func (s *Indexer) IndexDirectories(roots []string, force bool) error {
	if force {
		if err := s.reset(); err != nil {
			return err
		}
	}

	old, err := s.readSnapshot()
	if err != nil {
		return err
	}

	var current []fileInfo
	for _, root := range roots {
		files, walkErr := s.handler.WalkFiles(root, false)
		if walkErr != nil {
			continue
		}
		for _, path := range files {
			info, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}
			current = append(current, fileInfo{Path: path, ModTime: info.ModTime()})
		}
	}

	scoped := lo.Filter(old, func(fi fileInfo, _ int) bool {
		return pathutil.RootFor(roots, fi.Path) != ""
	})
	deleted, changed := diffSnapshots(scoped, current)

	batch := s.index.NewBatch()
	for _, fi := range deleted {
		batch.Delete(fi.Path)
	}
	for _, fi := range changed {
		doc, loadErr := loadDocument(fi)
		if loadErr != nil {
			// Unreadable files produce no entry; a previously indexed
			// version is dropped so queries cannot return stale hits.
			batch.Delete(fi.Path)
			continue
		}
		if err := batch.Index(fi.Path, doc); err != nil {
			return err
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return err
	}

	// Entries outside the indexed roots keep their snapshot state.
	kept := lo.Filter(old, func(fi fileInfo, _ int) bool {
		return pathutil.RootFor(roots, fi.Path) == ""
	})
	return s.writeSnapshot(append(kept, current...))
}

// Query runs the expression against the index and returns matching
// absolute paths under roots. A nil query matches all notes; recency
// order sorts by modification time, descending.
func (s *Indexer) Query(roots []string, query *string) ([]string, error) {
	var req *bleve.SearchRequest
	if query == nil || *query == "" {
		req = bleve.NewSearchRequest(bleve.NewMatchAllQuery())
		req.SortBy([]string{"-ModTime"})
	} else {
		req = bleve.NewSearchRequest(bleve.NewQueryStringQuery(*query))
		if s.cfg.Order == search.OrderRecency {
			req.SortBy([]string{"-ModTime"})
		}
	}

	// The cap applies to in-scope hits, so fetch wide and trim after
	// the root filter. Sizing the request to MaxResults would let hits
	// from other roots crowd out matches under the queried ones.
	req.Size = unlimitedSize

	result, err := s.index.Search(req)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if pathutil.RootFor(roots, hit.ID) == "" {
			continue
		}
		paths = append(paths, hit.ID)
		if s.cfg.MaxResults > 0 && len(paths) == s.cfg.MaxResults {
			break
		}
	}
	return paths, nil
}

// Close releases the underlying bleve index.
func (s *Indexer) Close() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

func (s *Indexer) reset() error {
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(filepath.Join(s.dataDir, indexName)); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.dataDir, snapshotName)); err != nil {
		return err
	}

	idx, err := openIndex(filepath.Join(s.dataDir, indexName))
	if err != nil {
		return err
	}
	s.index = idx
	return nil
}

func (s *Indexer) readSnapshot() ([]fileInfo, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, snapshotName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var infos []fileInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *Indexer) writeSnapshot(infos []fileInfo) error {
	data, err := json.Marshal(infos)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dataDir, snapshotName), data, 0o600)
}

// openIndex opens an existing index or creates a fresh one.
func openIndex(path string) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		return bleve.New(path, bleve.NewIndexMapping())
	}
	return idx, err
}

// diffSnapshots returns the entries present only in old (deleted) and
// the entries new or carrying a different modification time (changed).
func diffSnapshots(old, current []fileInfo) (deleted, changed []fileInfo) {
	oldByPath := lo.KeyBy(old, func(fi fileInfo) string { return fi.Path })
	currentByPath := lo.KeyBy(current, func(fi fileInfo) string { return fi.Path })

	for _, fi := range old {
		if _, ok := currentByPath[fi.Path]; !ok {
			deleted = append(deleted, fi)
		}
	}

	for _, fi := range current {
		prev, ok := oldByPath[fi.Path]
		if !ok || !prev.ModTime.Equal(fi.ModTime) {
			changed = append(changed, fi)
		}
	}
	return deleted, changed
}

func loadDocument(fi fileInfo) (document, error) {
	content, err := os.ReadFile(fi.Path)
	if err != nil {
		return document{}, err
	}

	res := parser.Parse(content)
	return document{
		Path:     fi.Path,
		Title:    res.Title,
		Keywords: res.Keywords,
		Body:     string(content),
		ModTime:  fi.ModTime,
	}, nil
}
