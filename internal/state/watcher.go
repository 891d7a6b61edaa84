package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/rmarchant/nv/internal/handler"
	"github.com/rmarchant/nv/internal/pathutil"
)

type NoteChangedMsg struct {
	Path string
}

type DirChangedMsg struct {
	Path string
}

type WatcherErrMsg struct {
	Err error
}

// RootsWatcher watches every configured note root recursively and reports
// relevant note and directory changes both as bubbletea messages and
// through registered callbacks.
type RootsWatcher struct {
	watcher     *fsnotify.Watcher
	roots       []string
	handler     *handler.FileHandler
	done        chan struct{}
	once        sync.Once
	mu          sync.Mutex
	onChange    func(string)
	onDirChange func(string)
	onClose     func()
}

func NewRootsWatcher(roots []string, h *handler.FileHandler) (*RootsWatcher, error) {
	if len(roots) == 0 {
		return nil, errors.New("no roots to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	normalized := make([]string, 0, len(roots))
	for _, root := range roots {
		normalized = append(normalized, pathutil.NormalizePath(root))
	}

	watcher := &RootsWatcher{
		watcher: w,
		roots:   normalized,
		handler: h,
		done:    make(chan struct{}),
	}

	for _, root := range normalized {
		if err := watcher.addRecursive(root); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	return watcher, nil
}

// Start returns a command that blocks until the next relevant filesystem
// event and converts it into a message. The caller re-issues the command
// after each message to keep the stream flowing.
func (w *RootsWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.addRecursive(event.Name)
						path := pathutil.NormalizePath(event.Name)
						w.notifyDir(path)
						return DirChangedMsg{Path: path}
					}
				}

				if !w.isRelevant(event) {
					continue
				}

				path := pathutil.NormalizePath(event.Name)
				w.notifyFile(path)
				return NoteChangedMsg{Path: path}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return WatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *RootsWatcher) notifyFile(path string) {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn(path)
	}
}

func (w *RootsWatcher) notifyDir(path string) {
	w.mu.Lock()
	fn := w.onDirChange
	w.mu.Unlock()
	if fn != nil {
		fn(path)
	}
}

func (w *RootsWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}

// OnChange registers a callback receiving absolute note paths for every
// relevant change the watcher observes.
func (w *RootsWatcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// OnDirChange registers a callback receiving absolute directory paths
// whenever a directory appears under a watched root.
func (w *RootsWatcher) OnDirChange(fn func(string)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.onDirChange = fn
	w.mu.Unlock()
}

// OnClose registers a callback invoked exactly once when the watcher
// shuts down.
func (w *RootsWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

func (w *RootsWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return w.watcher.Add(path)
	})
}

func (w *RootsWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	path := pathutil.NormalizePath(event.Name)
	if pathutil.RootFor(w.roots, path) == "" {
		return false
	}

	name := filepath.Base(path)
	if w.handler.Excluded(name) {
		return false
	}
	return w.handler.MatchesExtension(name)
}
