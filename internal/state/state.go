package state

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/rmarchant/nv/internal/cache"
	"github.com/rmarchant/nv/internal/config"
	"github.com/rmarchant/nv/internal/constants"
	"github.com/rmarchant/nv/internal/handler"
	"github.com/rmarchant/nv/internal/search"
	"github.com/rmarchant/nv/internal/search/bleveidx"
	"github.com/rmarchant/nv/internal/session"
)

// State wires the configured components together: one handler, one
// metadata cache, one search indexer, and the session coordinating them.
type State struct {
	Config  *config.Config
	Handler *handler.FileHandler
	Cache   *cache.Cache
	Indexer search.Indexer
	Session *session.Session
	Watcher *RootsWatcher
	Home    string
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := handler.NewFileHandler(
		cfg.FileExtension,
		cfg.SecondaryExtensions,
		cfg.ExclusionPrefixes,
		cfg.ArchiveDir,
	)

	idx, err := newIndexer(cfg, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create search indexer: %w", err)
	}

	sess, err := session.New(cfg.Roots, h, cache.New(), idx)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}

	// Missing roots are dropped during resolution, so the resolved set
	// may be empty. Commands still run against an empty view; only the
	// watcher needs at least one directory.
	var watcher *RootsWatcher
	if roots := sess.Roots(); len(roots) > 0 {
		watcher, err = NewRootsWatcher(roots, h)
		if err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to create roots watcher: %w", err)
		}

		// Watcher events reach the session through the TUI message loop,
		// not through callbacks: the session has a single writer and the
		// watcher runs on its own goroutine.
		watcher.OnClose(func() {
			_ = idx.Close()
		})
	}

	return &State{
		Config:  cfg,
		Handler: h,
		Cache:   sess.Cache(),
		Indexer: idx,
		Session: sess,
		Watcher: watcher,
		Home:    home,
	}, nil
}

func newIndexer(cfg *config.Config, h *handler.FileHandler) (search.Indexer, error) {
	searchCfg := search.Config{
		MaxResults: cfg.Search.MaxResults,
		Order:      parseOrder(cfg.Search.Order),
	}

	if cfg.Search.Engine == "fallback" {
		return search.NewFallback(h, searchCfg), nil
	}
	return bleveidx.New(cfg.DataPath(), h, searchCfg)
}

func parseOrder(order string) search.Order {
	if order == "recency" {
		return search.OrderRecency
	}
	return search.OrderRelevance
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	err := config.EnsureConfigExists(home)
	if err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases the watcher and the search index.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		// Closing the watcher also closes the indexer via OnClose.
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
		s.Indexer = nil
	} else if s.Indexer != nil {
		if err := s.Indexer.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Indexer = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
