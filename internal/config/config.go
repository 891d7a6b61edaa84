package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/rmarchant/nv/internal/constants"
	"github.com/rmarchant/nv/internal/pathspec"
)

type SearchConfig struct {
	Engine     string `yaml:"engine"      json:"engine"`
	MaxResults int    `yaml:"max_results" json:"max_results"`
	Order      string `yaml:"order"       json:"order"`
}

type Config struct {
	Roots               []pathspec.Spec `yaml:"roots"                json:"roots"`
	FileExtension       string          `yaml:"file_extension"       json:"file_extension"`
	SecondaryExtensions []string        `yaml:"secondary_extensions" json:"secondary_extensions"`
	ExclusionPrefixes   string          `yaml:"exclusion_prefixes"   json:"exclusion_prefixes"`
	ArchiveDir          string          `yaml:"archive_dir"          json:"archive_dir"`
	Editor              string          `yaml:"editor"               json:"editor"`
	Search              SearchConfig    `yaml:"search"               json:"search"`

	home string `yaml:"-"`
}

const (
	defaultExtension  = "org"
	defaultExclusions = "._#"
	defaultArchiveDir = "archive"
	defaultEngine     = "bleve"
	defaultMaxResults = 1000
)

var ValidEngines = map[string]bool{
	"bleve":    true,
	"fallback": true,
}

var ValidOrders = map[string]bool{
	"relevance": true,
	"recency":   true,
}

var validEditorNames = []string{"nvim", "vim", "emacs", "nano", "vscode", "code", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}

	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s.",
		editor,
		validEditorList(),
	)
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

func newConfig(home string) *Config {
	return &Config{
		FileExtension:     defaultExtension,
		ExclusionPrefixes: defaultExclusions,
		ArchiveDir:        defaultArchiveDir,
		Search: SearchConfig{
			Engine:     defaultEngine,
			MaxResults: defaultMaxResults,
			Order:      "relevance",
		},
		home: home,
	}
}

func (cfg *Config) ensureDefaults() {
	if strings.TrimSpace(cfg.FileExtension) == "" {
		cfg.FileExtension = defaultExtension
	}
	if cfg.ExclusionPrefixes == "" {
		cfg.ExclusionPrefixes = defaultExclusions
	}
	if strings.TrimSpace(cfg.ArchiveDir) == "" {
		cfg.ArchiveDir = defaultArchiveDir
	}
	if strings.TrimSpace(cfg.Search.Engine) == "" {
		cfg.Search.Engine = defaultEngine
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = defaultMaxResults
	}
	if strings.TrimSpace(cfg.Search.Order) == "" {
		cfg.Search.Order = "relevance"
	}
}

// Validate reports the first structural problem with the configuration.
// Root path specs are validated lazily at resolve time, not here.
func (cfg *Config) Validate() error {
	if len(cfg.Roots) == 0 {
		return &ConfigInitError{msg: "no note roots are configured"}
	}
	if !ValidEngines[cfg.Search.Engine] {
		return fmt.Errorf("invalid search engine: %q. Please choose 'bleve' or 'fallback'", cfg.Search.Engine)
	}
	if !ValidOrders[cfg.Search.Order] {
		return fmt.Errorf("invalid search order: %q. Please choose 'relevance' or 'recency'", cfg.Search.Order)
	}
	if cfg.Editor != "" {
		if err := ValidateEditor(cfg.Editor); err != nil {
			return err
		}
	}
	return nil
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := newConfig(home)
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.home = home
	cfg.ensureDefaults()
	cfg.syncViper()

	if cfg.Editor != "" {
		if err := ValidateEditor(cfg.Editor); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) syncViper() {
	viper.Set("editor", cfg.Editor)
	viper.Set("file_extension", cfg.FileExtension)
	viper.Set("archive_dir", cfg.ArchiveDir)
	viper.Set("search_engine", cfg.Search.Engine)
	viper.Set("search_order", cfg.Search.Order)
	viper.Set("search_max_results", cfg.Search.MaxResults)
}

func (cfg *Config) GetConfigPath() string {
	home := cfg.home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return ""
		}
	}
	return GetConfigPath(home)
}

// DataPath is where the search index and its snapshots live.
func (cfg *Config) DataPath() string {
	return filepath.Join(filepath.Dir(cfg.GetConfigPath()), constants.DataDir)
}

func (cfg *Config) AddRoot(spec pathspec.Spec) error {
	cfg.Roots = append(cfg.Roots, spec)
	return cfg.Save()
}

func (cfg *Config) ChangeEditor(editor string) error {
	if err := ValidateEditor(editor); err != nil {
		return err
	}

	cfg.Editor = editor
	return cfg.Save()
}

func (cfg *Config) Save() error {
	if cfg.Editor != "" {
		if err := ValidateEditor(cfg.Editor); err != nil {
			return err
		}
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
