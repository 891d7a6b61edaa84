package initialize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/config"
	"github.com/rmarchant/nv/internal/pathspec"
	"github.com/rmarchant/nv/internal/pathutil"
)

// NewCmdInit works from the home directory alone so that a fresh
// machine without a configuration can still bootstrap one.
func NewCmdInit(home string) *cobra.Command {
	var editor string

	cmd := &cobra.Command{
		Use:     "init [root-dir]...",
		Aliases: []string{"initialize"},
		Short:   "Create the nv configuration.",
		Long: heredoc.Doc(`
			Creates the configuration file and registers the given
			directories as note roots. Directories that do not exist yet
			are created.

			Example:
			  nv init ~/notes ~/work/wiki --editor nvim
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, home, args, editor)
		},
	}

	cmd.Flags().StringVarP(&editor, "editor", "e", "", "Editor used to open notes")
	return cmd
}

func run(cmd *cobra.Command, home string, args []string, editor string) error {
	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	}

	cfg, err := config.Load(home)
	if err != nil {
		return err
	}

	for _, arg := range args {
		root := pathutil.NormalizePath(arg)
		if !filepath.IsAbs(root) {
			abs, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			root = abs
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return fmt.Errorf("failed to create root %q: %w", root, err)
		}
		if hasRoot(cfg, root) {
			continue
		}
		cfg.Roots = append(cfg.Roots, pathspec.Literal(root))
	}

	if editor != "" {
		if err := config.ValidateEditor(editor); err != nil {
			return err
		}
		cfg.Editor = editor
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", configPath)
	return nil
}

func hasRoot(cfg *config.Config, root string) bool {
	for _, spec := range cfg.Roots {
		if spec.Kind == pathspec.KindLiteral && pathutil.NormalizePath(spec.Value) == root {
			return true
		}
	}
	return false
}
