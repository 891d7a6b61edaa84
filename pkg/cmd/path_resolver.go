package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/state"
)

// ResolveNotePath turns a command-line path argument into an absolute
// note path under one of the configured roots. Absolute arguments are
// verified against the roots; relative arguments are probed against
// each root in order.
func ResolveNotePath(cmd *cobra.Command, s *state.State, arg string) (string, error) {
	if s == nil || s.Session == nil {
		return "", fmt.Errorf("state is not initialized")
	}
	if arg == "" {
		return "", fmt.Errorf("a path argument is required")
	}

	roots := s.Session.Roots()
	if len(roots) == 0 {
		return "", fmt.Errorf("no note roots are configured")
	}

	if filepath.IsAbs(arg) {
		resolved := pathutil.NormalizePath(arg)
		if pathutil.RootFor(roots, resolved) == "" {
			return "", fmt.Errorf("path %q is outside every configured root", resolved)
		}
		return resolved, nil
	}

	targetDir := inferTargetDir(cmd, s)
	for _, root := range roots {
		candidates := []string{
			filepath.Join(root, arg),
		}
		if targetDir != "" {
			candidates = append(candidates, filepath.Join(root, targetDir, arg))
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				return pathutil.NormalizePath(candidate), nil
			}
		}
	}

	return "", fmt.Errorf("note %q was not found under any configured root", arg)
}

func inferTargetDir(cmd *cobra.Command, s *state.State) string {
	if cmd == nil {
		return ""
	}

	if cmd.Name() == "unarchive" {
		return s.Handler.ArchiveDir()
	}
	return ""
}
