package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rmarchant/nv/internal/config"
	"github.com/rmarchant/nv/internal/state"
	"github.com/rmarchant/nv/pkg/cmd/initialize"
	"github.com/rmarchant/nv/pkg/cmd/root"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	s, err := state.NewState()
	if err != nil {
		// An unconfigured install can still run init.
		var initErr *config.ConfigInitError
		if errors.As(err, &initErr) {
			home, homeErr := state.GetHomeDir()
			if homeErr != nil {
				return homeErr
			}
			if len(os.Args) > 1 && (os.Args[1] == "init" || os.Args[1] == "initialize") {
				initCmd := initialize.NewCmdInit(home)
				initCmd.SetArgs(os.Args[2:])
				return initCmd.Execute()
			}
			return fmt.Errorf("nv is not configured: %w\nRun 'nv init <root-dir>' to get started", err)
		}
		return err
	}
	defer s.Close()

	cmd, err := root.NewCmdRoot(s)
	if err != nil {
		return err
	}

	return cmd.Execute()
}
