package commands

import (
	"fmt"
	"os"

	"github.com/astralkit/regbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config

	if !i.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, []byte(config.StarterYAML), 0o644); err != nil {
		return fmt.Errorf("write configuration file %s: %w", path, err)
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
