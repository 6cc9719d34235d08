// Package commands wires the regbuilder CLI: flag parsing, configuration
// loading, and console reporting around the generation pipeline.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/alecthomas/kong"

	"github.com/astralkit/regbuilder/internal/config"
	"github.com/astralkit/regbuilder/internal/pipeline"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"regbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Generate the registry and digest from local and remote metadata"`
	Init   InitCmd   `cmd:"" help:"Write a starter configuration file"`
	Watch  WatchCmd  `cmd:"" help:"Regenerate whenever metadata under the plugin root changes"`
	Daemon DaemonCmd `cmd:"" help:"Regenerate on a schedule, with metrics and optional change events"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configured file and applies per-command flag
// overrides on top.
func loadConfig(root *CLI, pluginDir, output, digestOutput string) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if pluginDir != "" {
		cfg.PluginDir = pluginDir
	}
	if output != "" {
		cfg.Output.Registry = output
	}
	if digestOutput != "" {
		cfg.Output.Digest = digestOutput
	}
	return cfg, nil
}

// printSummary writes the user-facing change lines to stdout.
func printSummary(sum *pipeline.Summary) {
	fmt.Printf("Registry written with %d extensions.\n", sum.Total)

	if sum.FirstGeneration {
		fmt.Println("No previous registry found; treating this as the first generation.")
	} else if sum.Diff.Empty() {
		fmt.Println("No changes since the previous registry.")
	} else {
		fmt.Println("Changes:")
		for _, name := range sortedKeys(sum.Diff.Added) {
			fmt.Printf("  [added]   %s version %s\n", name, sum.Diff.Added[name].Version)
		}
		for _, name := range sortedKeys(sum.Diff.Removed) {
			fmt.Printf("  [removed] %s (was version %s)\n", name, sum.Diff.Removed[name].Version)
		}
		updatedNames := make([]string, 0, len(sum.Diff.Updated))
		for name := range sum.Diff.Updated {
			updatedNames = append(updatedNames, name)
		}
		sort.Strings(updatedNames)
		for _, name := range updatedNames {
			if change, ok := sum.Diff.Updated[name]["version"]; ok {
				fmt.Printf("  [updated] %s version %v -> %v\n", name, change.Old, change.New)
			} else {
				fmt.Printf("  [updated] %s metadata changed\n", name)
			}
		}
	}

	fmt.Printf("Digest: %s\n", sum.Digest)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
