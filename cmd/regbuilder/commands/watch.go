package commands

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/astralkit/regbuilder/internal/daemon"
	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/pipeline"
)

// WatchCmd implements the 'watch' command: rebuild on filesystem changes
// under the plugin root.
type WatchCmd struct {
	PluginDir  string        `short:"p" name:"plugin-dir" help:"Plugin root directory to scan (default from config)"`
	Output     string        `short:"o" help:"Registry JSON output path (default from config)"`
	MD5Output  string        `name:"md5-output" help:"Digest JSON output path (default from config)"`
	SkipRemote bool          `name:"skip-remote" help:"Skip remote metadata resolution"`
	Debounce   time.Duration `default:"2s" help:"Quiet period before rebuilding after a change"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.PluginDir, w.Output, w.MD5Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rebuild := func() {
		sum, err := pipeline.Run(ctx, cfg, pipeline.Options{SkipRemote: w.SkipRemote})
		if err != nil {
			slog.Error("Generation failed", logfields.Error(err))
			return
		}
		printSummary(sum)
	}

	// Publish once before settling into watch mode.
	rebuild()

	watcher, err := daemon.NewWatcher(cfg.PluginDir, w.Debounce, rebuild)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("Watch stopped")
	return nil
}
