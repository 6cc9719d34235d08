package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/astralkit/regbuilder/internal/history"
	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/pipeline"
	"github.com/astralkit/regbuilder/internal/report"
)

// BuildCmd implements the 'build' command: one full generation run.
type BuildCmd struct {
	PluginDir  string `short:"p" name:"plugin-dir" help:"Plugin root directory to scan (default from config)"`
	Output     string `short:"o" help:"Registry JSON output path (default from config)"`
	MD5Output  string `name:"md5-output" help:"Digest JSON output path (default from config)"`
	SkipRemote bool   `name:"skip-remote" help:"Skip remote metadata resolution"`
	Report     string `help:"Write a Markdown change report to this path"`
	ReportHTML string `name:"report-html" help:"Write an HTML change report to this path"`
	History    string `help:"Record this run in the SQLite history database at this path"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, b.PluginDir, b.Output, b.MD5Output)
	if err != nil {
		return err
	}

	sum, err := pipeline.Run(context.Background(), cfg, pipeline.Options{SkipRemote: b.SkipRemote})
	if err != nil {
		return err
	}

	printSummary(sum)

	historyPath := b.History
	if historyPath == "" {
		historyPath = cfg.History.Path
	}
	if historyPath != "" {
		recordHistory(historyPath, sum)
	}

	if b.Report != "" {
		if err := report.WriteMarkdown(b.Report, sum); err != nil {
			return err
		}
		fmt.Printf("Change report written to %s\n", b.Report)
	}
	if b.ReportHTML != "" {
		if err := report.WriteHTML(b.ReportHTML, sum); err != nil {
			return err
		}
		fmt.Printf("HTML change report written to %s\n", b.ReportHTML)
	}

	return nil
}

// recordHistory is best effort: a history failure never fails the run.
func recordHistory(path string, sum *pipeline.Summary) {
	store, err := history.Open(path)
	if err != nil {
		slog.Warn("Cannot open history database", logfields.Path(path), logfields.Error(err))
		return
	}
	defer store.Close()

	gen := history.Generation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Digest:    sum.Digest,
		Total:     sum.Total,
		Added:     sum.Added,
		Removed:   sum.Removed,
		Updated:   sum.Updated,
	}
	if err := store.Record(context.Background(), gen); err != nil {
		slog.Warn("Cannot record generation history", logfields.Path(path), logfields.Error(err))
		return
	}
	slog.Debug("Generation recorded", logfields.RunID(gen.ID), logfields.Digest(gen.Digest))
}
