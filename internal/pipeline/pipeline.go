// Package pipeline orchestrates one registry generation: collect local
// metadata, overlay remote metadata, diff against the previous snapshot,
// persist the registry, and publish its content digest. Execution is fully
// sequential; the only suspension points are the bounded network calls
// inside remote resolution.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/astralkit/regbuilder/internal/collector"
	"github.com/astralkit/regbuilder/internal/config"
	"github.com/astralkit/regbuilder/internal/github"
	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/metadata"
	"github.com/astralkit/regbuilder/internal/metrics"
	"github.com/astralkit/regbuilder/internal/registry"
	"github.com/astralkit/regbuilder/internal/sync"
)

// Options adjusts a single run beyond what Config carries. Zero values mean
// "use the configured behavior".
type Options struct {
	// SkipRemote disables remote metadata resolution; the registry is
	// published from local metadata alone.
	SkipRemote bool
	// Source overrides the metadata loader; defaults to metadata.YAMLSource.
	Source metadata.Source
	// Resolver overrides the remote resolver; when nil a GitHub client is
	// built from the configuration and released after the sync pass.
	Resolver sync.Resolver
	// Metrics receives run measurements; defaults to metrics.NoopRecorder.
	Metrics metrics.Recorder
}

// Summary describes one completed generation run.
type Summary struct {
	Total   int
	Added   int
	Removed int
	Updated int
	Synced  int
	Digest  string
	// FirstGeneration is true when no previous registry existed.
	FirstGeneration bool
	Duration        time.Duration
	Diff            registry.DiffResult
	Registry        registry.Registry
}

// Run executes one generation against cfg and returns its summary. Soft
// conditions (incomplete metadata, unreachable remotes, malformed previous
// snapshots) never fail the run; only persistence failures do.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	start := time.Now()

	recorder := opts.Metrics
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	previous := registry.LoadFile(cfg.Output.Registry)
	firstGeneration := len(previous) == 0

	source := opts.Source
	if source == nil {
		source = metadata.YAMLSource{}
	}

	reg := collector.Collect(cfg.PluginDir, source)
	if len(reg) == 0 {
		slog.Warn("No valid extension metadata found under plugin root", logfields.Path(cfg.PluginDir))
	}

	synced := 0
	if !opts.SkipRemote && len(reg) > 0 {
		resolver := opts.Resolver
		if resolver == nil {
			client := github.NewClient(cfg.GitHub.Options())
			defer client.Close()
			resolver = client
		}
		synced = sync.Overlay(ctx, reg, resolver)
	}

	diff := registry.Diff(previous, reg)

	if err := registry.SaveFile(reg, cfg.Output.Registry); err != nil {
		recorder.RecordRun(false, time.Since(start))
		return nil, err
	}

	digest := registry.ContentHash(reg)
	if err := registry.SaveDigest(digest, cfg.Output.Digest); err != nil {
		recorder.RecordRun(false, time.Since(start))
		return nil, err
	}

	recorder.RecordRun(true, time.Since(start))
	recorder.RecordRegistrySize(len(reg))
	recorder.RecordChanges(len(diff.Added), len(diff.Removed), len(diff.Updated))

	slog.Info("Registry generated",
		logfields.Path(cfg.Output.Registry),
		logfields.Count(len(reg)),
		logfields.Digest(digest),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	return &Summary{
		Total:           len(reg),
		Added:           len(diff.Added),
		Removed:         len(diff.Removed),
		Updated:         len(diff.Updated),
		Synced:          synced,
		Digest:          digest,
		FirstGeneration: firstGeneration,
		Duration:        time.Since(start),
		Diff:            diff,
		Registry:        reg,
	}, nil
}
