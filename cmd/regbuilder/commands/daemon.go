package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/astralkit/regbuilder/internal/config"
	"github.com/astralkit/regbuilder/internal/daemon"
	"github.com/astralkit/regbuilder/internal/history"
	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/metrics"
	"github.com/astralkit/regbuilder/internal/notify"
	"github.com/astralkit/regbuilder/internal/pipeline"
)

// DaemonCmd implements the 'daemon' command: scheduled regeneration with
// Prometheus metrics and optional NATS change events.
type DaemonCmd struct {
	PluginDir   string        `short:"p" name:"plugin-dir" help:"Plugin root directory to scan (default from config)"`
	Output      string        `short:"o" help:"Registry JSON output path (default from config)"`
	MD5Output   string        `name:"md5-output" help:"Digest JSON output path (default from config)"`
	Interval    time.Duration `help:"Interval between generation runs (default from config)"`
	MetricsAddr string        `name:"metrics-addr" help:"Prometheus exposition listen address (default from config)"`
	NATSURL     string        `name:"nats-url" help:"Publish change events to this NATS server (default from config)"`
	History     string        `help:"Record runs in the SQLite history database at this path (default from config)"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, d.PluginDir, d.Output, d.MD5Output)
	if err != nil {
		return err
	}
	if d.Interval > 0 {
		cfg.Daemon.Interval = d.Interval.String()
	}
	if d.MetricsAddr != "" {
		cfg.Daemon.MetricsAddr = d.MetricsAddr
	}
	if d.NATSURL != "" {
		cfg.Daemon.NATS.URL = d.NATSURL
	}
	if d.History != "" {
		cfg.History.Path = d.History
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewPrometheusRecorder()
	metricsServer := startMetricsServer(cfg.Daemon.MetricsAddr, recorder)
	defer shutdownMetricsServer(metricsServer)

	var publisher *notify.Publisher
	if cfg.Daemon.NATS.URL != "" {
		publisher, err = notify.NewPublisher(cfg.Daemon.NATS.URL, cfg.Daemon.NATS.Subject)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	runOnce := func() { d.generate(ctx, cfg, recorder, publisher, store) }

	interval := cfg.Daemon.IntervalDuration()
	scheduler, err := daemon.NewScheduler()
	if err != nil {
		return err
	}
	if _, err := scheduler.ScheduleGeneration(interval, runOnce); err != nil {
		return err
	}

	slog.Info("Daemon started", logfields.Interval(interval.String()), logfields.Path(cfg.PluginDir))

	// First generation immediately; the schedule covers the rest.
	runOnce()

	scheduler.Start()
	<-ctx.Done()
	return scheduler.Stop()
}

func (*DaemonCmd) generate(
	ctx context.Context,
	cfg *config.Config,
	recorder metrics.Recorder,
	publisher *notify.Publisher,
	store *history.Store,
) {
	runID := uuid.NewString()

	sum, err := pipeline.Run(ctx, cfg, pipeline.Options{Metrics: recorder})
	if err != nil {
		slog.Error("Scheduled generation failed", logfields.RunID(runID), logfields.Error(err))
		return
	}

	if store != nil {
		gen := history.Generation{
			ID:        runID,
			CreatedAt: time.Now().UTC(),
			Digest:    sum.Digest,
			Total:     sum.Total,
			Added:     sum.Added,
			Removed:   sum.Removed,
			Updated:   sum.Updated,
		}
		if err := store.Record(ctx, gen); err != nil {
			slog.Warn("Cannot record generation history", logfields.Error(err))
		}
	}

	if publisher != nil && !sum.Diff.Empty() {
		ev := notify.ChangeEvent{
			RunID:       runID,
			GeneratedAt: time.Now().UTC(),
			Digest:      sum.Digest,
			Total:       sum.Total,
			Added:       sortedKeys(sum.Diff.Added),
			Removed:     sortedKeys(sum.Diff.Removed),
			Updated:     sortedKeys(sum.Diff.Updated),
		}
		if err := publisher.Publish(ev); err != nil {
			slog.Warn("Cannot publish change event", logfields.Error(err))
		}
	}
}

func startMetricsServer(addr string, recorder *metrics.PrometheusRecorder) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Metrics server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return server
}

func shutdownMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
