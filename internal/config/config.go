// Package config holds the explicit configuration structure passed into the
// pipeline entry points, and its YAML file loader.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/astralkit/regbuilder/internal/github"
)

// Config is the application configuration. Every option's effect is local
// and explicit; nothing reads process-wide state after Load returns.
type Config struct {
	// PluginDir is the root scanned for extension subdirectories.
	PluginDir string `yaml:"plugin_dir"`

	Output  OutputConfig  `yaml:"output"`
	GitHub  GitHubConfig  `yaml:"github"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	History HistoryConfig `yaml:"history"`
}

// OutputConfig names the published artifacts.
type OutputConfig struct {
	// Registry is the registry JSON output path.
	Registry string `yaml:"registry"`
	// Digest is the digest JSON output path.
	Digest string `yaml:"digest"`
}

// GitHubConfig controls remote metadata resolution.
type GitHubConfig struct {
	APIBase string `yaml:"api_base"`
	RawBase string `yaml:"raw_base"`
	// Token is the explicit access token; when empty, TokenEnv is consulted
	// in order.
	Token          string   `yaml:"token"`
	TokenEnv       []string `yaml:"token_env"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// Options converts the section into client options.
func (g GitHubConfig) Options() github.Options {
	return github.Options{
		APIBase:       g.APIBase,
		RawBase:       g.RawBase,
		Token:         g.Token,
		TokenEnvNames: g.TokenEnv,
		Timeout:       time.Duration(g.TimeoutSeconds) * time.Second,
	}
}

// DaemonConfig controls scheduled regeneration.
type DaemonConfig struct {
	// Interval between scheduled generation runs, e.g. "30m".
	Interval string `yaml:"interval"`
	// MetricsAddr is the Prometheus exposition listen address; empty
	// disables the metrics server.
	MetricsAddr string     `yaml:"metrics_addr"`
	NATS        NATSConfig `yaml:"nats"`
}

// IntervalDuration parses Interval, falling back to the default on empty or
// invalid values.
func (d DaemonConfig) IntervalDuration() time.Duration {
	if d.Interval == "" {
		return DefaultDaemonInterval
	}
	parsed, err := time.ParseDuration(d.Interval)
	if err != nil || parsed <= 0 {
		return DefaultDaemonInterval
	}
	return parsed
}

// NATSConfig controls optional change-event publication.
type NATSConfig struct {
	// URL enables publication when non-empty.
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// HistoryConfig controls the optional generation history database.
type HistoryConfig struct {
	// Path enables history recording when non-empty.
	Path string `yaml:"path"`
}

// Load reads configuration from path. A best-effort .env load runs first so
// token environment variables can live next to the tool; environment
// references in the YAML itself are expanded before parsing. A missing
// config file is not an error: the defaults describe a complete setup.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PluginDir == "" {
		c.PluginDir = DefaultPluginDir
	}
	if c.Output.Registry == "" {
		c.Output.Registry = DefaultRegistryOutput
	}
	if c.Output.Digest == "" {
		c.Output.Digest = DefaultDigestOutput
	}
	if c.GitHub.APIBase == "" {
		c.GitHub.APIBase = github.DefaultAPIBase
	}
	if c.GitHub.RawBase == "" {
		c.GitHub.RawBase = github.DefaultRawBase
	}
	if len(c.GitHub.TokenEnv) == 0 {
		c.GitHub.TokenEnv = append([]string(nil), github.DefaultTokenEnvNames...)
	}
	if c.GitHub.TimeoutSeconds <= 0 {
		c.GitHub.TimeoutSeconds = int(github.DefaultTimeout / time.Second)
	}
	if c.Daemon.MetricsAddr == "" {
		c.Daemon.MetricsAddr = DefaultMetricsAddr
	}
	if c.Daemon.NATS.Subject == "" {
		c.Daemon.NATS.Subject = DefaultNATSSubject
	}
}
