package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultPluginDir, cfg.PluginDir)
	require.Equal(t, DefaultRegistryOutput, cfg.Output.Registry)
	require.Equal(t, DefaultDigestOutput, cfg.Output.Digest)
	require.Equal(t, 20, cfg.GitHub.TimeoutSeconds)
	require.Equal(t, []string{"GITHUB_TOKEN", "GH_TOKEN"}, cfg.GitHub.TokenEnv)
}

func TestLoad_FileOverridesAndDefaultsFill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regbuilder.yaml")
	doc := "plugin_dir: my/plugins\noutput:\n  registry: out/reg.json\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "my/plugins", cfg.PluginDir)
	require.Equal(t, "out/reg.json", cfg.Output.Registry)
	// Unset fields still get defaults.
	require.Equal(t, DefaultDigestOutput, cfg.Output.Digest)
	require.Equal(t, DefaultMetricsAddr, cfg.Daemon.MetricsAddr)
	require.Equal(t, DefaultNATSSubject, cfg.Daemon.NATS.Subject)
}

func TestLoad_ExpandsEnvironmentReferences(t *testing.T) {
	t.Setenv("REGBUILDER_TEST_TOKEN", "tok-123")

	path := filepath.Join(t.TempDir(), "regbuilder.yaml")
	doc := "github:\n  token: ${REGBUILDER_TEST_TOKEN}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "tok-123", cfg.GitHub.Token)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugin_dir: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestIntervalDuration(t *testing.T) {
	require.Equal(t, DefaultDaemonInterval, DaemonConfig{}.IntervalDuration())
	require.Equal(t, DefaultDaemonInterval, DaemonConfig{Interval: "soon"}.IntervalDuration())
	require.Equal(t, DefaultDaemonInterval, DaemonConfig{Interval: "-5m"}.IntervalDuration())
	require.Equal(t, 15*time.Minute, DaemonConfig{Interval: "15m"}.IntervalDuration())
}

func TestGitHubOptions(t *testing.T) {
	g := GitHubConfig{
		APIBase:        "https://api.example",
		RawBase:        "https://raw.example",
		Token:          "tok",
		TokenEnv:       []string{"A", "B"},
		TimeoutSeconds: 5,
	}

	opts := g.Options()
	require.Equal(t, "https://api.example", opts.APIBase)
	require.Equal(t, "https://raw.example", opts.RawBase)
	require.Equal(t, "tok", opts.Token)
	require.Equal(t, []string{"A", "B"}, opts.TokenEnvNames)
	require.Equal(t, 5*time.Second, opts.Timeout)
}

func TestStarterYAMLParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(StarterYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultPluginDir, cfg.PluginDir)
	require.Equal(t, "30m", cfg.Daemon.Interval)
}
