package config

import "time"

// Default output locations mirror the marketplace layout the registry is
// published into.
const (
	DefaultPluginDir      = "data/plugins"
	DefaultRegistryOutput = "App-Store/admin/plugins.json"
	DefaultDigestOutput   = "App-Store/admin/plugins_md5.json"

	DefaultMetricsAddr = ":9190"
	DefaultNATSSubject = "registry.changes"

	DefaultDaemonInterval = 30 * time.Minute
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// StarterYAML is the commented configuration written by `regbuilder init`.
const StarterYAML = `# regbuilder configuration
plugin_dir: data/plugins

output:
  registry: App-Store/admin/plugins.json
  digest: App-Store/admin/plugins_md5.json

github:
  # api_base: https://api.github.com
  # raw_base: https://raw.githubusercontent.com
  # token: ${GITHUB_TOKEN}
  # token_env: [GITHUB_TOKEN, GH_TOKEN]
  timeout_seconds: 20

daemon:
  interval: 30m
  metrics_addr: ":9190"
  nats:
    # url: nats://localhost:4222
    subject: registry.changes

history:
  # path: regbuilder-history.db
`
