package config

// Config holds litflow configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
	Store     StoreCfg               `mapstructure:"store" yaml:"store"`
	Project   ProjectCfg             `mapstructure:"project" yaml:"project"`
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Secrets   SecretsCfg             `mapstructure:"secrets" yaml:"secrets"`
}

// ServerCfg configures the HTTP API server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// StoreCfg configures the key-value store backend.
type StoreCfg struct {
	// Path is the SQLite database file. Empty means {home}/store.db.
	Path string `mapstructure:"path" yaml:"path"`
	// Memory selects the in-memory backend, mainly for tests and demos.
	Memory bool `mapstructure:"memory" yaml:"memory"`
}

// ProjectCfg configures the upstream project/dataset API.
type ProjectCfg struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Attempts uint   `mapstructure:"attempts" yaml:"attempts"` // Retry attempts per call
}

// ProviderCfg holds credentials for one embedding provider.
type ProviderCfg struct {
	APIKey       string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	Organization string `mapstructure:"organization" yaml:"organization"`
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
}

// SecretsCfg configures at-rest sealing of stored API keys.
type SecretsCfg struct {
	// Passphrase derives the sealing key (supports ${ENV_VAR} syntax).
	Passphrase string `mapstructure:"passphrase" yaml:"passphrase"`
}

// ResolvedPassphrase returns the sealing passphrase with ${ENV_VAR}
// references substituted. Empty when no passphrase is configured.
func (s SecretsCfg) ResolvedPassphrase() string {
	return ResolveEnvVars(s.Passphrase)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: 8580,
		},
		Store: StoreCfg{},
		Project: ProjectCfg{
			BaseURL:  "http://localhost:8080",
			Attempts: 3,
		},
		Providers: map[string]ProviderCfg{
			"openai": {
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
			"azure-openai": {
				APIKey:  "${AZURE_OPENAI_API_KEY}",
				Enabled: false,
			},
		},
		Secrets: SecretsCfg{
			Passphrase: "${LITFLOW_SECRETS_PASSPHRASE}",
		},
	}
}

// GetProvider returns a provider credential config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// ProviderAPIKey returns the resolved API key for an enabled provider, or
// empty when the provider is unknown, disabled, or has no key set.
func (c *Config) ProviderAPIKey(name string) string {
	p, ok := c.Providers[name]
	if !ok || !p.Enabled {
		return ""
	}
	return ResolveEnvVars(p.APIKey)
}

// EnabledProviders returns all enabled provider credential configs.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
