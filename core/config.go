package core

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "boostday.config.yml"

type Config struct {
	OutputDir      string `yaml:"outputDir"`
	CacheEnabled   bool   `yaml:"cache"`
	DebugHeaders   bool   `yaml:"debugHeaders"`
	DebugLogs      bool   `yaml:"debugLogs"`
	SiteDir        string `yaml:"siteDir"`
	AllowedOrigins string `yaml:"allowedOrigins"`
	Hostname       string `yaml:"hostname"`
	APIBaseURL     string `yaml:"apiBaseURL"`
	AppEnv         string `yaml:"appEnv"`
	AppCommit      string `yaml:"appCommit"`
	BasePath       string `yaml:"basePath"`
}

// Environment variables that override the config file. The names match the
// ones the deployed site has always been configured with.
const (
	EnvAllowedOrigins = "API_ALLOWED_ORIGINS"
	EnvHostname       = "HOSTNAME"
	EnvAPIBaseURL     = "NEXT_PUBLIC_API_BASE_URL"
	EnvAppEnv         = "NEXT_PUBLIC_APP_ENV"
	EnvAppCommit      = "NEXT_PUBLIC_APP_COMMIT"
	EnvBasePath       = "NEXT_PUBLIC_BASE_PATH"
)

var LoadConfig = func(path string) *Config {
	cfg := &Config{}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("ignoring unreadable config file")
			cfg = &Config{}
		}
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.BasePath = NormalizeBasePath(cfg.BasePath)

	return cfg
}

// ApplyEnv overwrites fields whose environment variable is set, even when it
// is set to the empty string.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := map[string]*string{
		EnvAllowedOrigins: &c.AllowedOrigins,
		EnvHostname:       &c.Hostname,
		EnvAPIBaseURL:     &c.APIBaseURL,
		EnvAppEnv:         &c.AppEnv,
		EnvAppCommit:      &c.AppCommit,
		EnvBasePath:       &c.BasePath,
	}
	for name, field := range overrides {
		if v, ok := lookup(name); ok {
			*field = v
		}
	}
}

// ResolveHostname returns the configured host name, falling back to the one
// reported by the operating system.
func (c *Config) ResolveHostname() string {
	if c.Hostname != "" {
		return c.Hostname
	}
	if h, err := osHostname(); err == nil && h != "" {
		return h
	}
	return "localhost"
}

var osHostname = os.Hostname

// EnvLabel is the environment name shown on the home page.
func (c *Config) EnvLabel(runtimeEnv string) string {
	switch {
	case c.AppEnv != "":
		return c.AppEnv
	case runtimeEnv != "":
		return runtimeEnv
	default:
		return "local"
	}
}

func (c *Config) CommitLabel() string {
	if c.AppCommit == "" {
		return "unknown"
	}
	return c.AppCommit
}

// NormalizeBasePath turns "docs/", "/docs" or "//docs//" into "/docs".
// Empty input stays empty.
func NormalizeBasePath(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}
