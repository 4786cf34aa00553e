package config

import (
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// Config holds runtime settings for the physiokeeper CLI.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the REST API.
//   - RequestTimeout: per-request timeout for protected calls.
//   - LoginTimeout: timeout for the login call, which is slower server-side.
//   - StorePath / KeyPath: credential database and the device secret sealing it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	LoginTimeout   time.Duration
	StorePath      string
	KeyPath        string
	LogLevel       string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.RequestTimeout = 10 * time.Second
	c.LoginTimeout = 30 * time.Second
	c.StorePath = "physiokeeper.db"
	c.KeyPath = "physiokeeper.key"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
