// Package config handles configuration for the development API server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the physiokeeper development server.
//
// Fields:
//   - Addr: HTTP bind address.
//   - DatabaseDSN: SQLite DSN (modernc). The default keeps state in memory.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use the default outside local runs.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr                         string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults. The access token
// lifetime is short so clients exercise their refresh path.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.DatabaseDSN = "file:physiokeeper?mode=memory&cache=shared"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
