package config

import (
	"os"
	"strings"
)

// APIURLEnvName is the environment variable the original mobile build read
// its API host from.
const APIURLEnvName = "API_URL"

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(APIURLEnvName); ok && strings.TrimSpace(v) != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
}
