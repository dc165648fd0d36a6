package config

import (
	"os"
	"path/filepath"
	"time"
)

const tokenFileName = ".filesmanager_token"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - TokenFile: where the session token is kept between invocations.
//   - Timeout: upper bound for a single API call.
type Config struct {
	ServerURL string
	TokenFile string
	Timeout   time.Duration
}

// LoadDefaults populates c with defaults. The token file lives in the user's
// home directory, or the working directory when there is none.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.TokenFile = tokenFileName
	if home, err := os.UserHomeDir(); err == nil {
		c.TokenFile = filepath.Join(home, tokenFileName)
	}
	c.Timeout = 30 * time.Second
}

// LoadConfig builds a Config from defaults, then the JSON file, then flags.
// args are the global arguments preceding the subcommand.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
