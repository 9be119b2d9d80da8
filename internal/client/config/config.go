package config

// Config holds runtime settings for the GastroHealth terminal client.
//
// Fields:
//   - ServerURL: base URL of the GastroHealth API.
//   - StoragePath: SQLite file holding the session token and reminders.
//   - LogLevel: debug, info, warn or error; logs go to stderr.
type Config struct {
	ServerURL   string
	StoragePath string
	LogLevel    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.StoragePath = "gastro.db"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
