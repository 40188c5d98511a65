package config

// Default configuration values.
const (
	DefaultPort     = 4000
	DefaultBind     = "0.0.0.0"
	DefaultDatabase = "duckdb"
)

// ApplyDefaults fills zero-valued fields with defaults.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Bind == "" {
		c.Server.Bind = DefaultBind
	}
	if c.Database.Type == "" {
		c.Database.Type = DefaultDatabase
	}
	if c.Database.Type == "postgres" && c.Database.Port == 0 {
		c.Database.Port = 5432
	}
}
