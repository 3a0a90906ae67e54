package status

// Config holds configuration for the status HTTP server.
type Config struct {
	// Addr is the listen address (e.g. ":8080"). Empty disables the server.
	Addr string `mapstructure:"addr" default:""`
	// ApiKey is the secret key required to read the status. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Enabled reports whether the server should be started.
func (c Config) Enabled() bool {
	return c.Addr != ""
}
