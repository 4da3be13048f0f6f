package configs

// HTTP holds the listener settings for the planning API server. Only the
// port is configurable; the server always binds all interfaces.
type HTTP struct {
	// Port is the TCP port the API listens on.
	Port uint16 `env:"PORT" envDefault:"8080"`
}
