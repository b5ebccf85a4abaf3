package web

import "github.com/rook-computer/circuit/internal/config"

const (
	EnvListenAddr = config.EnvListenAddr
	EnvDevMode    = config.EnvDevMode
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - real device: off unless web.listen, -listen or CIRCUIT_LISTEN is set
// - simulator:   :8080
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func ServerConfigFrom(web config.WebConfig) ServerConfig {
	return ServerConfig{ListenAddr: web.Listen, DevMode: web.Dev}
}

// DefaultServerConfigFromEnv starts from defaultListenAddr and applies the
// CIRCUIT_LISTEN and CIRCUIT_DEV overrides.
func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	cfg := &config.Config{Web: config.WebConfig{Listen: defaultListenAddr}}
	if err := config.ApplyEnv(cfg); err != nil {
		return ServerConfig{}, err
	}
	return ServerConfigFrom(cfg.Web), nil
}
