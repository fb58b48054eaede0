package config

import (
	"os"
	"time"
)

// Defaults for the client binary when no environment values are provided.
const (
	// DefaultServerURL is the base URL of the password-safe server.
	DefaultServerURL = "http://localhost:8080"

	// DefaultClientTimeout bounds every outbound client request.
	DefaultClientTimeout = 15 * time.Second
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the password-safe server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientConfig is the top-level configuration of the client binary.
type ClientConfig struct {
	// Adapter contains the server address and request timeout.
	Adapter ClientAdapter
}

// GetClientConfig builds and validates the client configuration.
//
// The client binary reads only two environment variables — SAFE_SERVER_URL
// and SAFE_REQUEST_TIMEOUT — because its command-line surface is reserved
// for vault commands rather than configuration flags.
func GetClientConfig() (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    DefaultServerURL,
			RequestTimeout: DefaultClientTimeout,
		},
	}

	if addr := os.Getenv("SAFE_SERVER_URL"); addr != "" {
		clientCfg.Adapter.HTTPAddress = addr
	}
	if timeout := os.Getenv("SAFE_REQUEST_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, ErrInvalidAdapterConfigs
		}
		clientCfg.Adapter.RequestTimeout = parsed
	}

	return clientCfg, clientCfg.validate()
}
