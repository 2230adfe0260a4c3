package config

import "github.com/jpalmerr/jsonpoll"

// NewBuilder converts a parsed [Config] into an SDK builder for payload
// type T. Further builder methods (logger, metrics) can be chained before
// Build:
//
//	poller, err := config.NewBuilder[Payload](cfg).
//	    WithLogger(logger).
//	    Build()
//
// Zero-valued fields fall back to the jsonpoll defaults, so a Config built
// by hand behaves the same as one produced by [Parse].
func NewBuilder[T any](cfg *Config) *jsonpoll.Builder[T] {
	b := jsonpoll.NewBuilder[T](cfg.URL)

	if cfg.PollInterval != 0 {
		b = b.WithPollInterval(cfg.PollInterval.Duration())
	}
	if cfg.PoolMaxIdlePerHost != 0 {
		b = b.WithPoolMaxIdlePerHost(cfg.PoolMaxIdlePerHost)
	}
	if cfg.PoolIdleTimeout != 0 {
		b = b.WithPoolIdleTimeout(cfg.PoolIdleTimeout.Duration())
	}
	if cfg.RequestTimeout != 0 {
		b = b.WithRequestTimeout(cfg.RequestTimeout.Duration())
	}
	if cfg.TCPKeepalive != 0 {
		b = b.WithTCPKeepalive(cfg.TCPKeepalive.Duration())
	}

	return b
}
