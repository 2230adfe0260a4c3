// Package httpclient constructs the tuned net/http client a poller owns.
//
// The poller's pool, timeout, and keepalive settings are baked into the
// returned client at construction; nothing is re-read per request.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

const (
	dialTimeout         = 30 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// Config carries the connection pool and timeout settings for a client.
// Values are used as-is; defaulting happens in the builder layer.
type Config struct {
	// PoolMaxIdlePerHost caps idle pooled connections to the target host.
	PoolMaxIdlePerHost int

	// PoolIdleTimeout is how long an idle pooled connection is kept.
	PoolIdleTimeout time.Duration

	// RequestTimeout is the whole-request deadline applied by the client.
	RequestTimeout time.Duration

	// TCPKeepalive is the keepalive probe interval on the socket.
	TCPKeepalive time.Duration
}

// New builds an *http.Client with an explicit [http.Transport] configured
// from cfg. The client targets a single host, so the total idle pool cap
// equals the per-host cap. No network I/O happens here; only the pool's
// internal structures are allocated.
func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: cfg.TCPKeepalive,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        cfg.PoolMaxIdlePerHost,
		MaxIdleConnsPerHost: cfg.PoolMaxIdlePerHost,
		IdleConnTimeout:     cfg.PoolIdleTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		DisableKeepAlives:   false, // explicitly enable connection reuse
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}
}
