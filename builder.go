package jsonpoll

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/jsonpoll/internal/httpclient"
)

// Default values applied by [NewBuilder]. Each can be overridden with the
// corresponding builder method before calling [Builder.Build].
const (
	// DefaultPollInterval is the default time between fetch attempts.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultPoolMaxIdlePerHost is the default cap on idle pooled
	// connections to the target host.
	DefaultPoolMaxIdlePerHost = 1

	// DefaultPoolIdleTimeout is how long an idle pooled connection is
	// kept before being closed.
	DefaultPoolIdleTimeout = 90 * time.Second

	// DefaultRequestTimeout is the per-request deadline. The whole
	// request, response headers and body included, must complete within
	// this window.
	DefaultRequestTimeout = 1000 * time.Millisecond

	// DefaultTCPKeepalive is the keepalive probe interval on the
	// underlying socket.
	DefaultTCPKeepalive = 60 * time.Second
)

// ErrURLRequired is returned by [Builder.Build] when the builder was
// created with an empty URL.
var ErrURLRequired = errors.New("target URL is required")

// Builder accumulates optional overrides over the package defaults and
// materializes an immutable [Poller] via [Builder.Build].
//
// Builder methods return the builder for chaining:
//
//	poller, err := jsonpoll.NewBuilder[Payload](url).
//	    WithPollInterval(time.Second).
//	    WithRequestTimeout(2 * time.Second).
//	    Build()
//
// No bounds checking is performed on overrides: zero or extreme values are
// accepted as-is and the loop ticks accordingly. That is caller
// responsibility, not validated here.
type Builder[T any] struct {
	url                string
	pollInterval       time.Duration
	poolMaxIdlePerHost int
	poolIdleTimeout    time.Duration
	requestTimeout     time.Duration
	tcpKeepalive       time.Duration
	logger             *slog.Logger
	metrics            Metrics
}

// NewBuilder creates a [Builder] for payload type T targeting the given URL.
//
// The URL is the only required field and is not validated for
// well-formedness; a malformed URL surfaces as a fetch failure, not a build
// failure. All other settings start at the package defaults.
func NewBuilder[T any](url string) *Builder[T] {
	return &Builder[T]{
		url:                url,
		pollInterval:       DefaultPollInterval,
		poolMaxIdlePerHost: DefaultPoolMaxIdlePerHost,
		poolIdleTimeout:    DefaultPoolIdleTimeout,
		requestTimeout:     DefaultRequestTimeout,
		tcpKeepalive:       DefaultTCPKeepalive,
	}
}

// WithPollInterval sets the time between fetch attempts.
// Defaults to [DefaultPollInterval].
func (b *Builder[T]) WithPollInterval(d time.Duration) *Builder[T] {
	b.pollInterval = d
	return b
}

// WithPoolMaxIdlePerHost sets the cap on idle pooled connections kept to
// the target host. Defaults to [DefaultPoolMaxIdlePerHost].
func (b *Builder[T]) WithPoolMaxIdlePerHost(n int) *Builder[T] {
	b.poolMaxIdlePerHost = n
	return b
}

// WithPoolIdleTimeout sets how long an idle pooled connection is kept
// before being closed. Defaults to [DefaultPoolIdleTimeout].
func (b *Builder[T]) WithPoolIdleTimeout(d time.Duration) *Builder[T] {
	b.poolIdleTimeout = d
	return b
}

// WithRequestTimeout sets the per-request deadline. A request that does not
// complete within this window is reported as a transport failure.
// Defaults to [DefaultRequestTimeout].
func (b *Builder[T]) WithRequestTimeout(d time.Duration) *Builder[T] {
	b.requestTimeout = d
	return b
}

// WithTCPKeepalive sets the keepalive probe interval on the underlying
// socket. Defaults to [DefaultTCPKeepalive].
func (b *Builder[T]) WithTCPKeepalive(d time.Duration) *Builder[T] {
	b.tcpKeepalive = d
	return b
}

// WithLogger sets the [slog.Logger] used for fetch failures and handler
// panic reports. Defaults to [slog.Default].
func (b *Builder[T]) WithLogger(logger *slog.Logger) *Builder[T] {
	b.logger = logger
	return b
}

// WithMetrics sets the [Metrics] sink the poller reports fetch outcomes
// and durations to. Defaults to a no-op implementation.
func (b *Builder[T]) WithMetrics(m Metrics) *Builder[T] {
	b.metrics = m
	return b
}

// Build constructs the underlying HTTP client with the accumulated pool,
// timeout, and keepalive settings and returns a ready [Poller].
//
// Build performs no network I/O; only the client's internal pool structures
// are allocated. Returns [ErrURLRequired] if the URL is empty. The returned
// poller's configuration is immutable for its lifetime; reconfiguration
// requires building a new poller.
func (b *Builder[T]) Build() (*Poller[T], error) {
	if b.url == "" {
		return nil, ErrURLRequired
	}

	client := httpclient.New(httpclient.Config{
		PoolMaxIdlePerHost: b.poolMaxIdlePerHost,
		PoolIdleTimeout:    b.poolIdleTimeout,
		RequestTimeout:     b.requestTimeout,
		TCPKeepalive:       b.tcpKeepalive,
	})

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := b.metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Poller[T]{
		client:       client,
		url:          b.url,
		pollInterval: b.pollInterval,
		logger:       logger,
		metrics:      metrics,
	}, nil
}
