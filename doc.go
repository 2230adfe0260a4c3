// Package jsonpoll provides a generic, type-parameterized periodic poller
// for JSON HTTP endpoints.
//
// A [Poller] repeatedly issues a GET request to a single URL, decodes the
// response body as JSON into a caller-specified type T, and hands each
// decoded value (plus the measured round-trip latency) to a caller-supplied
// handler. It packages the connection-pool tuning, timeout handling, and
// tick-skipping semantics that every "fetch this JSON endpoint on a
// schedule" loop otherwise re-derives.
//
// # Quick Start
//
// Build a poller with the fluent builder and run it until interrupted:
//
//	type Quote struct {
//	    Symbol string  `json:"symbol"`
//	    Price  float64 `json:"price"`
//	}
//
//	poller, err := jsonpoll.NewBuilder[Quote]("https://api.example.com/quote").
//	    WithPollInterval(time.Second).
//	    Build()
//	if err != nil {
//	    slog.Error("failed to build poller", "error", err)
//	    os.Exit(1)
//	}
//	defer poller.Close()
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	poller.Start(ctx, func(q Quote, elapsed time.Duration) {
//	    slog.Info("quote", "symbol", q.Symbol, "price", q.Price, "latency", elapsed)
//	})
//
// A single fetch without the loop is available via [Poller.FetchOnce].
//
// # Configuration
//
// The builder accumulates optional overrides over the package defaults
// ([DefaultPollInterval], [DefaultPoolMaxIdlePerHost], [DefaultPoolIdleTimeout],
// [DefaultRequestTimeout], [DefaultTCPKeepalive]) and bakes them into an
// immutable [Poller]. Reconfiguration means building a new poller.
//
//	poller, err := jsonpoll.NewBuilder[Quote](url).
//	    WithPollInterval(250 * time.Millisecond).
//	    WithRequestTimeout(2 * time.Second).
//	    WithPoolMaxIdlePerHost(2).
//	    WithLogger(logger).
//	    Build()
//
// The builder performs no bounds checking: a zero or very aggressive
// interval is accepted and will load the target accordingly. Malformed
// URLs are not rejected at build time; they surface as fetch failures.
//
// # Error Handling
//
// All fetch failures are reported as a single *[FetchError] category with an
// internal [FetchErrorKind] (transport, HTTP status, or JSON decode). Inside
// [Poller.Start] every fetch failure is logged and recovered; the loop simply
// tries again on the next tick. [Poller.FetchOnce] surfaces the error to the
// caller with no recovery.
//
// # Architecture
//
// The module consists of:
//
//   - jsonpoll (this package): builder, poller, fetch, and the timed loop
//   - internal/httpclient: tuned net/http client construction
//   - metrics: Prometheus implementation of the [Metrics] interface
//   - config: YAML configuration for standalone/CLI use
//   - cmd/jsonpoll: standalone CLI (watch, fetch, validate)
//
// The internal packages are not part of the public API and may change
// without notice.
package jsonpoll
