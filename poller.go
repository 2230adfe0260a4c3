package jsonpoll

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

const maxResponseBodySize = 1 << 20 // 1MB

// Handler receives each successfully fetched value together with the
// wall-clock time the fetch took. It runs synchronously inside the polling
// loop: the next tick is not awaited until the handler returns.
type Handler[T any] func(value T, elapsed time.Duration)

// Poller periodically fetches a single JSON endpoint and decodes each
// response into type T.
//
// A Poller owns one HTTP client (and its connection pool) plus the target
// URL and poll interval, all baked in at build time via [Builder.Build].
// It is immutable after construction. Independent Pollers may run
// concurrently without interference since each owns its own client.
type Poller[T any] struct {
	client       *http.Client
	url          string
	pollInterval time.Duration
	logger       *slog.Logger
	metrics      Metrics
}

// URL returns the target URL the poller fetches.
func (p *Poller[T]) URL() string {
	return p.url
}

// PollInterval returns the configured time between fetch attempts.
func (p *Poller[T]) PollInterval() time.Duration {
	return p.pollInterval
}

// FetchOnce performs exactly one GET against the configured URL and decodes
// the body as T.
//
// Strictly one attempt, one outcome: no retries are performed. On failure
// the error is a *[FetchError]; transport, HTTP-status, and decode failures
// are surfaced identically. The context bounds the request in addition to
// the configured request timeout.
func (p *Poller[T]) FetchOnce(ctx context.Context) (T, error) {
	return p.fetch(ctx)
}

// fetch is the single-attempt GET-and-decode shared by FetchOnce and the
// polling loop. Every failure is logged here, at the point of failure.
func (p *Poller[T]) fetch(ctx context.Context) (T, error) {
	var zero T
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return zero, p.fail(start, &FetchError{
			Kind: FetchErrorTransport,
			URL:  p.url,
			Err:  fmt.Errorf("failed to create request: %w", err),
		})
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return zero, p.fail(start, &FetchError{
			Kind: FetchErrorTransport,
			URL:  p.url,
			Err:  fmt.Errorf("request failed: %w", err),
		})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// the body is discarded on status failures; drain a bounded
		// amount so the connection can return to the pool
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return zero, p.fail(start, &FetchError{
			Kind:       FetchErrorStatus,
			URL:        p.url,
			StatusCode: resp.StatusCode,
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return zero, p.fail(start, &FetchError{
			Kind:       FetchErrorTransport,
			URL:        p.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		})
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return zero, p.fail(start, &FetchError{
			Kind:       FetchErrorDecode,
			URL:        p.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("JSON decode failed: %w", err),
		})
	}

	p.metrics.IncrementCounter(MetricFetchTotal, "outcome", OutcomeSuccess)
	p.metrics.ObserveHistogram(MetricFetchDurationSeconds, time.Since(start).Seconds())
	return value, nil
}

// fail logs and instruments a fetch failure before returning it.
func (p *Poller[T]) fail(start time.Time, ferr *FetchError) error {
	attrs := []any{
		"url", ferr.URL,
		"kind", ferr.Kind.String(),
	}
	if ferr.StatusCode != 0 {
		attrs = append(attrs, "status_code", ferr.StatusCode)
	}
	if ferr.Err != nil {
		attrs = append(attrs, "error", ferr.Err.Error())
	}
	p.logger.Error("fetch failed", attrs...)

	p.metrics.IncrementCounter(MetricFetchTotal, "outcome", ferr.Kind.String())
	p.metrics.ObserveHistogram(MetricFetchDurationSeconds, time.Since(start).Seconds())
	return ferr
}

// Start drives the fetch on a fixed cadence until ctx is cancelled,
// invoking handler once per successful fetch.
//
// Start is a blocking call. Each cycle performs one fetch; on success the
// handler is invoked with the decoded value and the elapsed fetch time and
// runs to completion before the next tick is awaited. On failure the error
// is logged and the loop continues; a fetch failure never terminates the
// loop, and "try again next tick" is the only retry policy.
//
// Ticks that elapse while a fetch-and-dispatch cycle is still in flight are
// skipped, never queued: after a slow fetch or handler the loop waits for
// the next tick rather than firing a catch-up burst. At most one fetch is
// in flight at any instant.
//
// A nil handler is accepted; fetches still run on schedule, which keeps
// the metrics and logs flowing.
//
// Start returns when ctx is cancelled. For signal handling, use
// [signal.NotifyContext]:
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//	poller.Start(ctx, handler)
func (p *Poller[T]) Start(ctx context.Context, handler Handler[T]) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		p.fetchAndDispatch(ctx, handler)

		// drop the tick that fired while the cycle was busy, if any,
		// so overruns wait for the next tick instead of bursting
		select {
		case <-ticker.C:
		default:
		}
	}
}

// fetchAndDispatch performs one fetch and, on success, hands the value to
// the handler. Failures were already logged by fetch; the next tick is the
// implicit retry.
func (p *Poller[T]) fetchAndDispatch(ctx context.Context, handler Handler[T]) {
	start := time.Now()
	value, err := p.fetch(ctx)
	if err != nil {
		return
	}
	elapsed := time.Since(start)

	if handler == nil {
		return
	}
	p.invokeHandlerSafe(handler, value, elapsed)
}

// invokeHandlerSafe calls the handler with panic recovery. A panicking
// handler is logged with a correlation ID and full stack trace and does
// not stop the loop.
func (p *Poller[T]) invokeHandlerSafe(handler Handler[T], value T, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			p.logger.Error("handler panic",
				"correlation_id", correlationID,
				"url", p.url,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	handler(value, elapsed)
}

// Close closes all idle connections in the poller's connection pool.
//
// Call Close when the poller is no longer needed to release resources
// immediately rather than waiting for the idle connection timeout. Safe to
// call multiple times; the poller remains usable afterwards and new
// connections are established as needed.
func (p *Poller[T]) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.CloseIdleConnections()
}
