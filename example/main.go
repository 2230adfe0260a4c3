package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/jsonpoll"
	"github.com/jpalmerr/jsonpoll/metrics"
)

// Slideshow matches the httpbin.org/json sample document served by the
// mock server (see mock_server.go).
type Slideshow struct {
	Author string  `json:"author"`
	Date   string  `json:"date"`
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// Slide is a single slide within a Slideshow.
type Slide struct {
	Title string   `json:"title"`
	Type  string   `json:"type"`
	Items []string `json:"items,omitempty"`
}

// slideshowResponse is the top-level document shape.
type slideshowResponse struct {
	Slideshow Slideshow `json:"slideshow"`
}

func main() {
	// start mock server (see mock_server.go)
	go StartMockJSONServer(":9999")
	time.Sleep(100 * time.Millisecond)

	// expose poller metrics at http://localhost:9090/metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	poller, err := jsonpoll.NewBuilder[slideshowResponse]("http://localhost:9999/json").
		WithPollInterval(time.Second).
		WithRequestTimeout(500 * time.Millisecond).
		WithMetrics(metrics.NewPrometheus(nil)).
		Build()
	if err != nil {
		slog.Error("failed to build poller", "error", err)
		os.Exit(1)
	}
	defer poller.Close()

	fmt.Println()
	fmt.Println("  jsonpoll demo")
	fmt.Println("  polling http://localhost:9999/json every second")
	fmt.Println("  (the mock endpoint fails roughly every fourth request")
	fmt.Println("   to show the loop recovering on the next tick)")
	fmt.Println("  metrics: http://localhost:9090/metrics")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller.Start(ctx, func(doc slideshowResponse, elapsed time.Duration) {
		slog.Info("fetched slideshow",
			"author", doc.Slideshow.Author,
			"title", doc.Slideshow.Title,
			"slides", len(doc.Slideshow.Slides),
			"latency_ms", elapsed.Milliseconds(),
		)
	})

	slog.Info("demo stopped")
}
