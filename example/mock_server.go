package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

// StartMockJSONServer runs a mock endpoint serving the httpbin-style
// slideshow document. Roughly every fourth request returns a 500 so the
// demo shows the poller recovering on the next tick.
// Call this in a goroutine before building the poller.
func StartMockJSONServer(addr string) {
	var requests atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		// simulate small latency variance
		time.Sleep(time.Duration(10+rand.Intn(40)) * time.Millisecond)

		if requests.Add(1)%4 == 0 {
			http.Error(w, "simulated outage", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		doc := slideshowResponse{
			Slideshow: Slideshow{
				Author: "Yours Truly",
				Date:   "date of publication",
				Title:  "Sample Slide Show",
				Slides: []Slide{
					{Title: "Wake up to WonderWidgets!", Type: "all"},
					{
						Title: "Overview",
						Type:  "all",
						Items: []string{
							"Why <em>WonderWidgets</em> are great",
							"Who <em>buys</em> WonderWidgets",
						},
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
