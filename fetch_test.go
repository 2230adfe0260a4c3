package jsonpoll

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// slideshowDoc mirrors the httpbin.org/json sample document used
// throughout the fetch tests.
type slideshowDoc struct {
	Slideshow slideshow `json:"slideshow"`
}

type slideshow struct {
	Author string  `json:"author"`
	Date   string  `json:"date"`
	Title  string  `json:"title"`
	Slides []slide `json:"slides"`
}

type slide struct {
	Title string   `json:"title"`
	Type  string   `json:"type"`
	Items []string `json:"items,omitempty"`
}

const slideshowJSON = `{
  "slideshow": {
    "author": "Yours Truly",
    "date": "date of publication",
    "title": "Sample Slide Show",
    "slides": [
      {"title": "Wake up to WonderWidgets!", "type": "all"},
      {"title": "Overview", "type": "all", "items": ["Why widgets are great", "Who buys widgets"]}
    ]
  }
}`

// newTestPoller builds a poller against url with test-friendly settings
// and a discarding logger.
func newTestPoller[T any](t *testing.T, url string) *Poller[T] {
	t.Helper()

	poller, err := NewBuilder[T](url).
		WithLogger(testLogger()).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(poller.Close)
	return poller
}

// TestFetchOnce_DecodesPayload verifies that a well-formed JSON document is
// decoded field-for-field into the declared shape.
func TestFetchOnce_DecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(slideshowJSON))
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	doc, err := poller.FetchOnce(context.Background())
	if err != nil {
		t.Fatalf("FetchOnce() error = %v", err)
	}

	if doc.Slideshow.Author != "Yours Truly" {
		t.Errorf("author = %q, want %q", doc.Slideshow.Author, "Yours Truly")
	}
	if doc.Slideshow.Title != "Sample Slide Show" {
		t.Errorf("title = %q, want %q", doc.Slideshow.Title, "Sample Slide Show")
	}
	if len(doc.Slideshow.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(doc.Slideshow.Slides))
	}
	if doc.Slideshow.Slides[0].Title != "Wake up to WonderWidgets!" {
		t.Errorf("slide[0].title = %q", doc.Slideshow.Slides[0].Title)
	}
	if len(doc.Slideshow.Slides[1].Items) != 2 {
		t.Errorf("slide[1].items = %d, want 2", len(doc.Slideshow.Slides[1].Items))
	}
}

// TestFetchOnce_HTTPStatusError verifies that a non-2xx response is
// reported as a status-kind FetchError carrying the status code, and never
// as a decoded value.
func TestFetchOnce_HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	_, err := poller.FetchOnce(context.Background())
	if err == nil {
		t.Fatal("FetchOnce() error = nil, want status error")
	}

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorStatus {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorStatus)
	}
	if ferr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", ferr.StatusCode, http.StatusNotFound)
	}
}

// TestFetchOnce_StatusErrorDiscardsBody verifies that the response body of
// a non-2xx response is discarded, even when it is parseable JSON.
func TestFetchOnce_StatusErrorDiscardsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "try later"}`))
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	_, err := poller.FetchOnce(context.Background())

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorStatus {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorStatus)
	}
	if ferr.Err != nil {
		t.Errorf("Err = %v, want nil (body is discarded on status failures)", ferr.Err)
	}
}

// TestFetchOnce_InvalidJSON verifies that a non-JSON body is reported as a
// decode-kind FetchError.
func TestFetchOnce_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>not json</body></html>"))
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	_, err := poller.FetchOnce(context.Background())

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorDecode {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorDecode)
	}
	if ferr.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", ferr.StatusCode, http.StatusOK)
	}
}

// TestFetchOnce_StructuralMismatch verifies that valid JSON whose structure
// does not match T is a decode failure, not a distinct category.
func TestFetchOnce_StructuralMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slideshow": "not an object"}`))
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	_, err := poller.FetchOnce(context.Background())

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorDecode {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorDecode)
	}
}

// TestFetchOnce_TransportError verifies that an unreachable endpoint is
// reported as a transport-kind FetchError with no status code.
func TestFetchOnce_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing is listening any more

	poller := newTestPoller[slideshowDoc](t, url)

	_, err := poller.FetchOnce(context.Background())

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorTransport {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorTransport)
	}
	if ferr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 (no response received)", ferr.StatusCode)
	}
}

// TestFetchOnce_RequestTimeout verifies that a request exceeding the
// configured deadline is treated as a transport failure.
func TestFetchOnce_RequestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	poller, err := NewBuilder[slideshowDoc](server.URL).
		WithRequestTimeout(50 * time.Millisecond).
		WithLogger(testLogger()).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer poller.Close()

	start := time.Now()
	_, err = poller.FetchOnce(context.Background())
	elapsed := time.Since(start)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorTransport {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorTransport)
	}
	if elapsed >= 400*time.Millisecond {
		t.Errorf("FetchOnce() took %v, expected the 50ms deadline to cut it short", elapsed)
	}
}

// TestFetchOnce_SingleAttempt verifies that one call means exactly one
// request, failure or not.
func TestFetchOnce_SingleAttempt(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	if _, err := poller.FetchOnce(context.Background()); err == nil {
		t.Fatal("FetchOnce() error = nil, want status error")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("server saw %d requests, want exactly 1 (no retries)", got)
	}
}

// TestFetchOnce_ContextCancelled verifies the caller's context bounds the
// fetch in addition to the configured request timeout.
func TestFetchOnce_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	poller := newTestPoller[slideshowDoc](t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := poller.FetchOnce(ctx)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if ferr.Kind != FetchErrorTransport {
		t.Errorf("Kind = %q, want %q", ferr.Kind, FetchErrorTransport)
	}
}
