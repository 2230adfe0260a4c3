package jsonpoll

// Metric names and label values emitted by the poller. The [Metrics]
// implementation decides how (or whether) to materialize them.
const (
	// MetricFetchTotal counts fetch attempts, labelled by outcome:
	// "success" or a [FetchErrorKind] string.
	MetricFetchTotal = "jsonpoll_fetch_total"

	// MetricFetchDurationSeconds observes the wall-clock duration of
	// each fetch attempt in seconds.
	MetricFetchDurationSeconds = "jsonpoll_fetch_duration_seconds"

	// OutcomeSuccess is the outcome label value for a successful fetch.
	OutcomeSuccess = "success"
)

// Metrics is the sink the poller reports instrumentation to.
//
// Labels are alternating key-value pairs: ("outcome", "success"). The
// default implementation discards everything; a Prometheus-backed
// implementation is provided by the metrics subpackage.
type Metrics interface {
	// IncrementCounter adds one to the named counter.
	IncrementCounter(name string, labels ...string)

	// ObserveHistogram records a value in the named histogram.
	ObserveHistogram(name string, value float64, labels ...string)
}

type noopMetrics struct{}

func (noopMetrics) IncrementCounter(name string, labels ...string)                {}
func (noopMetrics) ObserveHistogram(name string, value float64, labels ...string) {}
