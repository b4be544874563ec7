package pcfg

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a parse, as recorded by Metrics
const (
	OutcomeOK      = "ok"
	OutcomeNoParse = "no_parse"
	OutcomeTooLong = "too_long"
	OutcomeError   = "error"
)

// Metrics records parse outcomes and latencies
type Metrics struct {
	parses   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the parse metrics and registers them on registerer
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pcfg",
			Name:      "parses_total",
			Help:      "Number of parsed sentences by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pcfg",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one sentence.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
	for _, collector := range []prometheus.Collector{m.parses, m.duration} {
		if err := registerer.Register(collector); err != nil {
			return nil, errors.Wrap(err, "NewMetrics")
		}
	}
	return m, nil
}

// Observe records one parse that returned err after elapsed
func (m *Metrics) Observe(err error, elapsed time.Duration) {
	m.parses.WithLabelValues(Outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Outcome classifies the error returned by Parser.BestParse
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNoParse):
		return OutcomeNoParse
	case errors.Is(err, ErrSentenceTooLong):
		return OutcomeTooLong
	default:
		return OutcomeError
	}
}
