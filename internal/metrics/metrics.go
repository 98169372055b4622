// Package metrics records listing fetch and cache activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch kinds
const (
	KindPrimary  = "primary"
	KindPrefetch = "prefetch"
)

// Fetch outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomeStale     = "stale"
)

// Recorder receives coordinator measurements
type Recorder interface {
	ObserveFetch(kind, outcome string, elapsed time.Duration)
	CacheHit()
	CacheMiss()
}

// Nop discards everything
type Nop struct{}

func (Nop) ObserveFetch(string, string, time.Duration) {}
func (Nop) CacheHit()                                  {}
func (Nop) CacheMiss()                                 {}

// Prometheus is a Recorder backed by prometheus collectors
type Prometheus struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listingview",
			Name:      "fetches_total",
			Help:      "Listing fetches by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "listingview",
			Name:      "fetch_duration_seconds",
			Help:      "Listing fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listingview",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{p.fetches, p.duration, p.cache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) ObserveFetch(kind, outcome string, elapsed time.Duration) {
	p.fetches.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeError {
		p.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

func (p *Prometheus) CacheHit()  { p.cache.WithLabelValues("hit").Inc() }
func (p *Prometheus) CacheMiss() { p.cache.WithLabelValues("miss").Inc() }
