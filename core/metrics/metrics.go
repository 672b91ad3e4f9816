// Package metrics exposes Prometheus counters for the bot and serves them over HTTP.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "factbot"

// Recorder counts conversation, fact and delivery events. It satisfies the
// conversation observer contract and is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	factsServed    *prometheus.CounterVec
	factFallbacks  prometheus.Counter
	sessionsStart  prometheus.Counter
	sessionsEnded  *prometheus.CounterVec
	sessionsActive prometheus.Gauge
	messagesSent   *prometheus.CounterVec

	served    atomic.Uint64
	fallbacks atomic.Uint64
	started   atomic.Uint64
}

// NewRecorder registers the bot collectors plus the Go runtime and process
// collectors on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		factsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facts_served_total",
			Help:      "Facts sent in reply to a category choice.",
		}, []string{"category"}),
		factFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fact_fallbacks_total",
			Help:      "Choices that did not match a category.",
		}),
		sessionsStart: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Conversations started with /start.",
		}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Conversations ended, by reason.",
		}, []string{"reason"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Conversations currently choosing a category.",
		}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Outbound Telegram calls, by final status.",
		}, []string{"action", "status"}),
	}
	r.registry.MustRegister(
		r.factsServed,
		r.factFallbacks,
		r.sessionsStart,
		r.sessionsEnded,
		r.sessionsActive,
		r.messagesSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// FactServed counts a fact delivered for category.
func (r *Recorder) FactServed(category string) {
	r.factsServed.WithLabelValues(category).Inc()
	r.served.Add(1)
}

// FactFallback counts an unrecognised category.
func (r *Recorder) FactFallback() {
	r.factFallbacks.Inc()
	r.fallbacks.Add(1)
}

// SessionStarted counts a new conversation.
func (r *Recorder) SessionStarted() {
	r.sessionsStart.Inc()
	r.sessionsActive.Inc()
	r.started.Add(1)
}

// SessionEnded counts a finished conversation.
func (r *Recorder) SessionEnded(reason string) {
	r.sessionsEnded.WithLabelValues(reason).Inc()
	r.sessionsActive.Dec()
}

// MessageSent records the final outcome of an outbound call. Its signature
// matches the sender dispatcher's OnResult hook.
func (r *Recorder) MessageSent(action string, err error) {
	status := "ok"
	if err != nil {
		status = "fail"
	}
	r.messagesSent.WithLabelValues(action, status).Inc()
}

// Totals is a point-in-time view of the lifetime counters.
type Totals struct {
	Served    uint64
	Fallbacks uint64
	Started   uint64
}

// Totals returns the lifetime counters.
func (r *Recorder) Totals() Totals {
	return Totals{
		Served:    r.served.Load(),
		Fallbacks: r.fallbacks.Load(),
		Started:   r.started.Load(),
	}
}
