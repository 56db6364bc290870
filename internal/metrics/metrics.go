// Package metrics exposes the engine's prometheus collectors and the event
// handlers that keep them current.
package metrics

import (
	"hash/fnv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"eloqueue/internal/modules/events"
	"eloqueue/internal/modules/matchmaker"
)

// Collectors groups the engine's metrics.
type Collectors struct {
	QueueSize       prometheus.Gauge
	RoundsStarted   prometheus.Counter
	RoundsCompleted prometheus.Counter
	Results         prometheus.Counter
	HandlerErrors   prometheus.Counter
}

// NewCollectors registers the engine collectors on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		QueueSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eloqueue_queue_size",
			Help: "Teams currently waiting in the queue.",
		}),
		RoundsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "eloqueue_rounds_started_total",
			Help: "Rounds formed from the queue.",
		}),
		RoundsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "eloqueue_rounds_completed_total",
			Help: "Rounds in which every match reported.",
		}),
		Results: factory.NewCounter(prometheus.CounterOpts{
			Name: "eloqueue_results_total",
			Help: "Reported match results.",
		}),
		HandlerErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "eloqueue_handler_errors_total",
			Help: "Errors returned by event handlers during dispatch.",
		}),
	}
}

// observer is a requeueing handler that forwards every event of its kind
// to a collector update.
type observer struct {
	kind    events.Kind
	name    string
	observe func(ctx events.Context)
}

func (o *observer) Kind() events.Kind { return o.kind }

func (o *observer) Tag() int64 {
	h := fnv.New64a()
	h.Write([]byte(o.name))
	return int64(h.Sum64())
}

func (o *observer) IsReady(events.Context) bool { return true }
func (o *observer) Requeue() bool               { return true }

func (o *observer) Handle(ctx events.Context) error {
	o.observe(ctx)
	return nil
}

// Handlers returns one observer per event kind, updating c on dispatch.
func Handlers(c *Collectors) []events.Handler {
	queueSize := func(ctx events.Context) {
		if queue, ok := ctx.Source.(*matchmaker.QueueContext); ok {
			c.QueueSize.Set(float64(queue.Len()))
		}
	}
	return []events.Handler{
		&observer{kind: events.KindQueue, name: "MetricsQueueObserver", observe: queueSize},
		&observer{kind: events.KindDequeue, name: "MetricsDequeueObserver", observe: queueSize},
		&observer{kind: events.KindResult, name: "MetricsResultObserver", observe: func(events.Context) {
			c.Results.Inc()
		}},
		&observer{kind: events.KindRoundStart, name: "MetricsRoundStartObserver", observe: func(events.Context) {
			c.RoundsStarted.Inc()
			c.QueueSize.Set(0)
		}},
		&observer{kind: events.KindRoundEnd, name: "MetricsRoundEndObserver", observe: func(events.Context) {
			c.RoundsCompleted.Inc()
		}},
	}
}
