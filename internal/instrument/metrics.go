// Package instrument plugs Prometheus metrics and zerolog tracing into an
// emitter through its Reporter and Executor extension points.
package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"eventist/pkg/emitter"
)

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventist",
			Subsystem: "emitter",
			Name:      "dispatch_total",
			Help:      "Total number of completed dispatches",
		},
		[]string{"event"},
	)

	handlersInvoked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventist",
			Subsystem: "emitter",
			Name:      "handlers_invoked_total",
			Help:      "Total number of handler invocations reported by dispatches",
		},
		[]string{"event"},
	)

	unansweredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventist",
			Subsystem: "emitter",
			Name:      "unanswered_total",
			Help:      "Dispatches that reached no handler",
		},
		[]string{"event"},
	)

	handlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eventist",
			Subsystem: "emitter",
			Name:      "handler_duration_seconds",
			Help:      "Duration of handler calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	handlerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventist",
			Subsystem: "emitter",
			Name:      "handler_errors_total",
			Help:      "Handler calls that returned an error",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(dispatchTotal, handlersInvoked, unansweredTotal, handlerDuration, handlerErrors)
}

// eventLabel keeps the label non-empty for dispatches whose event was not resolved.
func eventLabel(event string) string {
	if event == "" {
		return "unresolved"
	}
	return event
}

// Reporter counts dispatches per event and then calls next, if any.
func Reporter(next emitter.ReporterFunc) emitter.ReporterFunc {
	return func(event string, invoked int, args []any) {
		label := eventLabel(event)
		dispatchTotal.WithLabelValues(label).Inc()
		handlersInvoked.WithLabelValues(label).Add(float64(invoked))
		if invoked == 0 {
			unansweredTotal.WithLabelValues(label).Inc()
		}
		if next != nil {
			next(event, invoked, args)
		}
	}
}

// Executor times every handler call made through next and counts failures.
// A nil next means emitter.Execute.
func Executor(next emitter.Executor) emitter.Executor {
	if next == nil {
		next = emitter.Execute
	}
	return func(en emitter.Entry, args []any) (any, error) {
		label := eventLabel(en.Event)
		start := time.Now()
		res, err := next(en, args)
		handlerDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err != nil {
			handlerErrors.WithLabelValues(label).Inc()
		}
		return res, err
	}
}
