package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SeqGapsTotal counts venue-B sequence gaps that forced a desync.
	SeqGapsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_stream_seq_gaps_total",
		Help: "Total number of venue-B sequence gaps that forced a market to desynced",
	})

	// EventsPublishedTotal counts aggregator events by type.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binscan_stream_events_published_total",
			Help: "Total number of aggregator events published, by event type",
		},
		[]string{"event_type"},
	)

	// DebouncedReevaluationsTotal counts reevaluations that actually ran after debounce.
	DebouncedReevaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_stream_reevaluations_total",
		Help: "Total number of debounced pair reevaluations executed",
	})
)
