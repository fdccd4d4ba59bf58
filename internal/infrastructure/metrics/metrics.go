package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namazbot_turns_total",
			Help: "Total number of conversational turns by intent",
		},
		[]string{"intent"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "namazbot_turn_duration_seconds",
			Help:    "Duration of conversational turns",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20},
		},
		[]string{"stage"},
	)

	ClassifierFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namazbot_classifier_fallbacks_total",
			Help: "Classifications that fell back to the general intent",
		},
		[]string{"reason"},
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namazbot_deliveries_total",
			Help: "Outbound scheduled messages by job and outcome",
		},
		[]string{"job", "status"},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namazbot_events_total",
			Help: "Bot events by type and success",
		},
		[]string{"event_type", "success"},
	)

	WebhookDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "namazbot_webhook_duplicates_total",
			Help: "Inbound messages dropped as redeliveries",
		},
	)
)

// ObserveDelivery counts one scheduled delivery attempt
func ObserveDelivery(job string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	DeliveriesTotal.WithLabelValues(job, status).Inc()
}

// ObserveEvent counts one bot event
func ObserveEvent(eventType string, success bool) {
	EventsTotal.WithLabelValues(eventType, strconv.FormatBool(success)).Inc()
}
