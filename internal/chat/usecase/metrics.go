package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by outcome.",
		},
		[]string{"status", "stage"},
	)

	chatTurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_turn_duration_seconds",
			Help:    "Chat turn duration in seconds, from user message to last fragment.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	chatFragmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_fragments_total",
			Help: "Total number of streamed response fragments.",
		},
	)
)

func init() {
	prometheus.MustRegister(chatTurnsTotal)
	prometheus.MustRegister(chatTurnDuration)
	prometheus.MustRegister(chatFragmentsTotal)
}
