// Package metrics содержит коллекторы Prometheus, отдаваемые на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lanchess"

var (
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections",
		Help:      "Live transport connections counted by the session.",
	})

	Moves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moves_total",
		Help:      "Move submissions by outcome.",
	}, []string{"result"})

	Joins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "joins_total",
		Help:      "Role assignments by role.",
	}, []string{"role"})

	Resets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resets_total",
		Help:      "Board resets.",
	})

	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_finished_total",
		Help:      "Finished games by method.",
	}, []string{"method"})

	EventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_duration_seconds",
		Help:      "Time spent handling one inbound event.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	}, []string{"event"})

	DroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_messages_total",
		Help:      "Outbound frames dropped because a client send buffer was full.",
	})
)

const (
	MoveAccepted = "accepted"
	MoveRejected = "rejected"
)
