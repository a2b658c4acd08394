package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancyguard_decisions_total",
	Help: "Moderation decisions taken, by action and violation",
}, []string{"action", "violation"})

var warningsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancyguard_warnings_total",
	Help: "Warnings recorded, by source",
}, []string{"source"})

var escalationsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancyguard_escalations_total",
	Help: "Warning escalations, by action",
}, []string{"action"})

var actionErrorsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancyguard_action_errors_total",
	Help: "Failed chat actions, by action and error kind",
}, []string{"action", "kind"})

var checkerPanicsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancyguard_checker_panics_total",
	Help: "Checkers that panicked while evaluating a message",
}, []string{"checker"})

var messagesEvaluated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pancyguard_messages_evaluated_total",
	Help: "Messages run through the moderation pipeline",
})

var evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "pancyguard_handle_duration_seconds",
	Help:    "Time to evaluate a message and apply its side effects",
	Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
})
