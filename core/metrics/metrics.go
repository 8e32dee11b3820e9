package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairtime_suggestions_generated_total",
		Help: "Suggestions emitted by the generator, micro suggestions included.",
	})

	SlotTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairtime_slot_transitions_total",
		Help: "Slot lifecycle transitions by action.",
	}, []string{"action"})

	RemindersScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairtime_reminders_scheduled_total",
		Help: "Reminder scheduling attempts by outcome.",
	}, []string{"outcome"})

	ImportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairtime_calendar_import_failures_total",
		Help: "External calendar fetches that degraded to an empty result.",
	}, []string{"source"})
)
