package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MembershipTransitions counts applied membership events by effect.
	MembershipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizhub",
		Subsystem: "membership",
		Name:      "transitions_total",
		Help:      "The total number of applied membership events",
	}, []string{"event", "effect"})

	// MembershipRejections counts rejected membership events by kind.
	MembershipRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizhub",
		Subsystem: "membership",
		Name:      "rejections_total",
		Help:      "The total number of rejected membership events",
	}, []string{"event", "kind"})

	// ResultsSubmitted counts submitted quiz results.
	ResultsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizhub",
		Subsystem: "quiz",
		Name:      "results_total",
		Help:      "The total number of submitted quiz results",
	})

	// NotificationsCreated counts created notifications by source.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizhub",
		Subsystem: "notifications",
		Name:      "created_total",
		Help:      "The total number of created notifications",
	}, []string{"source"})

	// HTTPRequests counts served HTTP requests by method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizhub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of served HTTP requests",
	}, []string{"method", "code"})
)
