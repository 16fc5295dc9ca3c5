// Package metrics registers the engine's Prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesRecorded counts expenses written to the ledger, including
	// installment rows and materialized subscriptions.
	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savie_expenses_recorded_total",
		Help: "Number of expense records written to the ledger.",
	})

	// Classifications counts category decisions by source: keyword,
	// external or fallback.
	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savie_classifications_total",
		Help: "Number of category classifications by deciding strategy.",
	}, []string{"source"})

	// PlansMaterialized counts recurring plans turned into expenses by the
	// scheduler.
	PlansMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savie_recurring_materialized_total",
		Help: "Number of recurring plan occurrences materialized into expenses.",
	})

	// ChallengesCompleted counts challenges swept into the completed state.
	ChallengesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savie_challenges_completed_total",
		Help: "Number of no-spend challenges completed.",
	})

	// ChallengesFailed counts challenges failed by a violating expense.
	ChallengesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savie_challenges_failed_total",
		Help: "Number of no-spend challenges failed by a violation.",
	})

	// BillsCreated counts shared bills opened.
	BillsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savie_shared_bills_created_total",
		Help: "Number of shared bills created.",
	})
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
