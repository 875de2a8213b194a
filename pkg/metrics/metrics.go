// Package metrics exposes the bot's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WarnsIssued counts recorded warns
	WarnsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "villager",
		Name:      "warns_issued_total",
		Help:      "Total number of warns recorded",
	})

	// WarnsRemoved counts warns deleted by moderators
	WarnsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "villager",
		Name:      "warns_removed_total",
		Help:      "Total number of warns removed by moderators",
	})

	// EscalationActions counts automatic actions by action and result
	EscalationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villager",
		Name:      "escalation_actions_total",
		Help:      "Automatic moderation actions triggered by warn escalation",
	}, []string{"action", "result"})

	// UnbansProcessed counts scheduled unbans handled by the sweeper by result
	UnbansProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villager",
		Name:      "unbans_processed_total",
		Help:      "Scheduled unbans processed by the sweeper",
	}, []string{"result"})

	// CommandsExecuted counts slash command invocations by command name
	CommandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villager",
		Name:      "commands_executed_total",
		Help:      "Slash commands executed",
	}, []string{"command"})
)

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
