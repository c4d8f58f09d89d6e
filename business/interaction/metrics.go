package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReactionTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_toggles_total",
			Help: "Count of like/bookmark toggles by action and resulting state.",
		},
		[]string{"action", "state"},
	)

	UserActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_actions_total",
			Help: "Count of tracked user actions by action type.",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(ReactionTogglesTotal, UserActionsTotal)
}
