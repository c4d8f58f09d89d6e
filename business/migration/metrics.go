package migration

import (
	"github.com/prometheus/client_golang/prometheus"
)

var MigrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guest_migrations_total",
		Help: "Count of guest data migrations by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(MigrationsTotal)
}
