// Package metrics exposes the service's Prometheus collectors and the
// /metrics handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labstack/echo/v4"
)

var (
	// GateDecisions counts edge-gate outcomes by decision ("allow" or
	// "redirect").
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admobility",
		Name:      "gate_decisions_total",
		Help:      "Edge gate decisions by outcome.",
	}, []string{"decision"})

	// SignIns counts credential checks by result ("ok" or "failed").
	SignIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admobility",
		Name:      "signins_total",
		Help:      "Sign-in attempts by result.",
	}, []string{"result"})

	// Registrations counts account registrations by role and result.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admobility",
		Name:      "registrations_total",
		Help:      "Account registrations by role and result.",
	}, []string{"role", "result"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
