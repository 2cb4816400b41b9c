package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agri"

var (
	ClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: "client", Name: "requests_total", Help: "Outbound API requests by method and response status."},
		[]string{"method", "status"},
	)
	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: "client", Name: "token_refreshes_total", Help: "Access token refresh attempts by result."},
		[]string{"result"},
	)
	StaleResponses = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: "dashboard", Name: "stale_responses_total", Help: "Table fetch results discarded because a newer fetch was issued."},
	)
	MockAPIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: "mockapi", Name: "requests_total", Help: "Requests served by the mock API by route and status."},
		[]string{"route", "status"},
	)
)

// Refresh results
const (
	RefreshSucceeded = "success"
	RefreshFailed    = "failure"
	RefreshMissing   = "missing_token"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ClientRequests)
	reg.MustRegister(TokenRefreshes)
	reg.MustRegister(StaleResponses)
	reg.MustRegister(MockAPIRequests)
}
