package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "access",
	Subsystem: "engine",
	Name:      "decisions_total",
	Help:      "Total number of authorization decisions broken down by gate, subject role and result.",
}, []string{"gate", "subject", "result"})

func recordDecision(gate string, id *Identity, allowed bool) {
	subject := "anonymous"
	if id != nil {
		subject = string(id.Role)
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	decisionsTotal.With(prometheus.Labels{
		"gate":    gate,
		"subject": subject,
		"result":  result,
	}).Inc()
}
