package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JiraEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jira_events_total",
		Help: "Inbound Jira webhook events by classification result.",
	}, []string{"result"}) // relevant | ignored

	LarkDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lark_deliveries_total",
		Help: "Outbound Lark delivery attempts.",
	}, []string{"outcome", "mode"}) // ok|failed, mention|plain
)
