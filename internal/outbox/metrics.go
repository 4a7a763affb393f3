package outbox

import "github.com/prometheus/client_golang/prometheus"

var deliveredCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "workoutlog",
	Subsystem: "outbox",
	Name:      "events_delivered_total",
	Help:      "Number of change events written to Kafka, labeled by event type.",
}, []string{"event_type"})

func init() {
	prometheus.MustRegister(deliveredCounter)
}
