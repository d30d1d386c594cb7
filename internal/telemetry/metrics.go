package telemetry

import "github.com/prometheus/client_golang/prometheus"

// PaymentOutcomes counts terminal payment outcomes by label
// (authorized, denied, canceled).
var PaymentOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_outcomes_total",
		Help: "Count of terminal payment processing outcomes.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(PaymentOutcomes)
}
