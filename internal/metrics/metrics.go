package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring processor traffic and webhook outcomes
var (
	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paypal_orders_created_total",
			Help: "Total number of orders created at the processor",
		},
	)

	CapturesRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paypal_captures_recorded_total",
			Help: "Total number of capture rows recorded in the ledger",
		},
	)

	RefundsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paypal_refunds_recorded_total",
			Help: "Total number of refund rows recorded in the ledger",
		},
	)

	WebhookEventsReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paypal_webhook_events_received_total",
			Help: "Total number of webhook deliveries received",
		},
	)

	WebhookEventsAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paypal_webhook_events_accepted_total",
			Help: "Total number of signature-valid webhook deliveries",
		},
	)

	WebhookEventsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paypal_webhook_events_rejected_total",
			Help: "Total number of webhook deliveries failing signature verification",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(OrdersCreatedTotal)
	prometheus.MustRegister(CapturesRecordedTotal)
	prometheus.MustRegister(RefundsRecordedTotal)
	prometheus.MustRegister(WebhookEventsReceivedTotal)
	prometheus.MustRegister(WebhookEventsAcceptedTotal)
	prometheus.MustRegister(WebhookEventsRejectedTotal)
}
