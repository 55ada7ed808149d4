package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memberbill_payments_total",
		Help: "Number of accepted payment transactions.",
	})

	PaymentAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memberbill_payment_amount_total",
		Help: "Total amount collected across accepted payments.",
	})

	RenewalsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberbill_renewals_processed_total",
		Help: "Renewal batch outcomes by result.",
	}, []string{"result"})

	RenewalBatchRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memberbill_renewal_batch_runs_total",
		Help: "Number of renewal batch executions.",
	})
)
