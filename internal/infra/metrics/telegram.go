package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(updatesTotal, handlerErrorsTotal)
}

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Inbound updates by kind.",
		},
		[]string{"kind"}, // "command", "text", "other"
	)

	handlerErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_handler_errors_total",
			Help: "Update handlers that returned an error.",
		},
	)
)

func IncUpdate(kind string) { updatesTotal.WithLabelValues(norm(kind)).Inc() }
func IncHandlerError()      { handlerErrorsTotal.Inc() }
