package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		intakesStartedTotal,
		intakesCompletedTotal,
		intakesCancelledTotal,
		genderRepromptsTotal,
	)
}

var (
	intakesStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intakes_started_total",
			Help: "Registration conversations entered (including restarts).",
		},
	)

	intakesCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intakes_completed_total",
			Help: "Registration conversations finished, by destination worksheet and sink outcome.",
		},
		[]string{"worksheet", "outcome"}, // worksheet="male"|"female", outcome="written"|"failed"
	)

	intakesCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intakes_cancelled_total",
			Help: "Registration conversations discarded via /cancel.",
		},
	)

	genderRepromptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gender_reprompts_total",
			Help: "Answers at the gender step that matched neither accepted label.",
		},
	)
)

func IncIntakeStarted()   { intakesStartedTotal.Inc() }
func IncIntakeCancelled() { intakesCancelledTotal.Inc() }
func IncGenderReprompt()  { genderRepromptsTotal.Inc() }

func IncIntakeCompleted(worksheet, outcome string) {
	intakesCompletedTotal.WithLabelValues(norm(worksheet), norm(outcome)).Inc()
}
