package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	assignmentCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guardops",
			Name:      "assignment_created_total",
			Help:      "Count of guard assignments created.",
		},
	)

	assignmentClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardops",
			Name:      "assignment_closed_total",
			Help:      "Count of guard assignments closed by reason.",
		},
		[]string{"reason"},
	)

	cellsPainted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guardops",
			Name:      "schedule_cells_painted_total",
			Help:      "Count of schedule cells written by series painting.",
		},
	)

	extraShiftGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guardops",
			Name:      "extra_shift_generated_total",
			Help:      "Count of extra shifts derived from replacements.",
		},
	)

	extraShiftRetracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guardops",
			Name:      "extra_shift_retracted_total",
			Help:      "Count of pending extra shifts deleted after schedule edits.",
		},
	)

	extraShiftDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardops",
			Name:      "extra_shift_decision_total",
			Help:      "Count of approval lifecycle decisions over extra shifts.",
		},
		[]string{"decision"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			assignmentCreated, assignmentClosed, cellsPainted,
			extraShiftGenerated, extraShiftRetracted, extraShiftDecision,
		)
	})
}

func IncAssignmentCreated() {
	assignmentCreated.Inc()
}

func IncAssignmentClosed(reason string) {
	assignmentClosed.WithLabelValues(reason).Inc()
}

func AddCellsPainted(n int) {
	cellsPainted.Add(float64(n))
}

func IncExtraShiftGenerated() {
	extraShiftGenerated.Inc()
}

func IncExtraShiftRetracted() {
	extraShiftRetracted.Inc()
}

func IncExtraShiftDecision(decision string) {
	extraShiftDecision.WithLabelValues(decision).Inc()
}
