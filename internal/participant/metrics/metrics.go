package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ParticipantsCreated prometheus.Counter
	ParticipantsUpdated prometheus.Counter
	ParticipantsDeleted prometheus.Counter
	StoreDuration       *prometheus.HistogramVec
}

// New registers the participant collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ParticipantsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "golfbot_participants_created_total",
			Help: "Total number of participants created",
		}),
		ParticipantsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "golfbot_participants_updated_total",
			Help: "Total number of participants updated",
		}),
		ParticipantsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "golfbot_participants_deleted_total",
			Help: "Total number of delete requests that reached the store",
		}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "golfbot_store_operation_seconds",
			Help:    "Duration of participant store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.ParticipantsCreated.Inc()
}

func (m *Metrics) IncrementUpdated() {
	m.ParticipantsUpdated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.ParticipantsDeleted.Inc()
}

func (m *Metrics) ObserveStore(operation string, start time.Time) {
	m.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
