package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "darts_tournament"

// EngineMetrics records tournament lifecycle counters in Prometheus.
type EngineMetrics struct {
	tournamentsCreated   *prometheus.CounterVec
	entriesRegistered    *prometheus.CounterVec
	bracketsGenerated    *prometheus.CounterVec
	bracketEntries       *prometheus.HistogramVec
	submissionsRecorded  *prometheus.CounterVec
	matchesCompleted     *prometheus.CounterVec
	tournamentsCompleted *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)

	return &EngineMetrics{
		tournamentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tournaments_created_total",
			Help:      "Tournaments created, by format.",
		}, []string{"format"}),
		entriesRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "entries_registered_total",
			Help:      "Tournament entries created, by initial status.",
		}, []string{"status"}),
		bracketsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "brackets_generated_total",
			Help:      "Brackets or Swiss rounds generated, by format.",
		}, []string{"format"}),
		bracketEntries: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "bracket_entries",
			Help:      "Seeded entries per generated bracket.",
			Buckets:   []float64{2, 4, 8, 16, 32, 64, 128, 256, 512},
		}, []string{"format"}),
		submissionsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "score_submissions_total",
			Help:      "Score submissions recorded, by resulting status.",
		}, []string{"status"}),
		matchesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "matches_completed_total",
			Help:      "Matches completed, by tournament format.",
		}, []string{"format"}),
		tournamentsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tournaments_completed_total",
			Help:      "Tournaments completed, by format.",
		}, []string{"format"}),
	}
}

func (m *EngineMetrics) TournamentCreated(format string) {
	m.tournamentsCreated.WithLabelValues(format).Inc()
}

func (m *EngineMetrics) EntryRegistered(status string) {
	m.entriesRegistered.WithLabelValues(status).Inc()
}

func (m *EngineMetrics) BracketGenerated(format string, entries int) {
	m.bracketsGenerated.WithLabelValues(format).Inc()
	m.bracketEntries.WithLabelValues(format).Observe(float64(entries))
}

func (m *EngineMetrics) SubmissionRecorded(status string) {
	m.submissionsRecorded.WithLabelValues(status).Inc()
}

func (m *EngineMetrics) MatchCompleted(format string) {
	m.matchesCompleted.WithLabelValues(format).Inc()
}

func (m *EngineMetrics) TournamentCompleted(format string) {
	m.tournamentsCompleted.WithLabelValues(format).Inc()
}

// NewMetricsRegistry returns a registry preloaded with the Go runtime and
// process collectors.
func NewMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
