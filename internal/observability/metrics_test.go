package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

var _ usecase.Metrics = (*EngineMetrics)(nil)

func TestEngineMetrics_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.TournamentCreated("swiss")
	m.TournamentCreated("swiss")
	m.TournamentCreated("round_robin")
	m.SubmissionRecorded("verified")
	m.BracketGenerated("single_elimination", 8)

	if got := testutil.ToFloat64(m.tournamentsCreated.WithLabelValues("swiss")); got != 2 {
		t.Fatalf("expected 2 swiss tournaments, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsRecorded.WithLabelValues("verified")); got != 1 {
		t.Fatalf("expected 1 verified submission, got %v", got)
	}
	if got := testutil.CollectAndCount(m.bracketEntries); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestMetricsHandler_ExposesRegisteredSeries(t *testing.T) {
	reg := NewMetricsRegistry()
	NewEngineMetrics(reg).MatchCompleted("double_elimination")

	rec := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`darts_tournament_matches_completed_total{format="double_elimination"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
