package anubis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
	"github.com/riskibarqy/darts-tournament/internal/platform/resilience"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func newTestProfileClient(srv *httptest.Server) *ProfileClient {
	return NewProfileClient(ProfileClientConfig{
		BaseURL:        srv.URL,
		AdminKey:       "admin-secret",
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
		Logger:         logging.NewNop(),
	})
}

func TestProfileClient_GetProfile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("x-admin-key") != "admin-secret" {
			t.Errorf("unexpected admin key: %q", r.Header.Get("x-admin-key"))
		}
		switch r.URL.Path {
		case "/v1/users/p-1":
			writeJSON(t, w, http.StatusOK, map[string]string{
				"user_id":      "p-1",
				"display_name": " Phil ",
				"skill_level":  "ADVANCED",
			})
		case "/v1/users/odd-skill":
			writeJSON(t, w, http.StatusOK, map[string]string{
				"display_name": "Odd",
				"skill_level":  "grandmaster",
			})
		default:
			writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "not found"})
		}
	}))
	defer srv.Close()

	client := newTestProfileClient(srv)
	ctx := context.Background()

	got, err := client.GetProfile(ctx, "p-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.ID != "p-1" || got.DisplayName != "Phil" || got.SkillLevel != player.SkillAdvanced {
		t.Fatalf("unexpected profile: %+v", got)
	}

	got, err = client.GetProfile(ctx, "odd-skill")
	if err != nil {
		t.Fatalf("get profile with unknown skill: %v", err)
	}
	if got.ID != "odd-skill" || got.SkillLevel != "" {
		t.Fatalf("expected unknown skill to be dropped: %+v", got)
	}

	_, err = client.GetProfile(ctx, "ghost")
	if !errors.Is(err, player.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	_, err = client.GetProfile(ctx, " ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProfileClient_ServerErrorIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusServiceUnavailable, map[string]string{"error": "maintenance"})
	}))
	defer srv.Close()

	_, err := newTestProfileClient(srv).GetProfile(context.Background(), "p-1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
