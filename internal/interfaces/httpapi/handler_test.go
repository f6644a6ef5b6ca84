package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

type stubVerifier map[string]user.Principal

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := s[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

var testTokens = stubVerifier{
	"organizer-token": {UserID: "org-1", Email: "org@example.com"},
	"player-token":    {UserID: "player-1", Email: "player@example.com"},
}

func newTestRouter(t *testing.T, cfg RouterConfig) http.Handler {
	t.Helper()

	repo := memory.NewTournamentRepository()
	ratings := memory.NewRatingRepository()
	directory := memory.NewPlayerDirectory([]player.Profile{
		{ID: "player-1", DisplayName: "Player One", SkillLevel: player.SkillIntermediate},
	})
	ids := idgen.NewSequenceGenerator("id")
	settings := usecase.DefaultSettings()
	logger := logging.NewNop()

	ratingService := usecase.NewRatingService(ratings, repo, settings, logger)
	handler := NewHandler(
		usecase.NewTournamentService(repo, ids, settings, nil, logger),
		usecase.NewRegistrationService(repo, directory, ids, settings, nil, logger),
		usecase.NewBracketService(repo, ids, settings, ratingService, nil, logger),
		usecase.NewSubmissionService(repo, ids, nil, settings, ratingService, nil, logger),
		usecase.NewStandingService(repo, logger),
		usecase.NewQueryService(repo),
		ratingService,
		logger,
	)
	return NewRouter(handler, testTokens, logger, cfg)
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	return rec, decoded
}

func errorReason(t *testing.T, body map[string]any) string {
	t.Helper()

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error object, got %v", body)
	items, ok := errObj["errors"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, items)
	reason, _ := items[0].(map[string]any)["reason"].(string)
	return reason
}

func createTournamentBody(password string) map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"name":                      "Friday Night Darts",
		"format":                    "single_elimination",
		"game_mode":                 "501",
		"max_participants":          8,
		"min_participants":          2,
		"registration_start":        now.Add(-time.Hour),
		"registration_end":          now.Add(24 * time.Hour),
		"start_time":                now.Add(48 * time.Hour),
		"registration_password":     password,
		"allow_public_registration": true,
		"allow_score_submission":    true,
		"score_passcode":            "123456",
	}
}

func createTournament(t *testing.T, router http.Handler, password string) string {
	t.Helper()

	rec, body := doRequest(t, router, http.MethodPost, "/v1/tournaments", "organizer-token", createTournamentBody(password))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %v", body)
	data := body["data"].(map[string]any)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateRegisterAndReadTournament(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{})
	tournamentID := createTournament(t, router, "")

	rec, body := doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/entries", "player-token", nil)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %v", body)
	entryData := body["data"].(map[string]any)
	require.Equal(t, "confirmed", entryData["status"])
	require.Equal(t, "Player One", entryData["display_name"])

	rec, body = doRequest(t, router, http.MethodGet, "/v1/tournaments/"+tournamentID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := body["data"].(map[string]any)
	require.EqualValues(t, 1, detail["participant_count"])
	require.EqualValues(t, 7, detail["spots_remaining"])
	require.Equal(t, true, detail["registration_open"])
	require.NotContains(t, detail, "score_passcode")
	require.NotContains(t, detail, "registration_password")
	require.Len(t, detail["entries"], 1)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/entries/me", "player-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["data"], 1)

	rec, body = doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/entries", "player-token", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "alreadyRegistered", errorReason(t, body))
}

func TestRegisterWithWrongPasswordIsForbidden(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{})
	tournamentID := createTournament(t, router, "bullseye")

	rec, body := doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/entries", "player-token",
		map[string]string{"password": "treble"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "invalidPassword", errorReason(t, body))

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/entries", "player-token",
		map[string]string{"password": "bullseye"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/tournaments", "", createTournamentBody(""))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", errorReason(t, body))

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/ratings/me", "stolen-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOnlyOrganizerCanCloseRegistration(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{})
	tournamentID := createTournament(t, router, "")

	rec, body := doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/close", "player-token", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "notOrganizer", errorReason(t, body))

	rec, body = doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/close", "organizer-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "registration_closed", body["data"].(map[string]any)["status"])

	rec, body = doRequest(t, router, http.MethodPost, "/v1/tournaments/"+tournamentID+"/start", "organizer-token", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "insufficientPlayers", errorReason(t, body))
}

func TestUnknownTournamentIsNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{})

	rec, body := doRequest(t, router, http.MethodGet, "/v1/tournaments/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "tournamentNotFound", errorReason(t, body))
}

func TestCreateTournamentValidatesPayload(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{})
	payload := createTournamentBody("")
	payload["format"] = "knockout_cup"

	rec, body := doRequest(t, router, http.MethodPost, "/v1/tournaments", "organizer-token", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalidInput", errorReason(t, body))

	payload = createTournamentBody("")
	payload["surprise"] = true
	rec, _ = doRequest(t, router, http.MethodPost, "/v1/tournaments", "organizer-token", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitScoreIsRateLimitedPerPrincipal(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{SubmitLimiter: NewPrincipalRateLimiter(1)})
	path := "/v1/tournaments/t-1/matches/m-1/submissions"
	payload := map[string]int{"player1_score": 3, "player2_score": 1}

	rec, body := doRequest(t, router, http.MethodPost, path, "player-token", payload)
	require.Equal(t, http.StatusNotFound, rec.Code, "first call reaches the service: %v", body)

	rec, body = doRequest(t, router, http.MethodPost, path, "player-token", payload)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "rateLimitExceeded", errorReason(t, body))
	require.Equal(t, "60", rec.Header().Get("Retry-After"))

	rec, _ = doRequest(t, router, http.MethodPost, path, "organizer-token", payload)
	require.Equal(t, http.StatusNotFound, rec.Code, "other principals keep their own bucket")
}

func TestMetricsRouteIsMountedWhenConfigured(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})
	router := newTestRouter(t, RouterConfig{MetricsHandler: metrics})

	rec, _ := doRequest(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, newTestRouter(t, RouterConfig{}), http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
