package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_EngineKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{tournament.ErrRegistrationClosed, http.StatusConflict, "registrationClosed"},
		{tournament.ErrInvalidPassword, http.StatusForbidden, "invalidPassword"},
		{tournament.ErrSkillTooLow, http.StatusForbidden, "skillTooLow"},
		{tournament.ErrNotPending, http.StatusConflict, "notPending"},
		{tournament.ErrTournamentStarted, http.StatusConflict, "tournamentStarted"},
		{tournament.ErrInsufficientPlayers, http.StatusConflict, "insufficientPlayers"},
		{tournament.ErrFormatNotSupported, http.StatusUnprocessableEntity, "formatNotSupported"},
		{tournament.ErrInvalidPasscode, http.StatusForbidden, "invalidPasscode"},
		{tournament.ErrSubmissionDisabled, http.StatusForbidden, "submissionDisabled"},
		{tournament.ErrNotAuthorized, http.StatusForbidden, "notAuthorized"},
		{tournament.ErrTiedScore, http.StatusBadRequest, "tiedScore"},
		{tournament.ErrNotOrganizer, http.StatusForbidden, "notOrganizer"},
		{tournament.ErrEntryNotFound, http.StatusNotFound, "entryNotFound"},
		{tournament.ErrMatchNotFound, http.StatusNotFound, "matchNotFound"},
		{tournament.ErrAlreadyRegistered, http.StatusConflict, "alreadyRegistered"},
		{tournament.ErrTournamentNotFound, http.StatusNotFound, "tournamentNotFound"},
		{tournament.ErrSubmissionNotFound, http.StatusNotFound, "submissionNotFound"},
		{tournament.ErrInvalidTransition, http.StatusConflict, "invalidTransition"},
		{tournament.ErrFeatureDisabled, http.StatusServiceUnavailable, "featureDisabled"},
		{player.ErrProfileNotFound, http.StatusNotFound, "profileNotFound"},
		{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{errRateLimited, http.StatusTooManyRequests, "rateLimitExceeded"},
		{errors.New("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tt := range tests {
		wrapped := fmt.Errorf("%w: detail", tt.err)
		got := mapError(context.Background(), wrapped)
		if got.HTTPStatus != tt.status || got.Reason != tt.reason {
			t.Fatalf("mapError(%v) = %d/%s, want %d/%s", tt.err, got.HTTPStatus, got.Reason, tt.status, tt.reason)
		}
	}
}

func TestWriteError_HidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: connection refused on 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal error detail leaked: %s", rec.Body.String())
	}
}
