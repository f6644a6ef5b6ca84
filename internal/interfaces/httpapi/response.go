package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "darts-tournament"
)

var errRateLimited = errors.New("rate limit exceeded")

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var (
	notFound           = mappedError{HTTPStatus: http.StatusNotFound, Status: "NOT_FOUND"}
	failedPrecondition = mappedError{HTTPStatus: http.StatusConflict, Status: "FAILED_PRECONDITION"}
	permissionDenied   = mappedError{HTTPStatus: http.StatusForbidden, Status: "PERMISSION_DENIED"}
	invalidArgument    = mappedError{HTTPStatus: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}
)

// kindStatus is keyed by tournament.ReasonOf.
var kindStatus = map[string]mappedError{
	"registrationClosed":  failedPrecondition,
	"invalidPassword":     permissionDenied,
	"skillTooLow":         permissionDenied,
	"notPending":          failedPrecondition,
	"tournamentStarted":   failedPrecondition,
	"insufficientPlayers": failedPrecondition,
	"formatNotSupported":  {HTTPStatus: http.StatusUnprocessableEntity, Status: "UNIMPLEMENTED"},
	"invalidPasscode":     permissionDenied,
	"submissionDisabled":  permissionDenied,
	"notAuthorized":       permissionDenied,
	"tiedScore":           invalidArgument,
	"notOrganizer":        permissionDenied,
	"entryNotFound":       notFound,
	"matchNotFound":       notFound,
	"alreadyRegistered":   {HTTPStatus: http.StatusConflict, Status: "ALREADY_EXISTS"},
	"tournamentNotFound":  notFound,
	"submissionNotFound":  notFound,
	"invalidTransition":   failedPrecondition,
	"featureDisabled":     {HTTPStatus: http.StatusServiceUnavailable, Status: "UNAVAILABLE"},
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = internalErrorMessage
	}
	writeJSON(ctx, w, mapped.HTTPStatus, errorEnvelope(mapped, message))
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope(internalError, internalErrorMessage))
}

func errorEnvelope(mapped mappedError, message string) googleResponseEnvelope {
	return googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	}
}

const internalErrorMessage = "internal server error"

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// sentinelStatus is checked in order after domain kinds.
var sentinelStatus = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{player.ErrProfileNotFound, mappedError{http.StatusNotFound, "profileNotFound", "NOT_FOUND"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{errRateLimited, mappedError{http.StatusTooManyRequests, "rateLimitExceeded", "RESOURCE_EXHAUSTED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	if reason := tournament.ReasonOf(err); reason != "" {
		if mapped, ok := kindStatus[reason]; ok {
			mapped.Reason = reason
			return mapped
		}
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.target) {
			return s.mapped
		}
	}
	return internalError
}
