package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTournamentRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.tournamentService.Create(ctx, usecase.CreateTournamentInput{
		OrganizerID:             principal.UserID,
		Name:                    req.Name,
		Description:             req.Description,
		Format:                  tournament.Format(req.Format),
		GameMode:                tournament.GameMode(req.GameMode),
		GameSettings:            req.GameSettings,
		MaxParticipants:         req.MaxParticipants,
		MinParticipants:         req.MinParticipants,
		RegistrationStart:       req.RegistrationStart,
		RegistrationEnd:         req.RegistrationEnd,
		StartTime:               req.StartTime,
		EstimatedDurationHours:  req.EstimatedDurationHours,
		RegistrationPassword:    req.RegistrationPassword,
		MinSkillLevel:           req.MinSkillLevel,
		IsPrivate:               req.IsPrivate,
		AllowPublicRegistration: req.AllowPublicRegistration,
		RequireApproval:         req.RequireApproval,
		ScorePasscode:           req.ScorePasscode,
		AllowScoreSubmission:    req.AllowScoreSubmission,
		IsFeatured:              req.IsFeatured && principal.IsStaff,
		PrizePool:               req.PrizePool,
		PrizeDescription:        req.PrizeDescription,
		SwissRounds:             req.SwissRounds,
		Draft:                   req.Draft,
	})
	if err != nil {
		h.logFailure(ctx, "create tournament failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(item))
}

func (h *Handler) OpenRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenRegistration")
	defer span.End()

	h.transition(ctx, w, r, "open registration failed", h.tournamentService.OpenRegistration)
}

func (h *Handler) CloseRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRegistration")
	defer span.End()

	h.transition(ctx, w, r, "close registration failed", h.tournamentService.CloseRegistration)
}

func (h *Handler) CancelTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelTournament")
	defer span.End()

	h.transition(ctx, w, r, "cancel tournament failed", h.tournamentService.Cancel)
}

type transitionFunc func(ctx context.Context, tournamentID string, actor user.Principal) (tournament.Tournament, error)

func (h *Handler) transition(ctx context.Context, w http.ResponseWriter, r *http.Request, failMsg string, fn transitionFunc) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	item, err := fn(ctx, tournamentID, principal)
	if err != nil {
		h.logFailure(ctx, failMsg, err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(item))
}

func (h *Handler) StartTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	result, err := h.bracketService.Start(ctx, tournamentID, principal)
	if err != nil {
		h.logFailure(ctx, "start tournament failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, startResultDTO{
		Tournament: tournamentToDTO(result.Tournament),
		Rounds:     roundsToDTO(result.Rounds),
		Matches:    matchesToDTO(result.Matches),
	})
}

func (h *Handler) GenerateSwissRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateSwissRound")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	result, err := h.bracketService.GenerateSwissRound(ctx, tournamentID, principal)
	if err != nil {
		h.logFailure(ctx, "generate swiss round failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, swissRoundDTO{
		Tournament: tournamentToDTO(result.Tournament),
		Round:      roundToDTO(result.Round),
		Matches:    matchesToDTO(result.Matches),
		Standings:  standingsToDTO(result.Standings),
	})
}

func (h *Handler) RebuildStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildStandings")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	rows, err := h.standingService.Rebuild(ctx, tournamentID, principal)
	if err != nil {
		h.logFailure(ctx, "rebuild standings failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(rows))
}

func (h *Handler) GeneratePasscode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GeneratePasscode")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	code, err := h.submissionService.GeneratePasscode(ctx, tournamentID, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "generate passcode failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"passcode": code})
}

func (h *Handler) VerifyPasscode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyPasscode")
	defer span.End()

	var req verifyPasscodeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	check, err := h.submissionService.VerifyPasscode(ctx, tournamentID, req.Passcode)
	if err != nil {
		h.logFailure(ctx, "verify passcode failed", err, "tournament_id", tournamentID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, passcodeCheckDTO{
		Valid:           check.Valid,
		CanSubmitScores: check.CanSubmitScores,
	})
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	query := r.URL.Query()
	input := usecase.ListTournamentsInput{
		Status: tournament.Status(strings.TrimSpace(query.Get("status"))),
		Format: tournament.Format(strings.TrimSpace(query.Get("format"))),
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		input.Limit = limit
	}

	items, err := h.queryService.ListTournaments(ctx, input)
	if err != nil {
		h.logFailure(ctx, "list tournaments failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summariesToDTO(items))
}

func (h *Handler) ListFeaturedTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeaturedTournaments")
	defer span.End()

	items, err := h.queryService.ListFeatured(ctx)
	if err != nil {
		h.logFailure(ctx, "list featured tournaments failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summariesToDTO(items))
}

func (h *Handler) ListUpcomingTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingTournaments")
	defer span.End()

	items, err := h.queryService.ListUpcoming(ctx)
	if err != nil {
		h.logFailure(ctx, "list upcoming tournaments failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summariesToDTO(items))
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	detail, err := h.queryService.GetTournamentDetail(ctx, tournamentID)
	if err != nil {
		h.logFailure(ctx, "get tournament failed", err, "tournament_id", tournamentID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detailToDTO(detail))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	rows, err := h.queryService.ListStandings(ctx, tournamentID)
	if err != nil {
		h.logFailure(ctx, "list standings failed", err, "tournament_id", tournamentID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(rows))
}
