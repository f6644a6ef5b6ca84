package httpapi

import (
	"net/http"

	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Register")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req registerRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	tournamentID := r.PathValue("tournamentID")
	item, err := h.registrationService.Register(ctx, usecase.RegisterInput{
		TournamentID: tournamentID,
		PlayerID:     principal.UserID,
		Password:     req.Password,
	})
	if err != nil {
		h.logFailure(ctx, "register failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(item))
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Withdraw")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	item, err := h.registrationService.Withdraw(ctx, tournamentID, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "withdraw failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(item))
}

func (h *Handler) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveEntry")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.EntryDecisionInput{
		TournamentID: r.PathValue("tournamentID"),
		EntryID:      r.PathValue("entryID"),
		Actor:        principal,
	}
	item, err := h.registrationService.Approve(ctx, input)
	if err != nil {
		h.logFailure(ctx, "approve entry failed", err, "tournament_id", input.TournamentID, "entry_id", input.EntryID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(item))
}

func (h *Handler) DeclineEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineEntry")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.EntryDecisionInput{
		TournamentID: r.PathValue("tournamentID"),
		EntryID:      r.PathValue("entryID"),
		Actor:        principal,
	}
	item, err := h.registrationService.Decline(ctx, input)
	if err != nil {
		h.logFailure(ctx, "decline entry failed", err, "tournament_id", input.TournamentID, "entry_id", input.EntryID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryToDTO(item))
}

func (h *Handler) BatchAddPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BatchAddPlayers")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req batchAddRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	result, err := h.registrationService.BatchAdd(ctx, usecase.BatchAddInput{
		TournamentID: tournamentID,
		Actor:        principal,
		PlayerIDs:    req.PlayerIDs,
		AutoApprove:  req.AutoApprove,
	})
	if err != nil {
		h.logFailure(ctx, "batch add players failed", err, "tournament_id", tournamentID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	writeSuccess(ctx, w, http.StatusOK, batchAddDTO{
		Added:  entriesToDTO(result.Added),
		Errors: errs,
	})
}

func (h *Handler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyEntries")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.queryService.ListMyEntries(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list my entries failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, myEntriesToDTO(items))
}
