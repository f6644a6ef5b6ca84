package httpapi

import (
	"net/http"

	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitScoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SubmitInput{
		TournamentID: r.PathValue("tournamentID"),
		MatchID:      r.PathValue("matchID"),
		SubmitterID:  principal.UserID,
		Player1Score: req.Player1Score,
		Player2Score: req.Player2Score,
		Passcode:     req.Passcode,
		Notes:        req.Notes,
	}
	item, err := h.submissionService.Submit(ctx, input)
	if err != nil {
		h.logFailure(ctx, "submit score failed", err, "tournament_id", input.TournamentID, "match_id", input.MatchID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionToDTO(item))
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubmissions")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := r.PathValue("tournamentID")
	items, err := h.submissionService.ListSubmissions(ctx, principal.UserID, tournamentID)
	if err != nil {
		h.logFailure(ctx, "list submissions failed", err, "tournament_id", tournamentID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionsToDTO(items))
}

func (h *Handler) VerifySubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifySubmission")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	submissionID := r.PathValue("submissionID")
	item, err := h.submissionService.Verify(ctx, submissionID, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "verify submission failed", err, "submission_id", submissionID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}

func (h *Handler) DisputeSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DisputeSubmission")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req disputeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	submissionID := r.PathValue("submissionID")
	item, err := h.submissionService.Dispute(ctx, submissionID, principal.UserID, req.Reason)
	if err != nil {
		h.logFailure(ctx, "dispute submission failed", err, "submission_id", submissionID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}

func (h *Handler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectSubmission")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	submissionID := r.PathValue("submissionID")
	item, err := h.submissionService.Reject(ctx, submissionID, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "reject submission failed", err, "submission_id", submissionID, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}
