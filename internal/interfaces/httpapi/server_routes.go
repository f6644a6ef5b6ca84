package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/featured", handler.ListFeaturedTournaments)
	mux.HandleFunc("GET /v1/tournaments/upcoming", handler.ListUpcomingTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings", handler.ListStandings)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/passcode/verify", handler.VerifyPasscode)
	mux.HandleFunc("GET /v1/ratings/leaderboard", handler.Leaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, submitLimiter *PrincipalRateLimiter) {
	registerAuthorizedTournamentRoutes(mux, handler, verifier)
	registerAuthorizedRegistrationRoutes(mux, handler, verifier)
	registerAuthorizedSubmissionRoutes(mux, handler, verifier, submitLimiter)

	mux.Handle("GET /v1/ratings/me", RequireAuth(verifier, http.HandlerFunc(handler.MyRating)))
}

func registerAuthorizedTournamentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/tournaments", RequireAuth(verifier, http.HandlerFunc(handler.CreateTournament)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/open", RequireAuth(verifier, http.HandlerFunc(handler.OpenRegistration)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/close", RequireAuth(verifier, http.HandlerFunc(handler.CloseRegistration)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelTournament)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartTournament)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/swiss-rounds", RequireAuth(verifier, http.HandlerFunc(handler.GenerateSwissRound)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/standings/rebuild", RequireAuth(verifier, http.HandlerFunc(handler.RebuildStandings)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/passcode", RequireAuth(verifier, http.HandlerFunc(handler.GeneratePasscode)))
}

func registerAuthorizedRegistrationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/entries/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyEntries)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/entries", RequireAuth(verifier, http.HandlerFunc(handler.Register)))
	mux.Handle("DELETE /v1/tournaments/{tournamentID}/entries/me", RequireAuth(verifier, http.HandlerFunc(handler.Withdraw)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/entries/batch", RequireAuth(verifier, http.HandlerFunc(handler.BatchAddPlayers)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/entries/{entryID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveEntry)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/entries/{entryID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineEntry)))
}

func registerAuthorizedSubmissionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, limiter *PrincipalRateLimiter) {
	mux.Handle("POST /v1/tournaments/{tournamentID}/matches/{matchID}/submissions",
		RequireAuth(verifier, RateLimitPrincipal(limiter, http.HandlerFunc(handler.SubmitScore))))
	mux.Handle("GET /v1/tournaments/{tournamentID}/submissions", RequireAuth(verifier, http.HandlerFunc(handler.ListSubmissions)))
	mux.Handle("POST /v1/submissions/{submissionID}/verify", RequireAuth(verifier, http.HandlerFunc(handler.VerifySubmission)))
	mux.Handle("POST /v1/submissions/{submissionID}/dispute", RequireAuth(verifier, http.HandlerFunc(handler.DisputeSubmission)))
	mux.Handle("POST /v1/submissions/{submissionID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectSubmission)))
}
