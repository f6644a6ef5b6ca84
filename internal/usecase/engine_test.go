package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

var testNow = time.Date(2026, 5, 2, 19, 30, 0, 0, time.UTC)

const testPasscode = "123456"

var organizer = user.Principal{UserID: "org-1", Email: "org@example.com"}

// testEngine wires every service over the in-memory repositories with a fixed clock.
type testEngine struct {
	repo      *memory.TournamentRepository
	ratings   *memory.RatingRepository
	directory *memory.PlayerDirectory

	tournaments  *TournamentService
	registration *RegistrationService
	brackets     *BracketService
	submissions  *SubmissionService
	standings    *StandingService
	rating       *RatingService
	queries      *QueryService
}

func newTestEngine(t *testing.T, settings Settings) *testEngine {
	t.Helper()

	repo := memory.NewTournamentRepository()
	ratings := memory.NewRatingRepository()
	directory := memory.NewPlayerDirectory(nil)
	ids := idgen.NewSequenceGenerator("id")
	logger := logging.NewNop()
	clock := func() time.Time { return testNow }

	e := &testEngine{
		repo:      repo,
		ratings:   ratings,
		directory: directory,
	}
	e.rating = NewRatingService(ratings, repo, settings, logger)
	e.rating.now = clock
	e.tournaments = NewTournamentService(repo, ids, settings, nil, logger)
	e.tournaments.now = clock
	e.registration = NewRegistrationService(repo, directory, ids, settings, nil, logger)
	e.registration.now = clock
	e.brackets = NewBracketService(repo, ids, settings, e.rating, nil, logger)
	e.brackets.now = clock
	e.submissions = NewSubmissionService(repo, ids, nil, settings, e.rating, nil, logger)
	e.submissions.now = clock
	e.standings = NewStandingService(repo, logger)
	e.standings.now = clock
	e.queries = NewQueryService(repo)
	e.queries.now = clock
	return e
}

func validTournamentInput(format tournament.Format) CreateTournamentInput {
	return CreateTournamentInput{
		OrganizerID:             organizer.UserID,
		Name:                    "Thursday " + gofakeit.Adjective() + " Open",
		Format:                  format,
		GameMode:                tournament.GameMode501,
		MaxParticipants:         16,
		MinParticipants:         2,
		RegistrationStart:       testNow.Add(-time.Hour),
		RegistrationEnd:         testNow.Add(24 * time.Hour),
		StartTime:               testNow.Add(48 * time.Hour),
		AllowPublicRegistration: true,
		ScorePasscode:           testPasscode,
		AllowScoreSubmission:    true,
	}
}

func (e *testEngine) createTournament(t *testing.T, format tournament.Format, mutate func(*CreateTournamentInput)) tournament.Tournament {
	t.Helper()

	input := validTournamentInput(format)
	if mutate != nil {
		mutate(&input)
	}
	created, err := e.tournaments.Create(context.Background(), input)
	require.NoError(t, err)
	return created
}

func (e *testEngine) addProfile(id string, level player.SkillLevel) player.Profile {
	profile := player.Profile{ID: id, DisplayName: gofakeit.Name(), SkillLevel: level}
	e.directory.Upsert(profile)
	return profile
}

// registerPlayers registers n fresh intermediate players and returns their entries.
func (e *testEngine) registerPlayers(t *testing.T, tournamentID string, n int) []entry.Entry {
	t.Helper()

	out := make([]entry.Entry, 0, n)
	for i := range n {
		profile := e.addProfile(fmt.Sprintf("%s-player-%02d", tournamentID, i+1), player.SkillIntermediate)
		created, err := e.registration.Register(context.Background(), RegisterInput{
			TournamentID: tournamentID,
			PlayerID:     profile.ID,
		})
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

// startWith creates a tournament, fills it with n players, closes registration
// and generates the bracket.
func (e *testEngine) startWith(t *testing.T, format tournament.Format, n int, mutate func(*CreateTournamentInput)) (StartResult, []entry.Entry) {
	t.Helper()

	ctx := context.Background()
	created := e.createTournament(t, format, mutate)
	entries := e.registerPlayers(t, created.ID, n)

	current, err := e.repo.GetTournament(ctx, created.ID)
	require.NoError(t, err)
	if current.Status == tournament.StatusRegistrationOpen {
		_, err = e.tournaments.CloseRegistration(ctx, created.ID, organizer)
		require.NoError(t, err)
	}

	started, err := e.brackets.Start(ctx, created.ID, organizer)
	require.NoError(t, err)
	return started, entries
}

// playMatch reports the result as the organizer, so it is applied at once.
func (e *testEngine) playMatch(t *testing.T, m bracket.Match, player1Score, player2Score int) {
	t.Helper()

	_, err := e.submissions.Submit(context.Background(), SubmitInput{
		TournamentID: m.TournamentID,
		MatchID:      m.ID,
		SubmitterID:  organizer.UserID,
		Player1Score: player1Score,
		Player2Score: player2Score,
		Passcode:     testPasscode,
	})
	require.NoError(t, err)
}

// playableMatches returns the stored matches that have two entrants and no result.
func (e *testEngine) playableMatches(t *testing.T, tournamentID string) []bracket.Match {
	t.Helper()

	matches, err := e.repo.ListMatches(context.Background(), tournamentID)
	require.NoError(t, err)
	var out []bracket.Match
	for _, m := range matches {
		if m.Status.Open() && m.EntrantCount() == 2 {
			out = append(out, m)
		}
	}
	return out
}

func playerOf(entries []entry.Entry, entryID string) string {
	for _, e := range entries {
		if e.ID == entryID {
			return e.PlayerID
		}
	}
	return ""
}

func matchesInRound(matches []bracket.Match, roundNumber int) []bracket.Match {
	var out []bracket.Match
	for _, m := range matches {
		if m.RoundNumber == roundNumber && !m.IsLosersBracket {
			out = append(out, m)
		}
	}
	return out
}
