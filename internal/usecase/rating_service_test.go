package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
)

func TestRatingService_MyRatingDefaultsForNewPlayers(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultSettings())
	got, err := e.rating.MyRating(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Equal(t, rating.DefaultRating, got.Value)
	assert.Equal(t, rating.TierSilver, got.Tier)
	assert.Zero(t, got.TournamentsPlayed)

	_, err = e.rating.MyRating(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRatingService_LeaderboardAfterTournament(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	started, entries := e.startWith(t, tournament.FormatRoundRobin, 2, nil)
	e.playMatch(t, started.Matches[0], 3, 0)

	board, err := e.rating.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, playerOf(entries, started.Matches[0].Player1EntryID), board[0].PlayerID)
	assert.Equal(t, 1516, board[0].Value)
	assert.Equal(t, 1, board[0].TournamentsWon)
	assert.Equal(t, 1, board[1].TournamentsRunnerUp)
	assert.Equal(t, 1, board[1].TournamentsTop4)
	require.NotNil(t, board[1].LastTournamentAt)

	top, err := e.rating.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestRatingService_LeaderboardDisabled(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.LeaderboardsEnabled = false
	e := newTestEngine(t, settings)

	_, err := e.rating.Leaderboard(context.Background(), 10)
	require.ErrorIs(t, err, tournament.ErrFeatureDisabled)
}

func TestStandingService_Rebuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	started, _ := e.startWith(t, tournament.FormatSwiss, 4, nil)
	e.playMatch(t, started.Matches[0], 3, 1)

	_, err := e.standings.Rebuild(ctx, started.Tournament.ID, user.Principal{UserID: "stranger"})
	require.ErrorIs(t, err, tournament.ErrNotOrganizer)

	rows, err := e.standings.Rebuild(ctx, started.Tournament.ID, organizer)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, started.Matches[0].Player1EntryID, rows[0].EntryID)
	assert.Equal(t, 3, rows[0].TournamentPoints)
	assert.Equal(t, 2, rows[0].PointsDifference)

	stored, err := e.queries.ListStandings(ctx, started.Tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, stored)
}

func TestDigitPasscodeGenerator(t *testing.T) {
	t.Parallel()

	gen := NewDigitPasscodeGenerator()
	for range 20 {
		code, err := gen.NewPasscode()
		if err != nil {
			t.Fatalf("new passcode: %v", err)
		}
		if len(code) != tournament.PasscodeLength {
			t.Fatalf("unexpected passcode length: %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("unexpected passcode character in %q", code)
			}
		}
	}
}
