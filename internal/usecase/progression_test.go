package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

func TestProgress_AdvanceWinnerTwiceIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	started, _ := e.startWith(t, tournament.FormatSingleElimination, 4, nil)
	tournamentID := started.Tournament.ID

	m := matchesInRound(e.playableMatches(t, tournamentID), 1)[0]
	require.NotEmpty(t, m.NextMatchID)
	winner, loser := m.Player1EntryID, m.Player2EntryID

	err := e.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		p, err := loadProgress(ctx, tx, current, testNow)
		if err != nil {
			return err
		}

		require.NoError(t, p.advanceWinner(m.ID, winner, 3, 1))
		next, ok := p.match(m.NextMatchID)
		require.True(t, ok)
		afterFirst := *next

		require.NoError(t, p.advanceWinner(m.ID, winner, 3, 1))
		next, _ = p.match(m.NextMatchID)
		assert.Equal(t, afterFirst, *next)

		w, _ := p.entry(winner)
		assert.Equal(t, 1, w.Wins)
		l, _ := p.entry(loser)
		assert.Equal(t, 1, l.Losses)
		assert.Len(t, p.decided, 1)

		require.ErrorIs(t, p.advanceWinner(m.ID, loser, 1, 3), tournament.ErrInvalidTransition)
		return p.flush(ctx)
	})
	require.NoError(t, err)

	// A later transaction repeating the same result leaves the stored state alone.
	before, err := e.repo.ListMatches(ctx, tournamentID)
	require.NoError(t, err)
	err = e.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		p, err := loadProgress(ctx, tx, current, testNow)
		if err != nil {
			return err
		}
		return p.advanceWinner(m.ID, winner, 3, 1)
	})
	require.NoError(t, err)

	after, err := e.repo.ListMatches(ctx, tournamentID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := e.repo.ListEntries(ctx, tournamentID)
	require.NoError(t, err)
	for _, en := range entries {
		if en.ID == winner {
			assert.Equal(t, 1, en.Wins)
		}
	}

	var stored bracket.Match
	for _, candidate := range after {
		if candidate.ID == m.NextMatchID {
			stored = candidate
		}
	}
	assert.True(t, stored.HasEntrant(winner))
}
