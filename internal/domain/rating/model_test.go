package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	t.Parallel()

	cases := map[int]Tier{
		900:  TierBronze,
		1399: TierBronze,
		1400: TierSilver,
		1500: TierSilver,
		1600: TierGold,
		1800: TierPlatinum,
		2000: TierDiamond,
		2200: TierMaster,
		2400: TierGrandmaster,
		2900: TierGrandmaster,
	}
	for value, want := range cases {
		assert.Equalf(t, want, TierFor(value), "TierFor(%d)", value)
	}
}

func TestChange(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, Expected(1500, 1500), 1e-9)
	assert.Equal(t, 16, Change(1500, 1500, 1))
	assert.Equal(t, -16, Change(1500, 1500, 0))
	assert.Equal(t, 0, Change(1500, 1500, 0.5))

	// Upset: the 1400 player expects ~0.36 against 1500.
	assert.Equal(t, 20, Change(1400, 1500, 1))
	assert.Equal(t, -20, Change(1500, 1400, 0))
}

func TestApplyMatchTracksPeakAndLowest(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	r := New("p-1", now)

	assert.Equal(t, 16, r.ApplyMatch(1500, 1, now))
	assert.Equal(t, 1516, r.Peak)
	r.ApplyMatch(1500, 0, now)
	r.ApplyMatch(1500, 0, now)

	assert.Equal(t, 1516, r.Peak)
	assert.Less(t, r.Lowest, DefaultRating)
	assert.Equal(t, 1, r.MatchesWon)
	assert.Equal(t, 2, r.MatchesLost)
	assert.Equal(t, TierSilver, r.Tier)
}

func TestApplyTournament(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	r := New("p-1", now)
	r.ApplyTournament(1, 9, now)
	r.ApplyTournament(2, 6, now)
	r.ApplyTournament(7, 0, now)

	assert.Equal(t, 3, r.TournamentsPlayed)
	assert.Equal(t, 1, r.TournamentsWon)
	assert.Equal(t, 1, r.TournamentsRunnerUp)
	assert.Equal(t, 2, r.TournamentsTop4)
	assert.Equal(t, 15, r.TotalTournamentPoints)
	assert.NotNil(t, r.LastTournamentAt)
}
