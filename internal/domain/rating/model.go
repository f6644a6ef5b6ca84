package rating

import (
	"math"
	"time"
)

const (
	DefaultRating = 1500
	KFactor       = 32
)

type Tier string

const (
	TierBronze      Tier = "bronze"
	TierSilver      Tier = "silver"
	TierGold        Tier = "gold"
	TierPlatinum    Tier = "platinum"
	TierDiamond     Tier = "diamond"
	TierMaster      Tier = "master"
	TierGrandmaster Tier = "grandmaster"
)

var tierFloors = []struct {
	floor int
	tier  Tier
}{
	{2400, TierGrandmaster},
	{2200, TierMaster},
	{2000, TierDiamond},
	{1800, TierPlatinum},
	{1600, TierGold},
	{1400, TierSilver},
}

func TierFor(value int) Tier {
	for _, t := range tierFloors {
		if value >= t.floor {
			return t.tier
		}
	}
	return TierBronze
}

// Rating is a player's cross-tournament ELO record.
type Rating struct {
	PlayerID              string
	Value                 int
	Peak                  int
	Lowest                int
	Tier                  Tier
	TournamentsPlayed     int
	TournamentsWon        int
	TournamentsRunnerUp   int
	TournamentsTop4       int
	MatchesWon            int
	MatchesLost           int
	TotalTournamentPoints int
	LastTournamentAt      *time.Time
	UpdatedAt             time.Time
}

func New(playerID string, now time.Time) Rating {
	return Rating{
		PlayerID:  playerID,
		Value:     DefaultRating,
		Peak:      DefaultRating,
		Lowest:    DefaultRating,
		Tier:      TierFor(DefaultRating),
		UpdatedAt: now,
	}
}

// Expected is the ELO win expectation of a player rated own against opponent.
func Expected(own, opponent int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponent-own)/400))
}

// Change is the rating delta for a result, truncated toward zero. actual is 1 for a
// win, 0.5 for a draw and 0 for a loss.
func Change(own, opponent int, actual float64) int {
	return int(KFactor * (actual - Expected(own, opponent)))
}

// ApplyMatch records one match result and returns the delta applied.
func (r *Rating) ApplyMatch(opponent int, actual float64, now time.Time) int {
	delta := Change(r.Value, opponent, actual)
	r.Value += delta
	r.Peak = max(r.Peak, r.Value)
	r.Lowest = min(r.Lowest, r.Value)
	r.Tier = TierFor(r.Value)
	switch actual {
	case 1:
		r.MatchesWon++
	case 0:
		r.MatchesLost++
	}
	r.UpdatedAt = now
	return delta
}

// ApplyTournament records a finished tournament at the given final rank.
func (r *Rating) ApplyTournament(rank, tournamentPoints int, finishedAt time.Time) {
	r.TournamentsPlayed++
	switch rank {
	case 1:
		r.TournamentsWon++
	case 2:
		r.TournamentsRunnerUp++
	}
	if rank >= 1 && rank <= 4 {
		r.TournamentsTop4++
	}
	r.TotalTournamentPoints += tournamentPoints
	r.LastTournamentAt = &finishedAt
	r.UpdatedAt = finishedAt
}
