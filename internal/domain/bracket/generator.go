package bracket

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// IDSource issues identifiers for generated rounds and matches.
type IDSource interface {
	NewID() (string, error)
}

type Options struct {
	TournamentID string
	Now          time.Time
	// SwissRounds overrides the automatic ceil(log2 n) Swiss round count when > 0.
	SwissRounds int
	// ShuffleFirstRound pairs Swiss round one in random rather than seed order.
	ShuffleFirstRound bool
	Rand              *rand.Rand
}

// Plan is the full initial structure of a tournament.
type Plan struct {
	Rounds  []Round
	Matches []Match
	// Byes lists walkovers created while generating, already resolved.
	Byes []Advance
	// SeedOrder is the entry order the plan was built from.
	SeedOrder []string
}

// Generate builds the bracket for format from the given confirmed entries.
func Generate(format tournament.Format, entries []entry.Entry, ids IDSource, opts Options) (Plan, error) {
	ordered := append([]entry.Entry(nil), entries...)
	entry.SortBySeed(ordered)

	var build func([]entry.Entry, IDSource, Options) (Plan, error)
	switch format {
	case tournament.FormatSingleElimination:
		build = singleElimination
	case tournament.FormatDoubleElimination:
		build = doubleElimination
	case tournament.FormatRoundRobin:
		build = roundRobin
	case tournament.FormatSwiss:
		build = swissOpening
	case tournament.FormatGroupsKnockout, tournament.FormatLadder, tournament.FormatFreeForAll:
		return Plan{}, fmt.Errorf("%w: %s", tournament.ErrFormatNotSupported, format)
	default:
		return Plan{}, fmt.Errorf("%w: unknown format %q", tournament.ErrFormatNotSupported, format)
	}

	if len(ordered) < tournament.MinParticipantsFloor {
		return Plan{}, fmt.Errorf("%w: need at least %d confirmed entries, have %d",
			tournament.ErrInsufficientPlayers, tournament.MinParticipantsFloor, len(ordered))
	}

	plan, err := build(ordered, ids, opts)
	if err != nil {
		return Plan{}, err
	}
	plan.SeedOrder = make([]string, 0, len(ordered))
	for _, e := range ordered {
		plan.SeedOrder = append(plan.SeedOrder, e.ID)
	}
	return plan, nil
}

// RoundCount is ceil(log2 n) for n >= 2.
func RoundCount(n int) int {
	rounds := 0
	for size := 1; size < n; size <<= 1 {
		rounds++
	}
	return rounds
}

func newRound(ids IDSource, tournamentID string, number int, name string, losers bool) (Round, error) {
	roundID, err := ids.NewID()
	if err != nil {
		return Round{}, fmt.Errorf("generate round id: %w", err)
	}
	return Round{
		ID:              roundID,
		TournamentID:    tournamentID,
		RoundNumber:     number,
		Name:            name,
		IsLosersBracket: losers,
	}, nil
}

func newMatch(ids IDSource, round Round, number int) (Match, error) {
	matchID, err := ids.NewID()
	if err != nil {
		return Match{}, fmt.Errorf("generate match id: %w", err)
	}
	return Match{
		ID:              matchID,
		TournamentID:    round.TournamentID,
		RoundID:         round.ID,
		RoundNumber:     round.RoundNumber,
		IsLosersBracket: round.IsLosersBracket,
		MatchNumber:     number,
		Status:          MatchScheduled,
	}, nil
}

// PairedMatches turns pairings into matches of round. A pairing without a second
// player becomes a walkover won by the first with a score of 1.
func PairedMatches(round Round, pairings []Pairing, ids IDSource, now time.Time) ([]Match, []Advance, error) {
	matches := make([]Match, 0, len(pairings))
	var byes []Advance
	for i, p := range pairings {
		m, err := newMatch(ids, round, i+1)
		if err != nil {
			return nil, nil, err
		}
		m.Player1EntryID = p.Player1
		m.Player2EntryID = p.Player2
		if p.Player2 == "" {
			m.Status = MatchWalkover
			m.WinnerEntryID = p.Player1
			m.Player1Score = 1
			m.CompletedAt = timePtr(now)
			byes = append(byes, Advance{MatchID: m.ID, WinnerEntryID: p.Player1})
		}
		matches = append(matches, m)
	}
	return matches, byes, nil
}
