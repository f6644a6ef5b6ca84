package bracket

import (
	"strconv"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
)

// SwissRoundCount returns the configured number of Swiss rounds for n entries.
func SwissRoundCount(n, override int) int {
	if override > 0 {
		return override
	}
	return RoundCount(n)
}

// swissOpening creates every Swiss round up front but only pairs round one, by
// consecutive seed (or shuffled) order. Later rounds are paired from standings.
func swissOpening(entries []entry.Entry, ids IDSource, opts Options) (Plan, error) {
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		order = append(order, e.ID)
	}
	if opts.ShuffleFirstRound && opts.Rand != nil {
		opts.Rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	var plan Plan
	totalRounds := SwissRoundCount(len(entries), opts.SwissRounds)
	for r := 1; r <= totalRounds; r++ {
		round, err := newRound(ids, opts.TournamentID, r, "Round "+strconv.Itoa(r), false)
		if err != nil {
			return Plan{}, err
		}
		plan.Rounds = append(plan.Rounds, round)
	}

	pairings := make([]Pairing, 0, (len(order)+1)/2)
	for i := 0; i+1 < len(order); i += 2 {
		pairings = append(pairings, Pairing{Player1: order[i], Player2: order[i+1]})
	}
	if len(order)%2 == 1 {
		pairings = append(pairings, Pairing{Player1: order[len(order)-1]})
	}

	matches, byes, err := PairedMatches(plan.Rounds[0], pairings, ids, opts.Now)
	if err != nil {
		return Plan{}, err
	}
	plan.Matches = matches
	plan.Byes = byes
	return plan, nil
}
