package bracket

import (
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
)

func singleElimination(entries []entry.Entry, ids IDSource, opts Options) (Plan, error) {
	totalRounds := RoundCount(len(entries))
	bracketSize := 1 << totalRounds

	plan := Plan{}
	byRound := make([][]int, totalRounds+1)
	for r := 1; r <= totalRounds; r++ {
		round, err := newRound(ids, opts.TournamentID, r, RoundName(r, totalRounds), false)
		if err != nil {
			return Plan{}, err
		}
		plan.Rounds = append(plan.Rounds, round)

		for i := 0; i < bracketSize>>r; i++ {
			m, err := newMatch(ids, round, i+1)
			if err != nil {
				return Plan{}, err
			}
			if r == 1 {
				if idx := 2 * i; idx < len(entries) {
					m.Player1EntryID = entries[idx].ID
				}
				if idx := 2*i + 1; idx < len(entries) {
					m.Player2EntryID = entries[idx].ID
				}
			}
			byRound[r] = append(byRound[r], len(plan.Matches))
			plan.Matches = append(plan.Matches, m)
		}
	}

	for r := 1; r < totalRounds; r++ {
		for i, idx := range byRound[r] {
			plan.Matches[idx].NextMatchID = plan.Matches[byRound[r+1][i/2]].ID
		}
	}

	plan.Byes = ResolveByes(plan.Matches, opts.Now)
	return plan, nil
}

// doubleElimination builds the winners bracket and empty placeholder rounds for the
// losers bracket. Losers-bracket matches are not generated, so such tournaments are
// decided by the winners bracket alone.
func doubleElimination(entries []entry.Entry, ids IDSource, opts Options) (Plan, error) {
	plan, err := singleElimination(entries, ids, opts)
	if err != nil {
		return Plan{}, err
	}

	losersRounds := 2*(RoundCount(len(entries))-1) - 1
	for r := 1; r <= losersRounds; r++ {
		round, err := newRound(ids, opts.TournamentID, r, losersRoundName(r), true)
		if err != nil {
			return Plan{}, err
		}
		plan.Rounds = append(plan.Rounds, round)
	}
	return plan, nil
}
