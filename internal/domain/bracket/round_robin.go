package bracket

import (
	"strconv"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
)

// roundRobin schedules every pairing once with the circle method. An odd field is
// padded with a bye position; pairings against it produce no match.
func roundRobin(entries []entry.Entry, ids IDSource, opts Options) (Plan, error) {
	slots := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		slots = append(slots, e.ID)
	}
	if len(slots)%2 == 1 {
		slots = append(slots, "")
	}

	totalRounds := len(slots) - 1
	half := len(slots) / 2

	var plan Plan
	for r := 1; r <= totalRounds; r++ {
		round, err := newRound(ids, opts.TournamentID, r, "Round "+strconv.Itoa(r), false)
		if err != nil {
			return Plan{}, err
		}
		plan.Rounds = append(plan.Rounds, round)

		for i := 0; i < half; i++ {
			home, away := slots[i], slots[len(slots)-1-i]
			if home == "" || away == "" {
				continue
			}
			m, err := newMatch(ids, round, i+1)
			if err != nil {
				return Plan{}, err
			}
			m.Player1EntryID = home
			m.Player2EntryID = away
			plan.Matches = append(plan.Matches, m)
		}

		rotated := make([]string, 0, len(slots))
		rotated = append(rotated, slots[0], slots[len(slots)-1])
		rotated = append(rotated, slots[1:len(slots)-1]...)
		slots = rotated
	}

	return plan, nil
}
