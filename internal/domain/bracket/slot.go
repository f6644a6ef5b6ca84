package bracket

import (
	"sort"
	"time"
)

type Slot int

const (
	SlotPlayer1 Slot = 1
	SlotPlayer2 Slot = 2
)

// SlotFor decides which slot of m.NextMatchID the winner of m occupies: the first
// slot when m has the lowest match number among all matches feeding the same next
// match, otherwise the second. bracket may contain any superset of the feeders.
func SlotFor(m Match, bracket []Match) Slot {
	lowest := m.MatchNumber
	for _, other := range bracket {
		if other.ID == m.ID || other.NextMatchID == "" || other.NextMatchID != m.NextMatchID {
			continue
		}
		if other.MatchNumber < lowest {
			lowest = other.MatchNumber
		}
	}
	if m.MatchNumber == lowest {
		return SlotPlayer1
	}
	return SlotPlayer2
}

// Place writes entryID into slot of m. Writing the same entry twice is a no-op.
func (m *Match) Place(slot Slot, entryID string) {
	if slot == SlotPlayer1 {
		m.Player1EntryID = entryID
		return
	}
	m.Player2EntryID = entryID
}

// Feeders returns the matches whose winners advance into matchID, ordered by
// match number.
func Feeders(matches []Match, matchID string) []Match {
	var out []Match
	for _, m := range matches {
		if matchID != "" && m.NextMatchID == matchID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchNumber < out[j].MatchNumber })
	return out
}

// Advance records where a winner was moved by ResolveByes.
type Advance struct {
	MatchID       string
	WinnerEntryID string
}

// ResolveByes settles matches that can no longer be contested. Once every feeder
// of a match is resolved, a match holding a single entrant becomes a walkover won
// by that entrant with a score of 1 and its winner moves on; a match with no
// entrant is cancelled. Round-one matches have no feeders and are settled
// immediately. It repeats until nothing changes and returns the walkovers it
// created, in resolution order.
func ResolveByes(matches []Match, now time.Time) []Advance {
	index := make(map[string]int, len(matches))
	hasFeeders := make(map[string]bool, len(matches))
	for i, m := range matches {
		index[m.ID] = i
		if m.NextMatchID != "" {
			hasFeeders[m.NextMatchID] = true
		}
	}

	var advanced []Advance
	for changed := true; changed; {
		changed = false
		for i := range matches {
			m := &matches[i]
			if m.Status.Resolved() || m.Status == MatchInProgress {
				continue
			}
			if !hasFeeders[m.ID] && m.RoundNumber != 1 {
				continue
			}
			if !feedersResolved(matches, m.ID) {
				continue
			}

			switch m.EntrantCount() {
			case 2:
				continue
			case 1:
				winner := m.Player1EntryID
				if winner == "" {
					winner = m.Player2EntryID
				}
				m.Status = MatchWalkover
				m.WinnerEntryID = winner
				if m.Player1EntryID == winner {
					m.Player1Score = 1
				} else {
					m.Player2Score = 1
				}
				m.CompletedAt = timePtr(now)
				advanced = append(advanced, Advance{MatchID: m.ID, WinnerEntryID: winner})

				if next, ok := index[m.NextMatchID]; ok {
					matches[next].Place(SlotFor(*m, matches), winner)
				}
			default:
				m.Status = MatchCancelled
				m.CompletedAt = timePtr(now)
			}
			changed = true
		}
	}

	return advanced
}

func feedersResolved(matches []Match, matchID string) bool {
	for _, m := range matches {
		if m.NextMatchID == matchID && !m.Status.Resolved() {
			return false
		}
	}
	return true
}

// RoundResolved reports whether every match of the round is resolved.
func RoundResolved(matches []Match, roundID string) bool {
	for _, m := range matches {
		if m.RoundID == roundID && !m.Status.Resolved() {
			return false
		}
	}
	return true
}

func timePtr(t time.Time) *time.Time {
	return &t
}
