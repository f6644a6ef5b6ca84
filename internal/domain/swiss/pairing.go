// Package swiss pairs Swiss-system rounds from current standings.
//
// Pairing is greedy and never backtracks: when the last unpaired entries have
// all met each other, one of them receives a bye even though a full re-pairing
// might have avoided it.
package swiss

import (
	"sort"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
)

// PairingOrder sorts standings by tournament points, Buchholz and points
// difference, all descending. Ties keep the incoming order, which callers set to
// seed order.
func PairingOrder(standings []standing.Standing) []string {
	rows := append([]standing.Standing(nil), standings...)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TournamentPoints != b.TournamentPoints {
			return a.TournamentPoints > b.TournamentPoints
		}
		if a.Buchholz != b.Buchholz {
			return a.Buchholz > b.Buchholz
		}
		return a.PointsDifference > b.PointsDifference
	})

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.EntryID)
	}
	return out
}

// Pair walks order and matches each unpaired entry with the first later unpaired
// entry it has not met in a completed match. An entry left without an opponent
// gets a bye pairing.
func Pair(order []string, history []bracket.Match) []bracket.Pairing {
	met := make(map[[2]string]bool)
	for _, m := range history {
		if m.Status != bracket.MatchCompleted || m.EntrantCount() != 2 {
			continue
		}
		met[key(m.Player1EntryID, m.Player2EntryID)] = true
	}

	paired := make(map[string]bool, len(order))
	pairings := make([]bracket.Pairing, 0, (len(order)+1)/2)
	for i, id := range order {
		if paired[id] {
			continue
		}
		paired[id] = true

		opponent := ""
		for _, candidate := range order[i+1:] {
			if paired[candidate] || met[key(id, candidate)] {
				continue
			}
			opponent = candidate
			break
		}
		if opponent != "" {
			paired[opponent] = true
		}
		pairings = append(pairings, bracket.Pairing{Player1: id, Player2: opponent})
	}

	// Byes go last so match numbers of real pairings stay dense.
	sort.SliceStable(pairings, func(i, j int) bool {
		return pairings[i].Player2 != "" && pairings[j].Player2 == ""
	})
	return pairings
}

func key(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
