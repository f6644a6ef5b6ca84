package standing

import (
	"sort"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
)

// Compute rebuilds the whole table from match history. entries supplies the
// fallback order (normally seed order); confirmed entries always get a row and
// any other entry gets one once it appears in a decided match.
//
// A decided match is Completed (a draw when it has no winner) or a Walkover.
// A single-entrant walkover is a bye: a win worth PointsPerWin with points_for 1
// and no opponent, so it adds nothing to Buchholz or Sonneborn-Berger.
func Compute(tournamentID string, entries []entry.Entry, matches []bracket.Match, now time.Time) []Standing {
	rows := make(map[string]*Standing, len(entries))
	order := make([]string, 0, len(entries))
	row := func(entryID string) *Standing {
		if s, ok := rows[entryID]; ok {
			return s
		}
		s := &Standing{TournamentID: tournamentID, EntryID: entryID, UpdatedAt: now}
		rows[entryID] = s
		order = append(order, entryID)
		return s
	}

	for _, e := range entries {
		if e.Status == entry.StatusConfirmed {
			row(e.ID)
		}
	}

	decided := make([]bracket.Match, 0, len(matches))
	for _, m := range matches {
		if !counts(m) {
			continue
		}
		decided = append(decided, m)

		if m.EntrantCount() == 1 {
			s := row(m.WinnerEntryID)
			score, _ := m.ScoreFor(m.WinnerEntryID)
			s.MatchesPlayed++
			s.MatchesWon++
			s.PointsFor += score
			s.HighestScore = max(s.HighestScore, score)
			continue
		}

		for _, id := range []string{m.Player1EntryID, m.Player2EntryID} {
			s := row(id)
			own, _ := m.ScoreFor(id)
			against, _ := m.ScoreFor(m.Opponent(id))
			s.MatchesPlayed++
			s.PointsFor += own
			s.PointsAgainst += against
			s.HighestScore = max(s.HighestScore, own)
			switch m.WinnerEntryID {
			case "":
				s.MatchesDrawn++
			case id:
				s.MatchesWon++
			default:
				s.MatchesLost++
			}
		}
	}

	for _, s := range rows {
		s.TournamentPoints = PointsPerWin*s.MatchesWon + PointsPerDraw*s.MatchesDrawn
		s.PointsDifference = s.PointsFor - s.PointsAgainst
		if s.MatchesPlayed > 0 {
			s.AverageScore = float64(s.PointsFor) / float64(s.MatchesPlayed)
		}
	}

	for _, m := range decided {
		if m.EntrantCount() != 2 {
			continue
		}
		p1, p2 := rows[m.Player1EntryID], rows[m.Player2EntryID]
		p1.Buchholz += float64(p2.TournamentPoints)
		p2.Buchholz += float64(p1.TournamentPoints)

		switch m.WinnerEntryID {
		case "":
			p1.SonnebornBerger += 0.5 * float64(p2.TournamentPoints)
			p2.SonnebornBerger += 0.5 * float64(p1.TournamentPoints)
		case p1.EntryID:
			p1.SonnebornBerger += float64(p2.TournamentPoints)
			if p1.TournamentPoints == p2.TournamentPoints {
				p1.HeadToHeadWins++
			}
		case p2.EntryID:
			p2.SonnebornBerger += float64(p1.TournamentPoints)
			if p1.TournamentPoints == p2.TournamentPoints {
				p2.HeadToHeadWins++
			}
		}
	}

	out := make([]Standing, 0, len(order))
	for _, id := range order {
		out = append(out, *rows[id])
	}
	Rank(out)
	return out
}

func counts(m bracket.Match) bool {
	switch m.Status {
	case bracket.MatchCompleted:
		return m.EntrantCount() == 2
	case bracket.MatchWalkover:
		return m.WinnerEntryID != ""
	}
	return false
}

// Rank sorts standings by tournament points, points difference, Buchholz,
// Sonneborn-Berger and points for, all descending, keeping the incoming order
// for full ties, and assigns 1-based positional ranks.
func Rank(standings []Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.TournamentPoints != b.TournamentPoints {
			return a.TournamentPoints > b.TournamentPoints
		}
		if a.PointsDifference != b.PointsDifference {
			return a.PointsDifference > b.PointsDifference
		}
		if a.Buchholz != b.Buchholz {
			return a.Buchholz > b.Buchholz
		}
		if a.SonnebornBerger != b.SonnebornBerger {
			return a.SonnebornBerger > b.SonnebornBerger
		}
		return a.PointsFor > b.PointsFor
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
}
