package memory

import (
	"fmt"
	"maps"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// aggregate is everything owned by one tournament. Transactions work on a clone
// and swap it in on commit.
type aggregate struct {
	tournament  tournament.Tournament
	entries     []entry.Entry
	rounds      []bracket.Round
	matches     []bracket.Match
	standings   []standing.Standing
	submissions []submission.Submission
}

func (a *aggregate) clone() *aggregate {
	copied := &aggregate{
		tournament:  cloneTournament(a.tournament),
		entries:     make([]entry.Entry, len(a.entries)),
		rounds:      append([]bracket.Round(nil), a.rounds...),
		matches:     append([]bracket.Match(nil), a.matches...),
		standings:   append([]standing.Standing(nil), a.standings...),
		submissions: append([]submission.Submission(nil), a.submissions...),
	}
	for i, e := range a.entries {
		copied.entries[i] = cloneEntry(e)
	}
	return copied
}

func cloneTournament(t tournament.Tournament) tournament.Tournament {
	copied := t
	copied.GameSettings = maps.Clone(t.GameSettings)
	return copied
}

func cloneEntry(e entry.Entry) entry.Entry {
	copied := e
	if e.SeedNumber != nil {
		seed := *e.SeedNumber
		copied.SeedNumber = &seed
	}
	if e.FinalPlacement != nil {
		placement := *e.FinalPlacement
		copied.FinalPlacement = &placement
	}
	if e.ApprovedAt != nil {
		approved := *e.ApprovedAt
		copied.ApprovedAt = &approved
	}
	return copied
}

func (a *aggregate) entryIndex(entryID string) int {
	for i, e := range a.entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func (a *aggregate) matchIndex(matchID string) int {
	for i, m := range a.matches {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}

func (a *aggregate) submissionIndex(submissionID string) int {
	for i, s := range a.submissions {
		if s.ID == submissionID {
			return i
		}
	}
	return -1
}

func (a *aggregate) getEntry(entryID string) (entry.Entry, error) {
	idx := a.entryIndex(entryID)
	if idx < 0 {
		return entry.Entry{}, fmt.Errorf("%w: id=%s", tournament.ErrEntryNotFound, entryID)
	}
	return cloneEntry(a.entries[idx]), nil
}

func (a *aggregate) findEntryByPlayer(playerID string) (entry.Entry, bool) {
	for _, e := range a.entries {
		if e.PlayerID == playerID {
			return cloneEntry(e), true
		}
	}
	return entry.Entry{}, false
}

func (a *aggregate) listEntries() []entry.Entry {
	out := make([]entry.Entry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, cloneEntry(e))
	}
	return out
}

func (a *aggregate) getMatch(matchID string) (bracket.Match, error) {
	idx := a.matchIndex(matchID)
	if idx < 0 {
		return bracket.Match{}, fmt.Errorf("%w: id=%s", tournament.ErrMatchNotFound, matchID)
	}
	return a.matches[idx], nil
}

func (a *aggregate) getSubmission(submissionID string) (submission.Submission, error) {
	idx := a.submissionIndex(submissionID)
	if idx < 0 {
		return submission.Submission{}, fmt.Errorf("%w: id=%s", tournament.ErrSubmissionNotFound, submissionID)
	}
	return a.submissions[idx], nil
}

func (a *aggregate) confirmedCount() int {
	return entry.CountConfirmed(a.entries)
}
