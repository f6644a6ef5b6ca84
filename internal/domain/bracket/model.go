package bracket

import "time"

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchWalkover   MatchStatus = "walkover"
	MatchCancelled  MatchStatus = "cancelled"
)

// Resolved reports whether the match can no longer change.
func (s MatchStatus) Resolved() bool {
	return s == MatchCompleted || s == MatchWalkover || s == MatchCancelled
}

// Open reports whether a result may still be recorded.
func (s MatchStatus) Open() bool {
	return s == MatchScheduled || s == MatchInProgress
}

type Round struct {
	ID              string
	TournamentID    string
	RoundNumber     int
	Name            string
	IsLosersBracket bool
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Match is a single pairing. Empty entry IDs mean an open slot; an empty
// NextMatchID means the match feeds nothing.
type Match struct {
	ID              string
	TournamentID    string
	RoundID         string
	RoundNumber     int
	IsLosersBracket bool
	MatchNumber     int
	Player1EntryID  string
	Player2EntryID  string
	NextMatchID     string
	Status          MatchStatus
	WinnerEntryID   string
	Player1Score    int
	Player2Score    int
	GameID          string
	ScheduledTime   *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

func (m Match) HasEntrant(entryID string) bool {
	return entryID != "" && (m.Player1EntryID == entryID || m.Player2EntryID == entryID)
}

func (m Match) EntrantCount() int {
	n := 0
	if m.Player1EntryID != "" {
		n++
	}
	if m.Player2EntryID != "" {
		n++
	}
	return n
}

// Opponent returns the other entrant, or "" for a bye or an unknown entry.
func (m Match) Opponent(entryID string) string {
	switch entryID {
	case "":
		return ""
	case m.Player1EntryID:
		return m.Player2EntryID
	case m.Player2EntryID:
		return m.Player1EntryID
	}
	return ""
}

// Loser returns the non-winning entrant of a decided two-player match.
func (m Match) Loser() string {
	if m.WinnerEntryID == "" || m.EntrantCount() < 2 {
		return ""
	}
	return m.Opponent(m.WinnerEntryID)
}

// ScoreFor returns the points the entry scored in this match.
func (m Match) ScoreFor(entryID string) (int, bool) {
	switch {
	case entryID == "":
		return 0, false
	case m.Player1EntryID == entryID:
		return m.Player1Score, true
	case m.Player2EntryID == entryID:
		return m.Player2Score, true
	}
	return 0, false
}

// Pairing is one planned match; an empty Player2 means Player1 receives a bye.
type Pairing struct {
	Player1 string
	Player2 string
}
