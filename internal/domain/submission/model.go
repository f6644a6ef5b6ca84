package submission

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusDisputed Status = "disputed"
	StatusRejected Status = "rejected"
)

// Submission is a reported match result awaiting (or past) organizer review.
// A verified submission is never modified again.
type Submission struct {
	ID            string
	TournamentID  string
	MatchID       string
	SubmittedBy   string
	Player1Score  int
	Player2Score  int
	WinnerEntryID string
	Status        Status
	PasscodeUsed  string
	VerifiedBy    string
	Notes         string
	SubmittedAt   time.Time
	VerifiedAt    *time.Time
}

// Decidable reports whether an organizer may still verify or reject it.
func (s Submission) Decidable() bool {
	return s.Status == StatusPending || s.Status == StatusDisputed
}

// AppendNote adds note on its own line.
func (s *Submission) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if s.Notes == "" {
		s.Notes = note
		return
	}
	s.Notes += "\n" + note
}

// DisputeNote formats the audit line recorded when a participant disputes.
func DisputeNote(disputerID, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}
	return "Disputed by " + disputerID + ": " + reason
}
