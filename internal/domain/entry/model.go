package entry

import (
	"sort"
	"time"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusConfirmed    Status = "confirmed"
	StatusDeclined     Status = "declined"
	StatusWithdrawn    Status = "withdrawn"
	StatusDisqualified Status = "disqualified"
)

// Active reports whether the entry still holds (or awaits) a place in the field.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Entry is a player's registration in one tournament. Entries are never deleted;
// withdrawal and disqualification are status changes.
type Entry struct {
	ID             string
	TournamentID   string
	PlayerID       string
	DisplayName    string
	Status         Status
	SeedNumber     *int
	Wins           int
	Losses         int
	Points         int
	FinalPlacement *int
	TotalScore     int
	RatingChange   int
	RegisteredAt   time.Time
	ApprovedAt     *time.Time
}

// Confirmed filters entries to those taking part in play.
func Confirmed(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status == StatusConfirmed {
			out = append(out, e)
		}
	}
	return out
}

func CountConfirmed(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Status == StatusConfirmed {
			n++
		}
	}
	return n
}

// SortBySeed orders entries by seed ascending with unseeded entries last, then by
// registration time, then by ID.
func SortBySeed(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.SeedNumber != nil && b.SeedNumber == nil:
			return true
		case a.SeedNumber == nil && b.SeedNumber != nil:
			return false
		case a.SeedNumber != nil && b.SeedNumber != nil && *a.SeedNumber != *b.SeedNumber:
			return *a.SeedNumber < *b.SeedNumber
		}
		if !a.RegisteredAt.Equal(b.RegisteredAt) {
			return a.RegisteredAt.Before(b.RegisteredAt)
		}
		return a.ID < b.ID
	})
}
