// Package repository declares the persistence port of the tournament aggregate.
package repository

import (
	"context"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// Reader loads parts of one tournament. Missing rows return the matching
// tournament.Err*NotFound kind.
type Reader interface {
	GetTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error)
	ListEntries(ctx context.Context, tournamentID string) ([]entry.Entry, error)
	GetEntry(ctx context.Context, tournamentID, entryID string) (entry.Entry, error)
	FindEntryByPlayer(ctx context.Context, tournamentID, playerID string) (entry.Entry, bool, error)
	ListRounds(ctx context.Context, tournamentID string) ([]bracket.Round, error)
	ListMatches(ctx context.Context, tournamentID string) ([]bracket.Match, error)
	GetMatch(ctx context.Context, tournamentID, matchID string) (bracket.Match, error)
	// ListStandings returns rows ordered by rank.
	ListStandings(ctx context.Context, tournamentID string) ([]standing.Standing, error)
	GetSubmission(ctx context.Context, submissionID string) (submission.Submission, error)
	ListSubmissions(ctx context.Context, tournamentID string) ([]submission.Submission, error)
}

// Writer mutates parts of one tournament. Only available inside Atomic.
type Writer interface {
	UpdateTournament(ctx context.Context, t tournament.Tournament) error
	InsertEntry(ctx context.Context, e entry.Entry) error
	UpdateEntry(ctx context.Context, e entry.Entry) error
	InsertRounds(ctx context.Context, rounds []bracket.Round) error
	UpdateRound(ctx context.Context, round bracket.Round) error
	InsertMatches(ctx context.Context, matches []bracket.Match) error
	UpdateMatch(ctx context.Context, m bracket.Match) error
	ReplaceStandings(ctx context.Context, tournamentID string, rows []standing.Standing) error
	InsertSubmission(ctx context.Context, s submission.Submission) error
	UpdateSubmission(ctx context.Context, s submission.Submission) error
}

// Tx is the view handed to Atomic callbacks. It holds the tournament lock.
type Tx interface {
	Reader
	Writer
}

type Filter struct {
	Statuses     []tournament.Status
	Format       tournament.Format
	FeaturedOnly bool
	PublicOnly   bool
	// StartAfter keeps tournaments whose start time is strictly later.
	StartAfter  time.Time
	OrganizerID string
	// OrderByStart sorts by start time ascending instead of newest first.
	OrderByStart bool
	Limit        int
}

// EntrySummary pairs an entry with its tournament for per-player listings.
type EntrySummary struct {
	Entry      entry.Entry
	Tournament tournament.Tournament
}

type Repository interface {
	Reader
	CreateTournament(ctx context.Context, t tournament.Tournament) error
	ListTournaments(ctx context.Context, filter Filter) ([]tournament.Tournament, error)
	ListEntriesByPlayer(ctx context.Context, playerID string) ([]EntrySummary, error)
	// CountConfirmed returns confirmed entry counts keyed by tournament ID.
	CountConfirmed(ctx context.Context, tournamentIDs []string) (map[string]int, error)
	// Atomic runs fn with exclusive access to one tournament. Every write made
	// through tx becomes visible together when fn returns nil and is discarded
	// otherwise. It returns tournament.ErrTournamentNotFound for unknown IDs.
	Atomic(ctx context.Context, tournamentID string, fn func(ctx context.Context, tx Tx) error) error
	// Snapshot runs fn against one consistent read-only view of a tournament.
	// Writers committing meanwhile are not observed.
	Snapshot(ctx context.Context, tournamentID string, fn func(ctx context.Context, reader Reader) error) error
}
