package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// TournamentRepository keeps tournaments in process memory. Atomic serializes
// writers per tournament and publishes their changes all at once.
type TournamentRepository struct {
	mu          sync.RWMutex
	items       map[string]*aggregate
	orders      []string
	submissions map[string]string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{
		items:       make(map[string]*aggregate),
		submissions: make(map[string]string),
		locks:       make(map[string]*sync.Mutex),
	}
}

func (r *TournamentRepository) CreateTournament(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; exists {
		return fmt.Errorf("tournament %s already exists", t.ID)
	}
	r.items[t.ID] = &aggregate{tournament: cloneTournament(t)}
	r.orders = append(r.orders, t.ID)
	return nil
}

func (r *TournamentRepository) Atomic(ctx context.Context, tournamentID string, fn func(ctx context.Context, tx repository.Tx) error) error {
	lock := r.lockFor(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	current, ok := r.items[tournamentID]
	var staged *aggregate
	if ok {
		staged = current.clone()
	}
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: id=%s", tournament.ErrTournamentNotFound, tournamentID)
	}

	tx := &memoryTx{agg: staged}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	r.mu.Lock()
	r.items[tournamentID] = staged
	for _, s := range staged.submissions {
		r.submissions[s.ID] = tournamentID
	}
	r.mu.Unlock()
	return nil
}

func (r *TournamentRepository) Snapshot(ctx context.Context, tournamentID string, fn func(ctx context.Context, reader repository.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var frozen *aggregate
	err := r.view(tournamentID, func(a *aggregate) error {
		frozen = a.clone()
		return nil
	})
	if err != nil {
		return err
	}
	return fn(ctx, &memoryTx{agg: frozen})
}

func (r *TournamentRepository) lockFor(tournamentID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[tournamentID] = lock
	}
	return lock
}

func (r *TournamentRepository) view(tournamentID string, fn func(a *aggregate) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[tournamentID]
	if !ok {
		return fmt.Errorf("%w: id=%s", tournament.ErrTournamentNotFound, tournamentID)
	}
	return fn(a)
}

func (r *TournamentRepository) GetTournament(_ context.Context, tournamentID string) (tournament.Tournament, error) {
	var out tournament.Tournament
	err := r.view(tournamentID, func(a *aggregate) error {
		out = cloneTournament(a.tournament)
		return nil
	})
	return out, err
}

func (r *TournamentRepository) ListEntries(_ context.Context, tournamentID string) ([]entry.Entry, error) {
	var out []entry.Entry
	err := r.view(tournamentID, func(a *aggregate) error {
		out = a.listEntries()
		return nil
	})
	return out, err
}

func (r *TournamentRepository) GetEntry(_ context.Context, tournamentID, entryID string) (entry.Entry, error) {
	var out entry.Entry
	err := r.view(tournamentID, func(a *aggregate) error {
		var err error
		out, err = a.getEntry(entryID)
		return err
	})
	return out, err
}

func (r *TournamentRepository) FindEntryByPlayer(_ context.Context, tournamentID, playerID string) (entry.Entry, bool, error) {
	var (
		out   entry.Entry
		found bool
	)
	err := r.view(tournamentID, func(a *aggregate) error {
		out, found = a.findEntryByPlayer(playerID)
		return nil
	})
	return out, found, err
}

func (r *TournamentRepository) ListRounds(_ context.Context, tournamentID string) ([]bracket.Round, error) {
	var out []bracket.Round
	err := r.view(tournamentID, func(a *aggregate) error {
		out = append([]bracket.Round(nil), a.rounds...)
		return nil
	})
	return out, err
}

func (r *TournamentRepository) ListMatches(_ context.Context, tournamentID string) ([]bracket.Match, error) {
	var out []bracket.Match
	err := r.view(tournamentID, func(a *aggregate) error {
		out = append([]bracket.Match(nil), a.matches...)
		return nil
	})
	return out, err
}

func (r *TournamentRepository) GetMatch(_ context.Context, tournamentID, matchID string) (bracket.Match, error) {
	var out bracket.Match
	err := r.view(tournamentID, func(a *aggregate) error {
		var err error
		out, err = a.getMatch(matchID)
		return err
	})
	return out, err
}

func (r *TournamentRepository) ListStandings(_ context.Context, tournamentID string) ([]standing.Standing, error) {
	var out []standing.Standing
	err := r.view(tournamentID, func(a *aggregate) error {
		out = append([]standing.Standing(nil), a.standings...)
		return nil
	})
	return out, err
}

func (r *TournamentRepository) GetSubmission(_ context.Context, submissionID string) (submission.Submission, error) {
	r.mu.RLock()
	tournamentID, ok := r.submissions[submissionID]
	r.mu.RUnlock()
	if !ok {
		return submission.Submission{}, fmt.Errorf("%w: id=%s", tournament.ErrSubmissionNotFound, submissionID)
	}

	var out submission.Submission
	err := r.view(tournamentID, func(a *aggregate) error {
		var err error
		out, err = a.getSubmission(submissionID)
		return err
	})
	return out, err
}

func (r *TournamentRepository) ListSubmissions(_ context.Context, tournamentID string) ([]submission.Submission, error) {
	var out []submission.Submission
	err := r.view(tournamentID, func(a *aggregate) error {
		out = append([]submission.Submission(nil), a.submissions...)
		return nil
	})
	return out, err
}

func (r *TournamentRepository) ListTournaments(_ context.Context, filter repository.Filter) ([]tournament.Tournament, error) {
	r.mu.RLock()
	out := make([]tournament.Tournament, 0, len(r.orders))
	for _, id := range r.orders {
		t := r.items[id].tournament
		if matchesFilter(t, filter) {
			out = append(out, cloneTournament(t))
		}
	}
	r.mu.RUnlock()

	if filter.OrderByStart {
		sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(t tournament.Tournament, filter repository.Filter) bool {
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, t.Status) {
		return false
	}
	if filter.Format != "" && t.Format != filter.Format {
		return false
	}
	if filter.FeaturedOnly && !t.IsFeatured {
		return false
	}
	if filter.PublicOnly && t.IsPrivate {
		return false
	}
	if !filter.StartAfter.IsZero() && !t.StartTime.After(filter.StartAfter) {
		return false
	}
	if filter.OrganizerID != "" && t.OrganizerID != filter.OrganizerID {
		return false
	}
	return true
}

func (r *TournamentRepository) ListEntriesByPlayer(_ context.Context, playerID string) ([]repository.EntrySummary, error) {
	r.mu.RLock()
	var out []repository.EntrySummary
	for _, id := range r.orders {
		a := r.items[id]
		if e, ok := a.findEntryByPlayer(playerID); ok {
			out = append(out, repository.EntrySummary{Entry: e, Tournament: cloneTournament(a.tournament)})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Entry.RegisteredAt.After(out[j].Entry.RegisteredAt)
	})
	return out, nil
}

func (r *TournamentRepository) CountConfirmed(_ context.Context, tournamentIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(tournamentIDs))
	for _, id := range tournamentIDs {
		if a, ok := r.items[id]; ok {
			out[id] = a.confirmedCount()
		}
	}
	return out, nil
}
