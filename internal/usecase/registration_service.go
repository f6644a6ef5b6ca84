package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

const (
	maxBatchAddPlayers    = 100
	defaultProfileWorkers = 8
)

type RegisterInput struct {
	TournamentID string
	PlayerID     string
	Password     string
}

type EntryDecisionInput struct {
	TournamentID string
	EntryID      string
	Actor        user.Principal
}

type BatchAddInput struct {
	TournamentID string
	Actor        user.Principal
	PlayerIDs    []string
	AutoApprove  bool
}

// BatchAddResult lists the entries created and one message per player that
// could not be added.
type BatchAddResult struct {
	Added  []entry.Entry
	Errors []string
}

type RegistrationService struct {
	repo      repository.Repository
	directory player.Directory
	idGen     idgen.Generator
	settings  Settings
	metrics   Metrics
	logger    *logging.Logger
	workers   int
	now       func() time.Time
}

func NewRegistrationService(
	repo repository.Repository,
	directory player.Directory,
	idGen idgen.Generator,
	settings Settings,
	metrics Metrics,
	logger *logging.Logger,
) *RegistrationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationService{
		repo:      repo,
		directory: directory,
		idGen:     idGen,
		settings:  settings,
		metrics:   metricsOrNop(metrics),
		logger:    logger,
		workers:   defaultProfileWorkers,
		now:       time.Now,
	}
}

func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Register")
	defer span.End()

	if err := s.settings.writable(); err != nil {
		return entry.Entry{}, err
	}
	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.TournamentID == "" || input.PlayerID == "" {
		return entry.Entry{}, fmt.Errorf("%w: tournament id and player id are required", ErrInvalidInput)
	}

	// The profile is fetched before taking the lock; a lookup failure is only
	// reported once the registration checks that precede the skill check pass.
	profile, profileErr := s.directory.GetProfile(ctx, input.PlayerID)

	entryID, err := s.idGen.NewID()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("generate entry id: %w", err)
	}

	var (
		created    entry.Entry
		autoClosed bool
	)
	err = s.repo.Atomic(ctx, input.TournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, input.TournamentID)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntries(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		now := s.now().UTC()
		confirmed := entry.CountConfirmed(entries)
		if !t.IsRegistrationOpen(now, confirmed) || !t.AllowPublicRegistration {
			return fmt.Errorf("%w: tournament=%s status=%s confirmed=%d/%d",
				tournament.ErrRegistrationClosed, t.ID, t.Status, confirmed, t.MaxParticipants)
		}
		if !t.PasswordMatches(input.Password) {
			return fmt.Errorf("%w: tournament=%s", tournament.ErrInvalidPassword, t.ID)
		}
		if profileErr != nil {
			return profileLookupError(input.PlayerID, profileErr)
		}
		if !profile.SkillLevel.AtLeast(t.MinSkillLevel) {
			return fmt.Errorf("%w: player=%s level=%s minimum=%s",
				tournament.ErrSkillTooLow, input.PlayerID, profile.SkillLevel, t.MinSkillLevel)
		}
		if existing, ok, err := tx.FindEntryByPlayer(ctx, t.ID, input.PlayerID); err != nil {
			return fmt.Errorf("find entry by player: %w", err)
		} else if ok {
			return fmt.Errorf("%w: player=%s entry=%s status=%s",
				tournament.ErrAlreadyRegistered, input.PlayerID, existing.ID, existing.Status)
		}

		created = newEntry(entryID, t, profile, !t.RequireApproval, now)
		if err := tx.InsertEntry(ctx, created); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		if created.Status == entry.StatusConfirmed {
			confirmed++
		}

		autoClosed, err = closeWhenFull(ctx, tx, &t, confirmed, now)
		return err
	})
	if err != nil {
		return entry.Entry{}, err
	}

	s.metrics.EntryRegistered(string(created.Status))
	s.logger.InfoContext(ctx, "player registered",
		"tournament_id", created.TournamentID,
		"player_id", created.PlayerID,
		"entry_id", created.ID,
		"status", string(created.Status),
		"auto_closed", autoClosed,
	)
	return created, nil
}

func (s *RegistrationService) Approve(ctx context.Context, input EntryDecisionInput) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Approve")
	defer span.End()

	var out entry.Entry
	err := s.repo.Atomic(ctx, input.TournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, e, err := s.pendingEntry(ctx, tx, input)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntries(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		confirmed := entry.CountConfirmed(entries)
		if confirmed >= t.MaxParticipants {
			return fmt.Errorf("%w: tournament=%s is full", tournament.ErrRegistrationClosed, t.ID)
		}

		now := s.now().UTC()
		e.Status = entry.StatusConfirmed
		e.ApprovedAt = &now
		if err := tx.UpdateEntry(ctx, e); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		out = e

		_, err = closeWhenFull(ctx, tx, &t, confirmed+1, now)
		return err
	})
	if err != nil {
		return entry.Entry{}, err
	}

	s.metrics.EntryRegistered(string(out.Status))
	s.logger.InfoContext(ctx, "entry approved", "tournament_id", out.TournamentID, "entry_id", out.ID, "actor_id", input.Actor.UserID)
	return out, nil
}

func (s *RegistrationService) Decline(ctx context.Context, input EntryDecisionInput) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Decline")
	defer span.End()

	var out entry.Entry
	err := s.repo.Atomic(ctx, input.TournamentID, func(ctx context.Context, tx repository.Tx) error {
		_, e, err := s.pendingEntry(ctx, tx, input)
		if err != nil {
			return err
		}
		e.Status = entry.StatusDeclined
		if err := tx.UpdateEntry(ctx, e); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		out = e
		return nil
	})
	if err != nil {
		return entry.Entry{}, err
	}

	s.logger.InfoContext(ctx, "entry declined", "tournament_id", out.TournamentID, "entry_id", out.ID, "actor_id", input.Actor.UserID)
	return out, nil
}

func (s *RegistrationService) pendingEntry(ctx context.Context, tx repository.Tx, input EntryDecisionInput) (tournament.Tournament, entry.Entry, error) {
	t, err := tx.GetTournament(ctx, input.TournamentID)
	if err != nil {
		return tournament.Tournament{}, entry.Entry{}, err
	}
	if err := requireManager(t, input.Actor); err != nil {
		return tournament.Tournament{}, entry.Entry{}, err
	}
	if t.Status.Started() {
		return tournament.Tournament{}, entry.Entry{}, fmt.Errorf("%w: tournament=%s", tournament.ErrTournamentStarted, t.ID)
	}
	e, err := tx.GetEntry(ctx, t.ID, input.EntryID)
	if err != nil {
		return tournament.Tournament{}, entry.Entry{}, err
	}
	if e.Status != entry.StatusPending {
		return tournament.Tournament{}, entry.Entry{}, fmt.Errorf("%w: entry=%s status=%s", tournament.ErrNotPending, e.ID, e.Status)
	}
	return t, e, nil
}

func (s *RegistrationService) Withdraw(ctx context.Context, tournamentID, playerID string) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Withdraw")
	defer span.End()

	var out entry.Entry
	err := s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if t.Status.Started() {
			return fmt.Errorf("%w: tournament=%s status=%s", tournament.ErrTournamentStarted, t.ID, t.Status)
		}
		e, ok, err := tx.FindEntryByPlayer(ctx, t.ID, playerID)
		if err != nil {
			return fmt.Errorf("find entry by player: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: player=%s tournament=%s", tournament.ErrEntryNotFound, playerID, t.ID)
		}

		switch e.Status {
		case entry.StatusWithdrawn:
			out = e
			return nil
		case entry.StatusPending, entry.StatusConfirmed:
		default:
			return fmt.Errorf("%w: entry %s is %s", ErrInvalidInput, e.ID, e.Status)
		}

		e.Status = entry.StatusWithdrawn
		if err := tx.UpdateEntry(ctx, e); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		out = e
		return nil
	})
	if err != nil {
		return entry.Entry{}, err
	}

	s.logger.InfoContext(ctx, "player withdrew", "tournament_id", tournamentID, "player_id", playerID, "entry_id", out.ID)
	return out, nil
}

func (s *RegistrationService) BatchAdd(ctx context.Context, input BatchAddInput) (BatchAddResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.BatchAdd")
	defer span.End()

	if err := s.settings.writable(); err != nil {
		return BatchAddResult{}, err
	}
	playerIDs := cleanIDs(input.PlayerIDs)
	if len(playerIDs) == 0 || len(playerIDs) > maxBatchAddPlayers {
		return BatchAddResult{}, fmt.Errorf("%w: between 1 and %d player ids are required", ErrInvalidInput, maxBatchAddPlayers)
	}

	t, err := s.repo.GetTournament(ctx, input.TournamentID)
	if err != nil {
		return BatchAddResult{}, err
	}
	if err := requireManager(t, input.Actor); err != nil {
		return BatchAddResult{}, err
	}

	profiles, err := s.fetchProfiles(ctx, playerIDs)
	if err != nil {
		return BatchAddResult{}, err
	}

	entryIDs := make([]string, len(playerIDs))
	for i := range playerIDs {
		if entryIDs[i], err = s.idGen.NewID(); err != nil {
			return BatchAddResult{}, fmt.Errorf("generate entry id: %w", err)
		}
	}

	var result BatchAddResult
	err = s.repo.Atomic(ctx, input.TournamentID, func(ctx context.Context, tx repository.Tx) error {
		result = BatchAddResult{}

		t, err := tx.GetTournament(ctx, input.TournamentID)
		if err != nil {
			return err
		}
		if t.Status.Started() {
			return fmt.Errorf("%w: tournament=%s", tournament.ErrTournamentStarted, t.ID)
		}
		if t.Status.Terminal() {
			return fmt.Errorf("%w: tournament %s is %s", tournament.ErrInvalidTransition, t.ID, t.Status)
		}
		entries, err := tx.ListEntries(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		now := s.now().UTC()
		confirmed := entry.CountConfirmed(entries)
		for i, playerID := range playerIDs {
			fetched := profiles[i]
			if fetched.err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("player %s: %v", playerID, fetched.err))
				continue
			}
			if _, ok, err := tx.FindEntryByPlayer(ctx, t.ID, playerID); err != nil {
				return fmt.Errorf("find entry by player: %w", err)
			} else if ok {
				result.Errors = append(result.Errors, fmt.Sprintf("player %s: already registered", playerID))
				continue
			}
			if confirmed >= t.MaxParticipants {
				result.Errors = append(result.Errors, fmt.Sprintf("player %s: tournament full", playerID))
				continue
			}

			e := newEntry(entryIDs[i], t, fetched.profile, input.AutoApprove, now)
			if err := tx.InsertEntry(ctx, e); err != nil {
				return fmt.Errorf("insert entry: %w", err)
			}
			if e.Status == entry.StatusConfirmed {
				confirmed++
			}
			result.Added = append(result.Added, e)
		}

		_, err = closeWhenFull(ctx, tx, &t, confirmed, now)
		return err
	})
	if err != nil {
		return BatchAddResult{}, err
	}

	for _, e := range result.Added {
		s.metrics.EntryRegistered(string(e.Status))
	}
	s.logger.InfoContext(ctx, "batch add finished",
		"tournament_id", input.TournamentID,
		"actor_id", input.Actor.UserID,
		"added", len(result.Added),
		"failed", len(result.Errors),
	)
	return result, nil
}

type profileResult struct {
	profile player.Profile
	err     error
}

// fetchProfiles resolves every player on a bounded worker pool. Lookup failures
// are returned per player; only a pool failure fails the call.
func (s *RegistrationService) fetchProfiles(ctx context.Context, playerIDs []string) ([]profileResult, error) {
	out := make([]profileResult, len(playerIDs))

	pool, err := ants.NewPool(min(s.workers, len(playerIDs)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, playerID := range playerIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			profile, err := s.directory.GetProfile(ctx, playerID)
			if err != nil {
				out[i] = profileResult{err: profileLookupError(playerID, err)}
				return
			}
			out[i] = profileResult{profile: profile}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit profile lookup: %w", err)
		}
	}
	workers.Wait()

	return out, nil
}

func profileLookupError(playerID string, err error) error {
	if errors.Is(err, player.ErrProfileNotFound) {
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	return fmt.Errorf("%w: player %s: %v", ErrDependencyUnavailable, playerID, err)
}

func newEntry(id string, t tournament.Tournament, profile player.Profile, confirmed bool, now time.Time) entry.Entry {
	e := entry.Entry{
		ID:           id,
		TournamentID: t.ID,
		PlayerID:     profile.ID,
		DisplayName:  profile.DisplayName,
		Status:       entry.StatusPending,
		RegisteredAt: now,
	}
	if confirmed {
		approvedAt := now
		e.Status = entry.StatusConfirmed
		e.ApprovedAt = &approvedAt
	}
	return e
}

// closeWhenFull moves an open tournament to RegistrationClosed once confirmed
// reaches capacity.
func closeWhenFull(ctx context.Context, tx repository.Tx, t *tournament.Tournament, confirmed int, now time.Time) (bool, error) {
	if t.Status != tournament.StatusRegistrationOpen || confirmed < t.MaxParticipants {
		return false, nil
	}
	if err := t.TransitionTo(tournament.StatusRegistrationClosed, now); err != nil {
		return false, err
	}
	if err := tx.UpdateTournament(ctx, *t); err != nil {
		return false, fmt.Errorf("update tournament: %w", err)
	}
	return true, nil
}

func cleanIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
