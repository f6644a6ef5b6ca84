package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

// StandingService rebuilds tournament tables. Every recompute covers the whole
// tournament and runs under the tournament lock, so passes never interleave.
type StandingService struct {
	repo   repository.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewStandingService(repo repository.Repository, logger *logging.Logger) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Recompute rebuilds the table of tournamentID from its full match history
// inside an open transaction.
func (s *StandingService) Recompute(ctx context.Context, tx repository.Tx, tournamentID string) ([]standing.Standing, error) {
	entries, err := tx.ListEntries(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	matches, err := tx.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	entry.SortBySeed(entries)
	rows := standing.Compute(tournamentID, entries, matches, s.now().UTC())
	if err := tx.ReplaceStandings(ctx, tournamentID, rows); err != nil {
		return nil, fmt.Errorf("replace standings: %w", err)
	}
	return rows, nil
}

// Rebuild lets an organizer force a fresh recompute of a started tournament.
func (s *StandingService) Rebuild(ctx context.Context, tournamentID string, actor user.Principal) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.Rebuild")
	defer span.End()

	var rows []standing.Standing
	err := s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if err := requireManager(t, actor); err != nil {
			return err
		}
		rows, err = s.Recompute(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "standings rebuilt", "tournament_id", tournamentID, "rows", len(rows))
	return rows, nil
}
