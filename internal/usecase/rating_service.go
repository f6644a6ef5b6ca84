package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

const (
	defaultLeaderboardLimit = 100
	maxLeaderboardLimit     = 100
	placementWorkers        = 8
)

// RatingService maintains cross-tournament ELO ratings. Updates run after the
// result that caused them has committed; a failed update is logged and never
// undoes the result.
type RatingService struct {
	ratings  rating.Repository
	repo     repository.Repository
	settings Settings
	logger   *logging.Logger
	now      func() time.Time
}

func NewRatingService(ratings rating.Repository, repo repository.Repository, settings Settings, logger *logging.Logger) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RatingService{
		ratings:  ratings,
		repo:     repo,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RatingService) Leaderboard(ctx context.Context, limit int) ([]rating.Rating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.Leaderboard")
	defer span.End()

	if !s.settings.LeaderboardsEnabled {
		return nil, fmt.Errorf("%w: leaderboards are disabled", tournament.ErrFeatureDisabled)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)

	out, err := s.ratings.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return out, nil
}

// MyRating returns the player's rating, or the default record when the player
// has not finished a rated match yet.
func (s *RatingService) MyRating(ctx context.Context, playerID string) (rating.Rating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.MyRating")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return rating.Rating{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	r, ok, err := s.ratings.Get(ctx, playerID)
	if err != nil {
		return rating.Rating{}, fmt.Errorf("get rating: %w", err)
	}
	if !ok {
		return rating.New(playerID, s.now().UTC()), nil
	}
	return r, nil
}

// apply records the rating effects of a committed progress step.
func (s *RatingService) apply(ctx context.Context, tournamentID string, decided []decidedMatch, placements []placement) {
	if s == nil {
		return
	}

	changes := make(map[string]int)
	for _, m := range decided {
		winnerDelta, loserDelta, err := s.recordMatch(ctx, m.WinnerPlayerID, m.LoserPlayerID)
		if err != nil {
			s.logger.WarnContext(ctx, "record match rating failed",
				"tournament_id", tournamentID,
				"match_id", m.MatchID,
				"error", err,
			)
			continue
		}
		changes[m.WinnerEntryID] += winnerDelta
		changes[m.LoserEntryID] += loserDelta
	}

	// Tallies touch one player each, so they fan out once the ELO pass is done.
	finishedAt := s.now().UTC()
	workers := pool.New().WithMaxGoroutines(placementWorkers)
	for _, p := range placements {
		if p.PlayerID == "" {
			continue
		}
		workers.Go(func() {
			_, err := s.ratings.Update(ctx, p.PlayerID, func(r *rating.Rating) error {
				r.ApplyTournament(p.Rank, p.TournamentPoints, finishedAt)
				return nil
			})
			if err != nil {
				s.logger.WarnContext(ctx, "record tournament rating failed",
					"tournament_id", tournamentID,
					"player_id", p.PlayerID,
					"error", err,
				)
			}
		})
	}
	workers.Wait()

	if len(changes) > 0 {
		s.storeEntryChanges(ctx, tournamentID, changes)
	}
}

// recordMatch applies one ELO result to both players, each against the other's
// rating as read before either update.
func (s *RatingService) recordMatch(ctx context.Context, winnerID, loserID string) (int, int, error) {
	winnerRating, err := s.current(ctx, winnerID)
	if err != nil {
		return 0, 0, err
	}
	loserRating, err := s.current(ctx, loserID)
	if err != nil {
		return 0, 0, err
	}

	now := s.now().UTC()
	var winnerDelta, loserDelta int
	if _, err := s.ratings.Update(ctx, winnerID, func(r *rating.Rating) error {
		winnerDelta = r.ApplyMatch(loserRating, 1, now)
		return nil
	}); err != nil {
		return 0, 0, fmt.Errorf("update winner rating: %w", err)
	}
	if _, err := s.ratings.Update(ctx, loserID, func(r *rating.Rating) error {
		loserDelta = r.ApplyMatch(winnerRating, 0, now)
		return nil
	}); err != nil {
		return 0, 0, fmt.Errorf("update loser rating: %w", err)
	}
	return winnerDelta, loserDelta, nil
}

func (s *RatingService) current(ctx context.Context, playerID string) (int, error) {
	r, ok, err := s.ratings.Get(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("get rating %s: %w", playerID, err)
	}
	if !ok {
		return rating.DefaultRating, nil
	}
	return r.Value, nil
}

func (s *RatingService) storeEntryChanges(ctx context.Context, tournamentID string, changes map[string]int) {
	err := s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		for entryID, delta := range changes {
			e, err := tx.GetEntry(ctx, tournamentID, entryID)
			if err != nil {
				return err
			}
			e.RatingChange += delta
			if err := tx.UpdateEntry(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "store entry rating change failed", "tournament_id", tournamentID, "error", err)
	}
}
