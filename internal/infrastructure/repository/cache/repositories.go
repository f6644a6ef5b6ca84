package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	basecache "github.com/riskibarqy/darts-tournament/internal/platform/cache"
)

// PlayerDirectory memoizes profile lookups. Lookup failures, including unknown
// players, are never cached.
type PlayerDirectory struct {
	next  player.Directory
	cache *basecache.Store[player.Profile]
}

func NewPlayerDirectory(next player.Directory, cache *basecache.Store[player.Profile]) *PlayerDirectory {
	return &PlayerDirectory{next: next, cache: cache}
}

func (d *PlayerDirectory) GetProfile(ctx context.Context, playerID string) (player.Profile, error) {
	return d.cache.GetOrLoad(ctx, profileKey(playerID), func(ctx context.Context) (player.Profile, error) {
		return d.next.GetProfile(ctx, playerID)
	})
}

// Forget drops a cached profile, e.g. after the player renamed their account.
func (d *PlayerDirectory) Forget(ctx context.Context, playerID string) {
	d.cache.Delete(ctx, profileKey(playerID))
}

func profileKey(playerID string) string {
	return "profile:" + playerID
}

// RatingRepository caches leaderboard pages. Every successful Update evicts
// them together with the player's own record.
type RatingRepository struct {
	next  rating.Repository
	cache *basecache.Store[[]rating.Rating]
}

func NewRatingRepository(next rating.Repository, cache *basecache.Store[[]rating.Rating]) *RatingRepository {
	return &RatingRepository{next: next, cache: cache}
}

func (r *RatingRepository) Get(ctx context.Context, playerID string) (rating.Rating, bool, error) {
	items, err := r.cache.GetOrLoad(ctx, ratingKey(playerID), func(ctx context.Context) ([]rating.Rating, error) {
		item, exists, err := r.next.Get(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return []rating.Rating{}, nil
		}
		return []rating.Rating{cloneRating(item)}, nil
	})
	if err != nil {
		return rating.Rating{}, false, err
	}
	if len(items) == 0 {
		return rating.Rating{}, false, nil
	}
	return cloneRating(items[0]), true, nil
}

func (r *RatingRepository) Update(ctx context.Context, playerID string, fn func(*rating.Rating) error) (rating.Rating, error) {
	out, err := r.next.Update(ctx, playerID, fn)
	if err != nil {
		return rating.Rating{}, err
	}
	r.cache.Delete(ctx, ratingKey(playerID))
	r.cache.DeletePrefix(ctx, leaderboardPrefix)
	return out, nil
}

func (r *RatingRepository) Leaderboard(ctx context.Context, limit int) ([]rating.Rating, error) {
	key := leaderboardPrefix + strconv.Itoa(limit)
	items, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]rating.Rating, error) {
		items, err := r.next.Leaderboard(ctx, limit)
		if err != nil {
			return nil, err
		}
		return cloneRatings(items), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRatings(items), nil
}

const leaderboardPrefix = "rating:leaderboard:"

func ratingKey(playerID string) string {
	return "rating:player:" + playerID
}

func cloneRating(item rating.Rating) rating.Rating {
	out := item
	if item.LastTournamentAt != nil {
		at := *item.LastTournamentAt
		out.LastTournamentAt = &at
	}
	return out
}

func cloneRatings(items []rating.Rating) []rating.Rating {
	out := make([]rating.Rating, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRating(item))
	}
	return out
}
