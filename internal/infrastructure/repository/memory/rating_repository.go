package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
)

type RatingRepository struct {
	mu    sync.RWMutex
	items map[string]rating.Rating
	now   func() time.Time
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{
		items: make(map[string]rating.Rating),
		now:   time.Now,
	}
}

func (r *RatingRepository) Get(_ context.Context, playerID string) (rating.Rating, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[playerID]
	return item, ok, nil
}

func (r *RatingRepository) Update(_ context.Context, playerID string, fn func(*rating.Rating) error) (rating.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[playerID]
	if !ok {
		item = rating.New(playerID, r.now())
	}
	if err := fn(&item); err != nil {
		return rating.Rating{}, err
	}
	r.items[playerID] = item
	return item, nil
}

func (r *RatingRepository) Leaderboard(_ context.Context, limit int) ([]rating.Rating, error) {
	r.mu.RLock()
	out := make([]rating.Rating, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
