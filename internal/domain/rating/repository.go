package rating

import "context"

// Repository stores ratings. Update runs fn under a per-player lock, creating the
// default record when the player has none yet.
type Repository interface {
	Get(ctx context.Context, playerID string) (Rating, bool, error)
	Update(ctx context.Context, playerID string, fn func(*Rating) error) (Rating, error)
	Leaderboard(ctx context.Context, limit int) ([]Rating, error)
}
