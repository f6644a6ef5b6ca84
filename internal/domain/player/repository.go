package player

import (
	"context"
	"errors"
)

var ErrProfileNotFound = errors.New("player profile not found")

// Directory resolves player profiles from the identity service.
type Directory interface {
	GetProfile(ctx context.Context, playerID string) (Profile, error)
}
