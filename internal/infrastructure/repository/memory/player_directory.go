package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
)

// PlayerDirectory serves profiles from a fixed in-process set. It stands in for
// the identity service in local runs and tests.
type PlayerDirectory struct {
	mu       sync.RWMutex
	profiles map[string]player.Profile
}

func NewPlayerDirectory(profiles []player.Profile) *PlayerDirectory {
	index := make(map[string]player.Profile, len(profiles))
	for _, p := range profiles {
		index[p.ID] = p
	}
	return &PlayerDirectory{profiles: index}
}

func (d *PlayerDirectory) GetProfile(_ context.Context, playerID string) (player.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[playerID]
	if !ok {
		return player.Profile{}, fmt.Errorf("%w: id=%s", player.ErrProfileNotFound, playerID)
	}
	return p, nil
}

// Upsert adds or replaces a profile.
func (d *PlayerDirectory) Upsert(p player.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.ID] = p
}
