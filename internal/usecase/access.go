package usecase

import (
	"fmt"

	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
)

// requireManager allows the organizer and staff accounts.
func requireManager(t tournament.Tournament, actor user.Principal) error {
	if t.IsOrganizer(actor.UserID) || actor.IsStaff {
		return nil
	}
	return fmt.Errorf("%w: user=%s tournament=%s", tournament.ErrNotOrganizer, actor.UserID, t.ID)
}

func requireOrganizer(t tournament.Tournament, userID string) error {
	if t.IsOrganizer(userID) {
		return nil
	}
	return fmt.Errorf("%w: user=%s tournament=%s", tournament.ErrNotOrganizer, userID, t.ID)
}
