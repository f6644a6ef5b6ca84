package usecase

import (
	"fmt"

	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// Settings are the engine feature flags. They are built once at startup and
// passed to every service that needs them.
type Settings struct {
	TournamentsEnabled         bool
	LeaderboardsEnabled        bool
	MaintenanceMode            bool
	ScoreSubmissionEnabled     bool
	SwissRandomFirstRound      bool
	MaxTournamentsPerOrganizer int
	MaxTournamentParticipants  int
	MaxAPICallsPerMinute       int
}

func DefaultSettings() Settings {
	return Settings{
		TournamentsEnabled:         true,
		LeaderboardsEnabled:        true,
		ScoreSubmissionEnabled:     true,
		MaxTournamentsPerOrganizer: 5,
		MaxTournamentParticipants:  128,
		MaxAPICallsPerMinute:       60,
	}
}

// writable rejects state-changing commands while tournaments are switched off or
// the engine is in maintenance.
func (s Settings) writable() error {
	if !s.TournamentsEnabled {
		return fmt.Errorf("%w: tournaments are disabled", tournament.ErrFeatureDisabled)
	}
	if s.MaintenanceMode {
		return fmt.Errorf("%w: maintenance mode", tournament.ErrFeatureDisabled)
	}
	return nil
}
