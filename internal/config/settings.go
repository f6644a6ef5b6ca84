package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

// settingsFile mirrors usecase.Settings with optional fields; keys missing from
// the file keep the value they already had.
type settingsFile struct {
	TournamentsEnabled         *bool `toml:"tournaments_enabled"`
	LeaderboardsEnabled        *bool `toml:"leaderboards_enabled"`
	MaintenanceMode            *bool `toml:"maintenance_mode"`
	ScoreSubmissionEnabled     *bool `toml:"score_submission_enabled"`
	SwissRandomFirstRound      *bool `toml:"swiss_random_first_round"`
	MaxTournamentsPerOrganizer *int  `toml:"max_tournaments_per_organizer"`
	MaxTournamentParticipants  *int  `toml:"max_tournament_participants"`
	MaxAPICallsPerMinute       *int  `toml:"max_api_calls_per_minute"`
}

// LoadSettingsFile overlays the TOML file at path onto base.
func LoadSettingsFile(path string, base usecase.Settings) (usecase.Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return usecase.Settings{}, fmt.Errorf("read engine settings: %w", err)
	}
	return parseSettings(raw, base)
}

func parseSettings(raw []byte, base usecase.Settings) (usecase.Settings, error) {
	var file settingsFile
	md, err := toml.Decode(string(raw), &file)
	if err != nil {
		return usecase.Settings{}, fmt.Errorf("decode engine settings: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return usecase.Settings{}, fmt.Errorf("unknown engine settings keys: %v", undecoded)
	}

	out := base
	setBool(&out.TournamentsEnabled, file.TournamentsEnabled)
	setBool(&out.LeaderboardsEnabled, file.LeaderboardsEnabled)
	setBool(&out.MaintenanceMode, file.MaintenanceMode)
	setBool(&out.ScoreSubmissionEnabled, file.ScoreSubmissionEnabled)
	setBool(&out.SwissRandomFirstRound, file.SwissRandomFirstRound)

	limits := []struct {
		name string
		dst  *int
		src  *int
	}{
		{"max_tournaments_per_organizer", &out.MaxTournamentsPerOrganizer, file.MaxTournamentsPerOrganizer},
		{"max_tournament_participants", &out.MaxTournamentParticipants, file.MaxTournamentParticipants},
		{"max_api_calls_per_minute", &out.MaxAPICallsPerMinute, file.MaxAPICallsPerMinute},
	}
	for _, l := range limits {
		if l.src == nil {
			continue
		}
		if *l.src < 0 {
			return usecase.Settings{}, fmt.Errorf("engine setting %s must be >= 0", l.name)
		}
		*l.dst = *l.src
	}

	return out, nil
}

func setBool(dst, src *bool) {
	if src != nil {
		*dst = *src
	}
}
