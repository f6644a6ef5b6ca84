package postgres

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// gameSettings maps the jsonb game_settings column.
type gameSettings map[string]string

func (g gameSettings) Value() (driver.Value, error) {
	if len(g) == 0 {
		return []byte("{}"), nil
	}
	return sonic.Marshal(map[string]string(g))
}

func (g *gameSettings) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan game settings: unsupported type %T", src)
	}

	out := map[string]string{}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode game settings: %w", err)
	}
	if len(out) == 0 {
		out = nil
	}
	*g = out
	return nil
}

type tournamentTableModel struct {
	ID                      string         `db:"id"`
	Name                    string         `db:"name"`
	Description             string         `db:"description"`
	OrganizerID             string         `db:"organizer_id"`
	Format                  string         `db:"format"`
	GameMode                string         `db:"game_mode"`
	GameSettings            gameSettings   `db:"game_settings"`
	MaxParticipants         int            `db:"max_participants"`
	MinParticipants         int            `db:"min_participants"`
	RegistrationStart       time.Time      `db:"registration_start"`
	RegistrationEnd         time.Time      `db:"registration_end"`
	StartTime               time.Time      `db:"start_time"`
	EstimatedDurationHours  int            `db:"estimated_duration_hours"`
	Status                  string         `db:"status"`
	CurrentRound            int            `db:"current_round"`
	RegistrationPassword    sql.NullString `db:"registration_password"`
	MinSkillLevel           sql.NullString `db:"min_skill_level"`
	IsPrivate               bool           `db:"is_private"`
	AllowPublicRegistration bool           `db:"allow_public_registration"`
	RequireApproval         bool           `db:"require_approval"`
	ScorePasscode           sql.NullString `db:"score_passcode"`
	AllowScoreSubmission    bool           `db:"allow_score_submission"`
	IsFeatured              bool           `db:"is_featured"`
	PrizePool               int64          `db:"prize_pool"`
	PrizeDescription        string         `db:"prize_description"`
	SwissRounds             int            `db:"swiss_rounds"`
	CreatedAt               time.Time      `db:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at"`
}

type entryTableModel struct {
	ID             string         `db:"id"`
	TournamentID   string         `db:"tournament_id"`
	PlayerID       string         `db:"player_id"`
	DisplayName    string         `db:"display_name"`
	Status         string         `db:"status"`
	SeedNumber     sql.NullInt64  `db:"seed_number"`
	Wins           int            `db:"wins"`
	Losses         int            `db:"losses"`
	Points         int            `db:"points"`
	FinalPlacement sql.NullInt64  `db:"final_placement"`
	TotalScore     int            `db:"total_score"`
	RatingChange   int            `db:"rating_change"`
	RegisteredAt   time.Time      `db:"registered_at"`
	ApprovedAt     *time.Time     `db:"approved_at"`
}

type roundTableModel struct {
	ID              string     `db:"id"`
	TournamentID    string     `db:"tournament_id"`
	RoundNumber     int        `db:"round_number"`
	Name            string     `db:"name"`
	IsLosersBracket bool       `db:"is_losers_bracket"`
	StartedAt       *time.Time `db:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"`
}

type matchTableModel struct {
	ID              string         `db:"id"`
	TournamentID    string         `db:"tournament_id"`
	RoundID         string         `db:"round_id"`
	RoundNumber     int            `db:"round_number"`
	IsLosersBracket bool           `db:"is_losers_bracket"`
	MatchNumber     int            `db:"match_number"`
	Player1EntryID  sql.NullString `db:"player1_entry_id"`
	Player2EntryID  sql.NullString `db:"player2_entry_id"`
	NextMatchID     sql.NullString `db:"next_match_id"`
	Status          string         `db:"status"`
	WinnerEntryID   sql.NullString `db:"winner_entry_id"`
	Player1Score    int            `db:"player1_score"`
	Player2Score    int            `db:"player2_score"`
	GameID          sql.NullString `db:"game_id"`
	ScheduledTime   *time.Time     `db:"scheduled_time"`
	StartedAt       *time.Time     `db:"started_at"`
	CompletedAt     *time.Time     `db:"completed_at"`
}

type standingTableModel struct {
	TournamentID     string    `db:"tournament_id"`
	EntryID          string    `db:"entry_id"`
	Rank             int       `db:"rank"`
	MatchesPlayed    int       `db:"matches_played"`
	MatchesWon       int       `db:"matches_won"`
	MatchesLost      int       `db:"matches_lost"`
	MatchesDrawn     int       `db:"matches_drawn"`
	PointsFor        int       `db:"points_for"`
	PointsAgainst    int       `db:"points_against"`
	PointsDifference int       `db:"points_difference"`
	TournamentPoints int       `db:"tournament_points"`
	Buchholz         float64   `db:"buchholz"`
	SonnebornBerger  float64   `db:"sonneborn_berger"`
	HeadToHeadWins   int       `db:"head_to_head_wins"`
	AverageScore     float64   `db:"average_score"`
	HighestScore     int       `db:"highest_score"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type submissionTableModel struct {
	ID            string         `db:"id"`
	TournamentID  string         `db:"tournament_id"`
	MatchID       string         `db:"match_id"`
	SubmittedBy   string         `db:"submitted_by"`
	Player1Score  int            `db:"player1_score"`
	Player2Score  int            `db:"player2_score"`
	WinnerEntryID sql.NullString `db:"winner_entry_id"`
	Status        string         `db:"status"`
	PasscodeUsed  sql.NullString `db:"passcode_used"`
	VerifiedBy    sql.NullString `db:"verified_by"`
	Notes         string         `db:"notes"`
	SubmittedAt   time.Time      `db:"submitted_at"`
	VerifiedAt    *time.Time     `db:"verified_at"`
}

type ratingTableModel struct {
	PlayerID              string     `db:"player_id"`
	Value                 int        `db:"rating"`
	Peak                  int        `db:"peak_rating"`
	Lowest                int        `db:"lowest_rating"`
	Tier                  string     `db:"tier"`
	TournamentsPlayed     int        `db:"tournaments_played"`
	TournamentsWon        int        `db:"tournaments_won"`
	TournamentsRunnerUp   int        `db:"tournaments_runner_up"`
	TournamentsTop4       int        `db:"tournaments_top4"`
	MatchesWon            int        `db:"matches_won"`
	MatchesLost           int        `db:"matches_lost"`
	TotalTournamentPoints int        `db:"total_tournament_points"`
	LastTournamentAt      *time.Time `db:"last_tournament_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}
