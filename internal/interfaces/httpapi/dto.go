package httpapi

import (
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

// tournamentDTO never carries the registration password or score passcode.
type tournamentDTO struct {
	ID                      string            `json:"id"`
	Name                    string            `json:"name"`
	Description             string            `json:"description,omitempty"`
	OrganizerID             string            `json:"organizer_id"`
	Format                  string            `json:"format"`
	GameMode                string            `json:"game_mode"`
	GameSettings            map[string]string `json:"game_settings,omitempty"`
	MaxParticipants         int               `json:"max_participants"`
	MinParticipants         int               `json:"min_participants"`
	RegistrationStart       time.Time         `json:"registration_start"`
	RegistrationEnd         time.Time         `json:"registration_end"`
	StartTime               time.Time         `json:"start_time"`
	EstimatedDurationHours  int               `json:"estimated_duration_hours,omitempty"`
	Status                  string            `json:"status"`
	CurrentRound            int               `json:"current_round"`
	HasPassword             bool              `json:"has_password"`
	MinSkillLevel           string            `json:"min_skill_level,omitempty"`
	IsPrivate               bool              `json:"is_private"`
	AllowPublicRegistration bool              `json:"allow_public_registration"`
	RequireApproval         bool              `json:"require_approval"`
	AllowScoreSubmission    bool              `json:"allow_score_submission"`
	IsFeatured              bool              `json:"is_featured"`
	PrizePool               int64             `json:"prize_pool"`
	PrizeDescription        string            `json:"prize_description,omitempty"`
	SwissRounds             int               `json:"swiss_rounds,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

type tournamentSummaryDTO struct {
	tournamentDTO
	ParticipantCount int  `json:"participant_count"`
	SpotsRemaining   int  `json:"spots_remaining"`
	RegistrationOpen bool `json:"registration_open"`
}

type tournamentDetailDTO struct {
	tournamentSummaryDTO
	Entries []entryDTO `json:"entries"`
	Rounds  []roundDTO `json:"rounds"`
	Matches []matchDTO `json:"matches"`
}

type entryDTO struct {
	ID             string     `json:"id"`
	TournamentID   string     `json:"tournament_id"`
	PlayerID       string     `json:"player_id"`
	DisplayName    string     `json:"display_name"`
	Status         string     `json:"status"`
	SeedNumber     *int       `json:"seed_number,omitempty"`
	Wins           int        `json:"wins"`
	Losses         int        `json:"losses"`
	Points         int        `json:"points"`
	FinalPlacement *int       `json:"final_placement,omitempty"`
	TotalScore     int        `json:"total_score"`
	RatingChange   int        `json:"rating_change"`
	RegisteredAt   time.Time  `json:"registered_at"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
}

type myEntryDTO struct {
	Entry      entryDTO      `json:"entry"`
	Tournament tournamentDTO `json:"tournament"`
}

type roundDTO struct {
	ID              string     `json:"id"`
	RoundNumber     int        `json:"round_number"`
	Name            string     `json:"name"`
	IsLosersBracket bool       `json:"is_losers_bracket"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type matchDTO struct {
	ID              string     `json:"id"`
	RoundID         string     `json:"round_id"`
	RoundNumber     int        `json:"round_number"`
	IsLosersBracket bool       `json:"is_losers_bracket"`
	MatchNumber     int        `json:"match_number"`
	Player1EntryID  string     `json:"player1_entry_id,omitempty"`
	Player2EntryID  string     `json:"player2_entry_id,omitempty"`
	NextMatchID     string     `json:"next_match_id,omitempty"`
	Status          string     `json:"status"`
	WinnerEntryID   string     `json:"winner_entry_id,omitempty"`
	Player1Score    int        `json:"player1_score"`
	Player2Score    int        `json:"player2_score"`
	GameID          string     `json:"game_id,omitempty"`
	ScheduledTime   *time.Time `json:"scheduled_time,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type standingDTO struct {
	EntryID          string    `json:"entry_id"`
	Rank             int       `json:"rank"`
	MatchesPlayed    int       `json:"matches_played"`
	MatchesWon       int       `json:"matches_won"`
	MatchesLost      int       `json:"matches_lost"`
	MatchesDrawn     int       `json:"matches_drawn"`
	PointsFor        int       `json:"points_for"`
	PointsAgainst    int       `json:"points_against"`
	PointsDifference int       `json:"points_difference"`
	TournamentPoints int       `json:"tournament_points"`
	Buchholz         float64   `json:"buchholz"`
	SonnebornBerger  float64   `json:"sonneborn_berger"`
	HeadToHeadWins   int       `json:"head_to_head_wins"`
	AverageScore     float64   `json:"average_score"`
	HighestScore     int       `json:"highest_score"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type submissionDTO struct {
	ID            string     `json:"id"`
	TournamentID  string     `json:"tournament_id"`
	MatchID       string     `json:"match_id"`
	SubmittedBy   string     `json:"submitted_by"`
	Player1Score  int        `json:"player1_score"`
	Player2Score  int        `json:"player2_score"`
	WinnerEntryID string     `json:"winner_entry_id"`
	Status        string     `json:"status"`
	VerifiedBy    string     `json:"verified_by,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
}

type ratingDTO struct {
	PlayerID              string     `json:"player_id"`
	Rating                int        `json:"rating"`
	PeakRating            int        `json:"peak_rating"`
	LowestRating          int        `json:"lowest_rating"`
	Tier                  string     `json:"tier"`
	TournamentsPlayed     int        `json:"tournaments_played"`
	TournamentsWon        int        `json:"tournaments_won"`
	TournamentsRunnerUp   int        `json:"tournaments_runner_up"`
	TournamentsTop4       int        `json:"tournaments_top4"`
	MatchesWon            int        `json:"matches_won"`
	MatchesLost           int        `json:"matches_lost"`
	TotalTournamentPoints int        `json:"total_tournament_points"`
	LastTournamentAt      *time.Time `json:"last_tournament_at,omitempty"`
}

type startResultDTO struct {
	Tournament tournamentDTO `json:"tournament"`
	Rounds     []roundDTO    `json:"rounds"`
	Matches    []matchDTO    `json:"matches"`
}

type swissRoundDTO struct {
	Tournament tournamentDTO `json:"tournament"`
	Round      roundDTO      `json:"round"`
	Matches    []matchDTO    `json:"matches"`
	Standings  []standingDTO `json:"standings"`
}

type batchAddDTO struct {
	Added  []entryDTO `json:"added"`
	Errors []string   `json:"errors"`
}

type passcodeCheckDTO struct {
	Valid           bool `json:"valid"`
	CanSubmitScores bool `json:"can_submit_scores"`
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:                      t.ID,
		Name:                    t.Name,
		Description:             t.Description,
		OrganizerID:             t.OrganizerID,
		Format:                  string(t.Format),
		GameMode:                string(t.GameMode),
		GameSettings:            t.GameSettings,
		MaxParticipants:         t.MaxParticipants,
		MinParticipants:         t.MinParticipants,
		RegistrationStart:       t.RegistrationStart,
		RegistrationEnd:         t.RegistrationEnd,
		StartTime:               t.StartTime,
		EstimatedDurationHours:  t.EstimatedDurationHours,
		Status:                  string(t.Status),
		CurrentRound:            t.CurrentRound,
		HasPassword:             t.RegistrationPassword != "",
		MinSkillLevel:           string(t.MinSkillLevel),
		IsPrivate:               t.IsPrivate,
		AllowPublicRegistration: t.AllowPublicRegistration,
		RequireApproval:         t.RequireApproval,
		AllowScoreSubmission:    t.AllowScoreSubmission,
		IsFeatured:              t.IsFeatured,
		PrizePool:               t.PrizePool,
		PrizeDescription:        t.PrizeDescription,
		SwissRounds:             t.SwissRounds,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
}

func summaryToDTO(s usecase.TournamentSummary) tournamentSummaryDTO {
	return tournamentSummaryDTO{
		tournamentDTO:    tournamentToDTO(s.Tournament),
		ParticipantCount: s.ParticipantCount,
		SpotsRemaining:   s.SpotsRemaining,
		RegistrationOpen: s.RegistrationOpen,
	}
}

func summariesToDTO(items []usecase.TournamentSummary) []tournamentSummaryDTO {
	out := make([]tournamentSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, summaryToDTO(item))
	}
	return out
}

func detailToDTO(d usecase.TournamentDetail) tournamentDetailDTO {
	return tournamentDetailDTO{
		tournamentSummaryDTO: tournamentSummaryDTO{
			tournamentDTO:    tournamentToDTO(d.Tournament),
			ParticipantCount: d.ParticipantCount,
			SpotsRemaining:   d.SpotsRemaining,
			RegistrationOpen: d.RegistrationOpen,
		},
		Entries: entriesToDTO(d.Entries),
		Rounds:  roundsToDTO(d.Rounds),
		Matches: matchesToDTO(d.Matches),
	}
}

func entryToDTO(e entry.Entry) entryDTO {
	return entryDTO{
		ID:             e.ID,
		TournamentID:   e.TournamentID,
		PlayerID:       e.PlayerID,
		DisplayName:    e.DisplayName,
		Status:         string(e.Status),
		SeedNumber:     e.SeedNumber,
		Wins:           e.Wins,
		Losses:         e.Losses,
		Points:         e.Points,
		FinalPlacement: e.FinalPlacement,
		TotalScore:     e.TotalScore,
		RatingChange:   e.RatingChange,
		RegisteredAt:   e.RegisteredAt,
		ApprovedAt:     e.ApprovedAt,
	}
}

func entriesToDTO(items []entry.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, entryToDTO(item))
	}
	return out
}

func myEntriesToDTO(items []repository.EntrySummary) []myEntryDTO {
	out := make([]myEntryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, myEntryDTO{
			Entry:      entryToDTO(item.Entry),
			Tournament: tournamentToDTO(item.Tournament),
		})
	}
	return out
}

func roundToDTO(r bracket.Round) roundDTO {
	return roundDTO{
		ID:              r.ID,
		RoundNumber:     r.RoundNumber,
		Name:            r.Name,
		IsLosersBracket: r.IsLosersBracket,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
	}
}

func roundsToDTO(items []bracket.Round) []roundDTO {
	out := make([]roundDTO, 0, len(items))
	for _, item := range items {
		out = append(out, roundToDTO(item))
	}
	return out
}

func matchesToDTO(items []bracket.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchDTO{
			ID:              m.ID,
			RoundID:         m.RoundID,
			RoundNumber:     m.RoundNumber,
			IsLosersBracket: m.IsLosersBracket,
			MatchNumber:     m.MatchNumber,
			Player1EntryID:  m.Player1EntryID,
			Player2EntryID:  m.Player2EntryID,
			NextMatchID:     m.NextMatchID,
			Status:          string(m.Status),
			WinnerEntryID:   m.WinnerEntryID,
			Player1Score:    m.Player1Score,
			Player2Score:    m.Player2Score,
			GameID:          m.GameID,
			ScheduledTime:   m.ScheduledTime,
			StartedAt:       m.StartedAt,
			CompletedAt:     m.CompletedAt,
		})
	}
	return out
}

func standingsToDTO(items []standing.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, s := range items {
		out = append(out, standingDTO{
			EntryID:          s.EntryID,
			Rank:             s.Rank,
			MatchesPlayed:    s.MatchesPlayed,
			MatchesWon:       s.MatchesWon,
			MatchesLost:      s.MatchesLost,
			MatchesDrawn:     s.MatchesDrawn,
			PointsFor:        s.PointsFor,
			PointsAgainst:    s.PointsAgainst,
			PointsDifference: s.PointsDifference,
			TournamentPoints: s.TournamentPoints,
			Buchholz:         s.Buchholz,
			SonnebornBerger:  s.SonnebornBerger,
			HeadToHeadWins:   s.HeadToHeadWins,
			AverageScore:     s.AverageScore,
			HighestScore:     s.HighestScore,
			UpdatedAt:        s.UpdatedAt,
		})
	}
	return out
}

func submissionToDTO(s submission.Submission) submissionDTO {
	return submissionDTO{
		ID:            s.ID,
		TournamentID:  s.TournamentID,
		MatchID:       s.MatchID,
		SubmittedBy:   s.SubmittedBy,
		Player1Score:  s.Player1Score,
		Player2Score:  s.Player2Score,
		WinnerEntryID: s.WinnerEntryID,
		Status:        string(s.Status),
		VerifiedBy:    s.VerifiedBy,
		Notes:         s.Notes,
		SubmittedAt:   s.SubmittedAt,
		VerifiedAt:    s.VerifiedAt,
	}
}

func submissionsToDTO(items []submission.Submission) []submissionDTO {
	out := make([]submissionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, submissionToDTO(item))
	}
	return out
}

func ratingToDTO(r rating.Rating) ratingDTO {
	return ratingDTO{
		PlayerID:              r.PlayerID,
		Rating:                r.Value,
		PeakRating:            r.Peak,
		LowestRating:          r.Lowest,
		Tier:                  string(r.Tier),
		TournamentsPlayed:     r.TournamentsPlayed,
		TournamentsWon:        r.TournamentsWon,
		TournamentsRunnerUp:   r.TournamentsRunnerUp,
		TournamentsTop4:       r.TournamentsTop4,
		MatchesWon:            r.MatchesWon,
		MatchesLost:           r.MatchesLost,
		TotalTournamentPoints: r.TotalTournamentPoints,
		LastTournamentAt:      r.LastTournamentAt,
	}
}

func ratingsToDTO(items []rating.Rating) []ratingDTO {
	out := make([]ratingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ratingToDTO(item))
	}
	return out
}
