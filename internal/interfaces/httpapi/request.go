package httpapi

import "time"

type createTournamentRequest struct {
	Name                    string            `json:"name" validate:"required,max=200"`
	Description             string            `json:"description" validate:"omitempty,max=4000"`
	Format                  string            `json:"format" validate:"required,oneof=single_elimination double_elimination round_robin swiss groups_knockout ladder free_for_all"`
	GameMode                string            `json:"game_mode" validate:"required,oneof=501 301 cricket around_the_clock custom"`
	GameSettings            map[string]string `json:"game_settings" validate:"omitempty,max=32"`
	MaxParticipants         int               `json:"max_participants" validate:"required,min=2,max=512"`
	MinParticipants         int               `json:"min_participants" validate:"required,min=2"`
	RegistrationStart       time.Time         `json:"registration_start" validate:"required"`
	RegistrationEnd         time.Time         `json:"registration_end" validate:"required"`
	StartTime               time.Time         `json:"start_time" validate:"required"`
	EstimatedDurationHours  int               `json:"estimated_duration_hours" validate:"omitempty,min=0,max=720"`
	RegistrationPassword    string            `json:"registration_password" validate:"omitempty,max=100"`
	MinSkillLevel           string            `json:"min_skill_level" validate:"omitempty,oneof=beginner intermediate advanced professional"`
	IsPrivate               bool              `json:"is_private"`
	AllowPublicRegistration bool              `json:"allow_public_registration"`
	RequireApproval         bool              `json:"require_approval"`
	ScorePasscode           string            `json:"score_passcode" validate:"omitempty,len=6,numeric"`
	AllowScoreSubmission    bool              `json:"allow_score_submission"`
	IsFeatured              bool              `json:"is_featured"`
	PrizePool               int64             `json:"prize_pool" validate:"omitempty,min=0"`
	PrizeDescription        string            `json:"prize_description" validate:"omitempty,max=1000"`
	SwissRounds             int               `json:"swiss_rounds" validate:"omitempty,min=1,max=64"`
	Draft                   bool              `json:"draft"`
}

type registerRequest struct {
	Password string `json:"password" validate:"omitempty,max=100"`
}

type batchAddRequest struct {
	PlayerIDs   []string `json:"player_ids" validate:"required,min=1,max=100,dive,required"`
	AutoApprove bool     `json:"auto_approve"`
}

type submitScoreRequest struct {
	Player1Score int    `json:"player1_score" validate:"min=0"`
	Player2Score int    `json:"player2_score" validate:"min=0"`
	Passcode     string `json:"passcode" validate:"omitempty,max=32"`
	Notes        string `json:"notes" validate:"omitempty,max=1000"`
}

type disputeRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type verifyPasscodeRequest struct {
	Passcode string `json:"passcode" validate:"required,max=32"`
}
