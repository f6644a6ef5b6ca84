package tournament

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
)

// Format is the closed set of bracket formats. Only the first four have a generator.
type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatSwiss             Format = "swiss"
	FormatGroupsKnockout    Format = "groups_knockout"
	FormatLadder            Format = "ladder"
	FormatFreeForAll        Format = "free_for_all"
)

var formats = map[Format]struct{}{
	FormatSingleElimination: {},
	FormatDoubleElimination: {},
	FormatRoundRobin:        {},
	FormatSwiss:             {},
	FormatGroupsKnockout:    {},
	FormatLadder:            {},
	FormatFreeForAll:        {},
}

func (f Format) Valid() bool {
	_, ok := formats[f]
	return ok
}

// Elimination reports whether matches feed winners into later matches.
func (f Format) Elimination() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

type Status string

const (
	StatusDraft              Status = "draft"
	StatusRegistrationOpen   Status = "registration_open"
	StatusRegistrationClosed Status = "registration_closed"
	StatusInProgress         Status = "in_progress"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusDraft:              {StatusRegistrationOpen, StatusCancelled},
	StatusRegistrationOpen:   {StatusRegistrationClosed, StatusCancelled},
	StatusRegistrationClosed: {StatusInProgress, StatusCancelled},
	StatusInProgress:         {StatusCompleted, StatusCancelled},
}

// CanTransition encodes the lifecycle: Draft -> RegistrationOpen -> RegistrationClosed
// -> InProgress -> Completed, with Cancelled reachable from every non-terminal state.
// Status never moves backwards.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Started reports whether play has begun or finished.
func (s Status) Started() bool {
	return s == StatusInProgress || s == StatusCompleted
}

type GameMode string

const (
	GameMode501            GameMode = "501"
	GameMode301            GameMode = "301"
	GameModeCricket        GameMode = "cricket"
	GameModeAroundTheClock GameMode = "around_the_clock"
	GameModeCustom         GameMode = "custom"
)

func (m GameMode) Valid() bool {
	switch m {
	case GameMode501, GameMode301, GameModeCricket, GameModeAroundTheClock, GameModeCustom:
		return true
	}
	return false
}

const (
	MinParticipantsFloor = 2
	MaxParticipantsCap   = 512
	PasscodeLength       = 6
)

// Tournament is the aggregate root owning entries, rounds, matches, standings and
// score submissions.
type Tournament struct {
	ID                      string
	Name                    string
	Description             string
	OrganizerID             string
	Format                  Format
	GameMode                GameMode
	GameSettings            map[string]string
	MaxParticipants         int
	MinParticipants         int
	RegistrationStart       time.Time
	RegistrationEnd         time.Time
	StartTime               time.Time
	EstimatedDurationHours  int
	Status                  Status
	CurrentRound            int
	RegistrationPassword    string
	MinSkillLevel           player.SkillLevel
	IsPrivate               bool
	AllowPublicRegistration bool
	RequireApproval         bool
	ScorePasscode           string
	AllowScoreSubmission    bool
	IsFeatured              bool
	PrizePool               int64
	PrizeDescription        string
	SwissRounds             int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Validate checks field-level constraints. maxAllowed caps MaxParticipants on top
// of the hard cap; pass 0 to only apply the hard cap.
func (t Tournament) Validate(maxAllowed int) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("tournament id is required")
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if len(name) > 200 {
		return fmt.Errorf("tournament name must be at most 200 characters")
	}
	if strings.TrimSpace(t.OrganizerID) == "" {
		return fmt.Errorf("organizer is required")
	}
	if !t.Format.Valid() {
		return fmt.Errorf("invalid tournament format: %s", t.Format)
	}
	if !t.GameMode.Valid() {
		return fmt.Errorf("invalid game mode: %s", t.GameMode)
	}
	if t.MinSkillLevel != "" && !t.MinSkillLevel.Valid() {
		return fmt.Errorf("invalid minimum skill level: %s", t.MinSkillLevel)
	}

	limit := MaxParticipantsCap
	if maxAllowed > 0 && maxAllowed < limit {
		limit = maxAllowed
	}
	if t.MinParticipants < MinParticipantsFloor {
		return fmt.Errorf("min participants must be at least %d", MinParticipantsFloor)
	}
	if t.MaxParticipants > limit {
		return fmt.Errorf("max participants must be at most %d", limit)
	}
	if t.MaxParticipants < t.MinParticipants {
		return fmt.Errorf("max participants must be greater than or equal to min participants")
	}

	if !t.RegistrationEnd.After(t.RegistrationStart) {
		return fmt.Errorf("registration end must be after registration start")
	}
	if !t.StartTime.After(t.RegistrationEnd) {
		return fmt.Errorf("tournament start must be after registration end")
	}
	if t.SwissRounds < 0 {
		return fmt.Errorf("swiss rounds must not be negative")
	}
	if t.PrizePool < 0 {
		return fmt.Errorf("prize pool must not be negative")
	}

	return nil
}

// TransitionTo moves the tournament to status or fails with ErrInvalidTransition.
func (t *Tournament) TransitionTo(status Status, now time.Time) error {
	if !CanTransition(t.Status, status) {
		return fmt.Errorf("%w: tournament %s cannot move from %s to %s", ErrInvalidTransition, t.ID, t.Status, status)
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// IsRegistrationOpen reports whether a new player could register at now given the
// current number of confirmed entries.
func (t Tournament) IsRegistrationOpen(now time.Time, confirmed int) bool {
	if t.Status != StatusRegistrationOpen {
		return false
	}
	if now.Before(t.RegistrationStart) || now.After(t.RegistrationEnd) {
		return false
	}
	return confirmed < t.MaxParticipants
}

func (t Tournament) SpotsRemaining(confirmed int) int {
	if confirmed >= t.MaxParticipants {
		return 0
	}
	return t.MaxParticipants - confirmed
}

// PasswordMatches reports whether the supplied registration password is accepted.
func (t Tournament) PasswordMatches(password string) bool {
	if t.RegistrationPassword == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(t.RegistrationPassword), []byte(password)) == 1
}

// PasscodeMatches reports whether a score passcode is accepted. A tournament without
// a passcode accepts anything.
func (t Tournament) PasscodeMatches(passcode string) bool {
	if t.ScorePasscode == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(t.ScorePasscode), []byte(passcode)) == 1
}

// IsOrganizer reports whether userID owns the tournament.
func (t Tournament) IsOrganizer(userID string) bool {
	return userID != "" && t.OrganizerID == userID
}
