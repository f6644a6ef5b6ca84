package tournament

import (
	"errors"

	crerr "github.com/cockroachdb/errors"
)

// Error kinds returned by the tournament engine. Callers match them with errors.Is;
// usecases wrap them with context via fmt.Errorf("%w: ...").
var (
	ErrRegistrationClosed  = crerr.New("registration closed")
	ErrInvalidPassword     = crerr.New("invalid registration password")
	ErrSkillTooLow         = crerr.New("skill level below tournament minimum")
	ErrNotPending          = crerr.New("entry is not pending")
	ErrTournamentStarted   = crerr.New("tournament already started")
	ErrInsufficientPlayers = crerr.New("insufficient players")
	ErrFormatNotSupported  = crerr.New("tournament format not supported")
	ErrInvalidPasscode     = crerr.New("invalid score passcode")
	ErrSubmissionDisabled  = crerr.New("score submission disabled")
	ErrNotAuthorized       = crerr.New("not authorized for this match")
	ErrTiedScore           = crerr.New("tied scores are not allowed")
	ErrNotOrganizer        = crerr.New("only the organizer can perform this action")
	ErrEntryNotFound       = crerr.New("entry not found")
	ErrMatchNotFound       = crerr.New("match not found")
	ErrAlreadyRegistered   = crerr.New("player already registered")

	ErrTournamentNotFound = crerr.New("tournament not found")
	ErrSubmissionNotFound = crerr.New("score submission not found")
	ErrInvalidTransition  = crerr.New("invalid state transition")
	ErrFeatureDisabled    = crerr.New("feature disabled")
)

type kind struct {
	err    error
	reason string
}

var kinds = []kind{
	{ErrRegistrationClosed, "registrationClosed"},
	{ErrInvalidPassword, "invalidPassword"},
	{ErrSkillTooLow, "skillTooLow"},
	{ErrNotPending, "notPending"},
	{ErrTournamentStarted, "tournamentStarted"},
	{ErrInsufficientPlayers, "insufficientPlayers"},
	{ErrFormatNotSupported, "formatNotSupported"},
	{ErrInvalidPasscode, "invalidPasscode"},
	{ErrSubmissionDisabled, "submissionDisabled"},
	{ErrNotAuthorized, "notAuthorized"},
	{ErrTiedScore, "tiedScore"},
	{ErrNotOrganizer, "notOrganizer"},
	{ErrEntryNotFound, "entryNotFound"},
	{ErrMatchNotFound, "matchNotFound"},
	{ErrAlreadyRegistered, "alreadyRegistered"},
	{ErrTournamentNotFound, "tournamentNotFound"},
	{ErrSubmissionNotFound, "submissionNotFound"},
	{ErrInvalidTransition, "invalidTransition"},
	{ErrFeatureDisabled, "featureDisabled"},
}

// ReasonOf returns the stable machine-readable reason for an engine error kind,
// or "" when err is not one.
func ReasonOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.reason
		}
	}
	return ""
}
