package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

type SubmitInput struct {
	TournamentID string
	MatchID      string
	SubmitterID  string
	Player1Score int
	Player2Score int
	Passcode     string
	Notes        string
}

// PasscodeCheck answers whether a passcode is accepted and whether scores can
// currently be submitted with it.
type PasscodeCheck struct {
	Valid           bool
	CanSubmitScores bool
}

type SubmissionService struct {
	repo      repository.Repository
	idGen     idgen.Generator
	passcodes PasscodeGenerator
	settings  Settings
	ratings   *RatingService
	metrics   Metrics
	logger    *logging.Logger
	now       func() time.Time
}

func NewSubmissionService(
	repo repository.Repository,
	idGen idgen.Generator,
	passcodes PasscodeGenerator,
	settings Settings,
	ratings *RatingService,
	metrics Metrics,
	logger *logging.Logger,
) *SubmissionService {
	if logger == nil {
		logger = logging.Default()
	}
	if passcodes == nil {
		passcodes = NewDigitPasscodeGenerator()
	}
	return &SubmissionService{
		repo:      repo,
		idGen:     idGen,
		passcodes: passcodes,
		settings:  settings,
		ratings:   ratings,
		metrics:   metricsOrNop(metrics),
		logger:    logger,
		now:       time.Now,
	}
}

// Submit records a proposed result. The organizer's own submissions are
// verified and applied at once; everyone else's wait for verification.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Submit", tournamentAttr(input.TournamentID))
	defer span.End()

	if s.settings.MaintenanceMode {
		return submission.Submission{}, fmt.Errorf("%w: maintenance mode", tournament.ErrFeatureDisabled)
	}
	input.SubmitterID = strings.TrimSpace(input.SubmitterID)
	if input.SubmitterID == "" {
		return submission.Submission{}, fmt.Errorf("%w: submitter id is required", ErrInvalidInput)
	}

	submissionID, err := s.idGen.NewID()
	if err != nil {
		return submission.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}

	var (
		out submission.Submission
		p   *progress
	)
	err = s.repo.Atomic(ctx, input.TournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, input.TournamentID)
		if err != nil {
			return err
		}
		if !t.PasscodeMatches(input.Passcode) {
			return fmt.Errorf("%w: tournament=%s", tournament.ErrInvalidPasscode, t.ID)
		}
		if !t.AllowScoreSubmission || !s.settings.ScoreSubmissionEnabled {
			return fmt.Errorf("%w: tournament=%s", tournament.ErrSubmissionDisabled, t.ID)
		}
		m, err := tx.GetMatch(ctx, t.ID, input.MatchID)
		if err != nil {
			return err
		}

		organizer := t.IsOrganizer(input.SubmitterID)
		if !organizer {
			participant, err := s.isParticipant(ctx, tx, t.ID, m, input.SubmitterID)
			if err != nil {
				return err
			}
			if !participant {
				return fmt.Errorf("%w: user=%s match=%s", tournament.ErrNotAuthorized, input.SubmitterID, m.ID)
			}
		}
		if input.Player1Score == input.Player2Score {
			return fmt.Errorf("%w: %d-%d", tournament.ErrTiedScore, input.Player1Score, input.Player2Score)
		}
		if input.Player1Score < 0 || input.Player2Score < 0 {
			return fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
		}
		if err := requirePlayable(m); err != nil {
			return err
		}

		now := s.now().UTC()
		out = submission.Submission{
			ID:            submissionID,
			TournamentID:  t.ID,
			MatchID:       m.ID,
			SubmittedBy:   input.SubmitterID,
			Player1Score:  input.Player1Score,
			Player2Score:  input.Player2Score,
			WinnerEntryID: winnerOf(m, input.Player1Score, input.Player2Score),
			Status:        submission.StatusPending,
			PasscodeUsed:  input.Passcode,
			SubmittedAt:   now,
		}
		out.AppendNote(input.Notes)

		if organizer {
			verifiedAt := now
			out.Status = submission.StatusVerified
			out.VerifiedBy = input.SubmitterID
			out.VerifiedAt = &verifiedAt

			p, err = loadProgress(ctx, tx, t, now)
			if err != nil {
				return err
			}
			if err := p.advanceWinner(m.ID, out.WinnerEntryID, out.Player1Score, out.Player2Score); err != nil {
				return err
			}
			if err := p.flush(ctx); err != nil {
				return err
			}
		}

		if err := tx.InsertSubmission(ctx, out); err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return submission.Submission{}, err
	}

	s.metrics.SubmissionRecorded(string(out.Status))
	s.logger.InfoContext(ctx, "score submitted",
		"tournament_id", out.TournamentID,
		"match_id", out.MatchID,
		"submission_id", out.ID,
		"status", string(out.Status),
	)
	s.finish(ctx, p)
	return out, nil
}

// Verify applies a pending or disputed submission. Only the organizer may verify.
func (s *SubmissionService) Verify(ctx context.Context, submissionID, verifierID string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Verify")
	defer span.End()

	var p *progress
	out, err := s.decide(ctx, submissionID, func(ctx context.Context, tx repository.Tx, t tournament.Tournament, sub *submission.Submission, now time.Time) error {
		if err := requireOrganizer(t, verifierID); err != nil {
			return err
		}
		if !sub.Decidable() {
			return fmt.Errorf("%w: submission %s is %s", tournament.ErrInvalidTransition, sub.ID, sub.Status)
		}
		m, err := tx.GetMatch(ctx, t.ID, sub.MatchID)
		if err != nil {
			return err
		}
		if err := requirePlayable(m); err != nil {
			return err
		}

		p, err = loadProgress(ctx, tx, t, now)
		if err != nil {
			return err
		}
		if err := p.advanceWinner(m.ID, sub.WinnerEntryID, sub.Player1Score, sub.Player2Score); err != nil {
			return err
		}
		if err := p.flush(ctx); err != nil {
			return err
		}

		verifiedAt := now
		sub.Status = submission.StatusVerified
		sub.VerifiedBy = verifierID
		sub.VerifiedAt = &verifiedAt
		return nil
	})
	if err != nil {
		return submission.Submission{}, err
	}

	s.metrics.SubmissionRecorded(string(out.Status))
	s.logger.InfoContext(ctx, "submission verified", "submission_id", out.ID, "match_id", out.MatchID, "verifier_id", verifierID)
	s.finish(ctx, p)
	return out, nil
}

// Dispute flags a submission on behalf of one of the match's players. It does
// not stop the organizer from verifying it afterwards.
func (s *SubmissionService) Dispute(ctx context.Context, submissionID, disputerID, reason string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Dispute")
	defer span.End()

	out, err := s.decide(ctx, submissionID, func(ctx context.Context, tx repository.Tx, t tournament.Tournament, sub *submission.Submission, _ time.Time) error {
		m, err := tx.GetMatch(ctx, t.ID, sub.MatchID)
		if err != nil {
			return err
		}
		participant, err := s.isParticipant(ctx, tx, t.ID, m, disputerID)
		if err != nil {
			return err
		}
		if !participant {
			return fmt.Errorf("%w: user=%s match=%s", tournament.ErrNotAuthorized, disputerID, m.ID)
		}
		if sub.Status == submission.StatusVerified || sub.Status == submission.StatusRejected {
			return fmt.Errorf("%w: submission %s is %s", tournament.ErrInvalidTransition, sub.ID, sub.Status)
		}
		sub.Status = submission.StatusDisputed
		sub.AppendNote(submission.DisputeNote(disputerID, reason))
		return nil
	})
	if err != nil {
		return submission.Submission{}, err
	}

	s.metrics.SubmissionRecorded(string(out.Status))
	s.logger.InfoContext(ctx, "submission disputed", "submission_id", out.ID, "disputer_id", disputerID)
	return out, nil
}

func (s *SubmissionService) Reject(ctx context.Context, submissionID, organizerID string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Reject")
	defer span.End()

	out, err := s.decide(ctx, submissionID, func(_ context.Context, _ repository.Tx, t tournament.Tournament, sub *submission.Submission, now time.Time) error {
		if err := requireOrganizer(t, organizerID); err != nil {
			return err
		}
		if !sub.Decidable() {
			return fmt.Errorf("%w: submission %s is %s", tournament.ErrInvalidTransition, sub.ID, sub.Status)
		}
		decidedAt := now
		sub.Status = submission.StatusRejected
		sub.VerifiedBy = organizerID
		sub.VerifiedAt = &decidedAt
		return nil
	})
	if err != nil {
		return submission.Submission{}, err
	}

	s.metrics.SubmissionRecorded(string(out.Status))
	s.logger.InfoContext(ctx, "submission rejected", "submission_id", out.ID, "organizer_id", organizerID)
	return out, nil
}

type decideFunc func(ctx context.Context, tx repository.Tx, t tournament.Tournament, sub *submission.Submission, now time.Time) error

// decide loads a submission and its tournament under the tournament lock, lets
// fn change it and stores the result.
func (s *SubmissionService) decide(ctx context.Context, submissionID string, fn decideFunc) (submission.Submission, error) {
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return submission.Submission{}, fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}
	located, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, err
	}

	var out submission.Submission
	err = s.repo.Atomic(ctx, located.TournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, located.TournamentID)
		if err != nil {
			return err
		}
		sub, err := tx.GetSubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, t, &sub, s.now().UTC()); err != nil {
			return err
		}
		if err := tx.UpdateSubmission(ctx, sub); err != nil {
			return fmt.Errorf("update submission: %w", err)
		}
		out = sub
		return nil
	})
	return out, err
}

// ListSubmissions returns every submission of the tournament to its organizer
// and only their own to anyone else.
func (s *SubmissionService) ListSubmissions(ctx context.Context, principalID, tournamentID string) ([]submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.ListSubmissions")
	defer span.End()

	t, err := s.repo.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListSubmissions(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if t.IsOrganizer(principalID) {
		return all, nil
	}

	out := make([]submission.Submission, 0, len(all))
	for _, sub := range all {
		if sub.SubmittedBy == principalID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// GeneratePasscode replaces the tournament's score passcode with a fresh one.
func (s *SubmissionService) GeneratePasscode(ctx context.Context, tournamentID, actorID string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.GeneratePasscode")
	defer span.End()

	code, err := s.passcodes.NewPasscode()
	if err != nil {
		return "", fmt.Errorf("generate passcode: %w", err)
	}

	err = s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if err := requireOrganizer(t, actorID); err != nil {
			return err
		}
		t.ScorePasscode = code
		t.UpdatedAt = s.now().UTC()
		return tx.UpdateTournament(ctx, t)
	})
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "score passcode generated", "tournament_id", tournamentID, "actor_id", actorID)
	return code, nil
}

func (s *SubmissionService) VerifyPasscode(ctx context.Context, tournamentID, passcode string) (PasscodeCheck, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.VerifyPasscode")
	defer span.End()

	t, err := s.repo.GetTournament(ctx, tournamentID)
	if err != nil {
		return PasscodeCheck{}, err
	}
	valid := t.PasscodeMatches(passcode)
	return PasscodeCheck{
		Valid: valid,
		CanSubmitScores: valid &&
			t.AllowScoreSubmission &&
			s.settings.ScoreSubmissionEnabled &&
			t.Status == tournament.StatusInProgress,
	}, nil
}

func (s *SubmissionService) isParticipant(ctx context.Context, tx repository.Tx, tournamentID string, m bracket.Match, userID string) (bool, error) {
	e, ok, err := tx.FindEntryByPlayer(ctx, tournamentID, userID)
	if err != nil {
		return false, fmt.Errorf("find entry by player: %w", err)
	}
	return ok && m.HasEntrant(e.ID), nil
}

// finish emits the side effects of a committed result.
func (s *SubmissionService) finish(ctx context.Context, p *progress) {
	if p == nil {
		return
	}
	for range p.decided {
		s.metrics.MatchCompleted(string(p.t.Format))
	}
	var placements []placement
	if p.completed {
		placements = p.placements()
		s.metrics.TournamentCompleted(string(p.t.Format))
		s.logger.InfoContext(ctx, "tournament completed", "tournament_id", p.t.ID)
	}
	s.ratings.apply(ctx, p.t.ID, p.decided, placements)
}

func requirePlayable(m bracket.Match) error {
	if !m.Status.Open() || m.EntrantCount() != 2 {
		return fmt.Errorf("%w: match %s is %s with %d entrants", tournament.ErrInvalidTransition, m.ID, m.Status, m.EntrantCount())
	}
	return nil
}

func winnerOf(m bracket.Match, player1Score, player2Score int) string {
	if player1Score > player2Score {
		return m.Player1EntryID
	}
	return m.Player2EntryID
}
