package usecase

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

// CreateTournamentInput is the incoming payload for a new tournament.
type CreateTournamentInput struct {
	OrganizerID             string
	Name                    string
	Description             string
	Format                  tournament.Format
	GameMode                tournament.GameMode
	GameSettings            map[string]string
	MaxParticipants         int
	MinParticipants         int
	RegistrationStart       time.Time
	RegistrationEnd         time.Time
	StartTime               time.Time
	EstimatedDurationHours  int
	RegistrationPassword    string
	MinSkillLevel           string
	IsPrivate               bool
	AllowPublicRegistration bool
	RequireApproval         bool
	ScorePasscode           string
	AllowScoreSubmission    bool
	IsFeatured              bool
	PrizePool               int64
	PrizeDescription        string
	SwissRounds             int
	// Draft keeps the tournament closed to registration until it is opened.
	Draft bool
}

var activeStatuses = []tournament.Status{
	tournament.StatusDraft,
	tournament.StatusRegistrationOpen,
	tournament.StatusRegistrationClosed,
	tournament.StatusInProgress,
}

type TournamentService struct {
	repo     repository.Repository
	idGen    idgen.Generator
	settings Settings
	metrics  Metrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewTournamentService(
	repo repository.Repository,
	idGen idgen.Generator,
	settings Settings,
	metrics Metrics,
	logger *logging.Logger,
) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TournamentService{
		repo:     repo,
		idGen:    idGen,
		settings: settings,
		metrics:  metricsOrNop(metrics),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Create")
	defer span.End()

	if err := s.settings.writable(); err != nil {
		return tournament.Tournament{}, err
	}

	input.OrganizerID = strings.TrimSpace(input.OrganizerID)
	if input.OrganizerID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: organizer id is required", ErrInvalidInput)
	}
	skill, err := player.ParseSkillLevel(input.MinSkillLevel)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if limit := s.settings.MaxTournamentsPerOrganizer; limit > 0 {
		owned, err := s.repo.ListTournaments(ctx, repository.Filter{
			OrganizerID: input.OrganizerID,
			Statuses:    activeStatuses,
		})
		if err != nil {
			return tournament.Tournament{}, fmt.Errorf("list organizer tournaments: %w", err)
		}
		if len(owned) >= limit {
			return tournament.Tournament{}, fmt.Errorf("%w: organizer already runs %d active tournaments", ErrInvalidInput, len(owned))
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("generate tournament id: %w", err)
	}

	now := s.now().UTC()
	status := tournament.StatusRegistrationOpen
	if input.Draft {
		status = tournament.StatusDraft
	}

	t := tournament.Tournament{
		ID:                      id,
		Name:                    strings.TrimSpace(input.Name),
		Description:             strings.TrimSpace(input.Description),
		OrganizerID:             input.OrganizerID,
		Format:                  input.Format,
		GameMode:                input.GameMode,
		GameSettings:            maps.Clone(input.GameSettings),
		MaxParticipants:         input.MaxParticipants,
		MinParticipants:         input.MinParticipants,
		RegistrationStart:       input.RegistrationStart.UTC(),
		RegistrationEnd:         input.RegistrationEnd.UTC(),
		StartTime:               input.StartTime.UTC(),
		EstimatedDurationHours:  input.EstimatedDurationHours,
		Status:                  status,
		RegistrationPassword:    input.RegistrationPassword,
		MinSkillLevel:           skill,
		IsPrivate:               input.IsPrivate,
		AllowPublicRegistration: input.AllowPublicRegistration,
		RequireApproval:         input.RequireApproval,
		ScorePasscode:           strings.TrimSpace(input.ScorePasscode),
		AllowScoreSubmission:    input.AllowScoreSubmission,
		IsFeatured:              input.IsFeatured,
		PrizePool:               input.PrizePool,
		PrizeDescription:        strings.TrimSpace(input.PrizeDescription),
		SwissRounds:             input.SwissRounds,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := t.Validate(s.settings.MaxTournamentParticipants); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.CreateTournament(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}

	s.metrics.TournamentCreated(string(t.Format))
	s.logger.InfoContext(ctx, "tournament created",
		"tournament_id", t.ID,
		"organizer_id", t.OrganizerID,
		"format", string(t.Format),
		"status", string(t.Status),
	)
	return t, nil
}

func (s *TournamentService) OpenRegistration(ctx context.Context, tournamentID string, actor user.Principal) (tournament.Tournament, error) {
	return s.transition(ctx, "usecase.TournamentService.OpenRegistration", tournamentID, actor, tournament.StatusRegistrationOpen)
}

func (s *TournamentService) CloseRegistration(ctx context.Context, tournamentID string, actor user.Principal) (tournament.Tournament, error) {
	return s.transition(ctx, "usecase.TournamentService.CloseRegistration", tournamentID, actor, tournament.StatusRegistrationClosed)
}

func (s *TournamentService) Cancel(ctx context.Context, tournamentID string, actor user.Principal) (tournament.Tournament, error) {
	return s.transition(ctx, "usecase.TournamentService.Cancel", tournamentID, actor, tournament.StatusCancelled)
}

func (s *TournamentService) transition(ctx context.Context, spanName, tournamentID string, actor user.Principal, to tournament.Status) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, spanName, tournamentAttr(tournamentID))
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	var out tournament.Tournament
	err := s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if err := requireManager(t, actor); err != nil {
			return err
		}
		if err := t.TransitionTo(to, s.now().UTC()); err != nil {
			return err
		}
		if err := tx.UpdateTournament(ctx, t); err != nil {
			return fmt.Errorf("update tournament: %w", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return tournament.Tournament{}, err
	}

	s.logger.InfoContext(ctx, "tournament status changed",
		"tournament_id", out.ID,
		"status", string(out.Status),
		"actor_id", actor.UserID,
	)
	return out, nil
}
