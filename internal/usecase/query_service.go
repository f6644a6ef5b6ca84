package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

const (
	featuredLimit    = 10
	upcomingLimit    = 20
	defaultListLimit = 50
	maxListLimit     = 200
)

// TournamentDetail is a tournament with everything needed to draw its bracket.
type TournamentDetail struct {
	Tournament       tournament.Tournament
	ParticipantCount int
	SpotsRemaining   int
	RegistrationOpen bool
	Entries          []entry.Entry
	Rounds           []bracket.Round
	Matches          []bracket.Match
}

// TournamentSummary is a list row.
type TournamentSummary struct {
	Tournament       tournament.Tournament
	ParticipantCount int
	SpotsRemaining   int
	RegistrationOpen bool
}

type ListTournamentsInput struct {
	Status tournament.Status
	Format tournament.Format
	Limit  int
}

type QueryService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewQueryService(repo repository.Repository) *QueryService {
	return &QueryService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *QueryService) GetTournamentDetail(ctx context.Context, tournamentID string) (TournamentDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetTournamentDetail")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return TournamentDetail{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	var detail TournamentDetail
	err := s.repo.Snapshot(ctx, tournamentID, func(ctx context.Context, r repository.Reader) error {
		t, err := r.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		entries, err := r.ListEntries(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		rounds, err := r.ListRounds(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list rounds: %w", err)
		}
		matches, err := r.ListMatches(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}

		entry.SortBySeed(entries)
		detail = TournamentDetail{Tournament: t, Entries: entries, Rounds: rounds, Matches: matches}
		return nil
	})
	if err != nil {
		return TournamentDetail{}, err
	}

	confirmed := entry.CountConfirmed(detail.Entries)
	detail.ParticipantCount = confirmed
	detail.SpotsRemaining = detail.Tournament.SpotsRemaining(confirmed)
	detail.RegistrationOpen = detail.Tournament.IsRegistrationOpen(s.now().UTC(), confirmed)
	return detail, nil
}

func (s *QueryService) ListStandings(ctx context.Context, tournamentID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListStandings")
	defer span.End()

	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListStandings(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return rows, nil
}

func (s *QueryService) ListMyEntries(ctx context.Context, playerID string) ([]repository.EntrySummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListMyEntries")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	out, err := s.repo.ListEntriesByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list entries by player: %w", err)
	}
	return out, nil
}

func (s *QueryService) ListFeatured(ctx context.Context) ([]TournamentSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListFeatured")
	defer span.End()

	return s.summaries(ctx, repository.Filter{
		Statuses: []tournament.Status{
			tournament.StatusRegistrationOpen,
			tournament.StatusRegistrationClosed,
			tournament.StatusInProgress,
		},
		FeaturedOnly: true,
		PublicOnly:   true,
		Limit:        featuredLimit,
	})
}

func (s *QueryService) ListUpcoming(ctx context.Context) ([]TournamentSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListUpcoming")
	defer span.End()

	return s.summaries(ctx, repository.Filter{
		Statuses: []tournament.Status{
			tournament.StatusRegistrationOpen,
			tournament.StatusRegistrationClosed,
		},
		PublicOnly:   true,
		StartAfter:   s.now().UTC(),
		OrderByStart: true,
		Limit:        upcomingLimit,
	})
}

func (s *QueryService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]TournamentSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListTournaments")
	defer span.End()

	if input.Format != "" && !input.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, input.Format)
	}
	filter := repository.Filter{
		Format:     input.Format,
		PublicOnly: true,
		Limit:      input.Limit,
	}
	if input.Status != "" {
		filter.Statuses = []tournament.Status{input.Status}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	filter.Limit = min(filter.Limit, maxListLimit)

	return s.summaries(ctx, filter)
}

func (s *QueryService) summaries(ctx context.Context, filter repository.Filter) ([]TournamentSummary, error) {
	items, err := s.repo.ListTournaments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	if len(items) == 0 {
		return []TournamentSummary{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.ID)
	}
	counts, err := s.repo.CountConfirmed(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count confirmed entries: %w", err)
	}

	now := s.now().UTC()
	out := make([]TournamentSummary, 0, len(items))
	for _, t := range items {
		confirmed := counts[t.ID]
		out = append(out, TournamentSummary{
			Tournament:       t,
			ParticipantCount: confirmed,
			SpotsRemaining:   t.SpotsRemaining(confirmed),
			RegistrationOpen: t.IsRegistrationOpen(now, confirmed),
		})
	}
	return out, nil
}
