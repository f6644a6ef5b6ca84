package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/swiss"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

// StartResult is the tournament and the bracket committed when it started.
type StartResult struct {
	Tournament tournament.Tournament
	Rounds     []bracket.Round
	Matches    []bracket.Match
}

// SwissRoundResult is a freshly paired Swiss round.
type SwissRoundResult struct {
	Tournament tournament.Tournament
	Round      bracket.Round
	Matches    []bracket.Match
	Standings  []standing.Standing
}

type BracketService struct {
	repo     repository.Repository
	idGen    idgen.Generator
	settings Settings
	ratings  *RatingService
	metrics  Metrics
	logger   *logging.Logger
	now      func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand
}

func NewBracketService(
	repo repository.Repository,
	idGen idgen.Generator,
	settings Settings,
	ratings *RatingService,
	metrics Metrics,
	logger *logging.Logger,
) *BracketService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BracketService{
		repo:     repo,
		idGen:    idGen,
		settings: settings,
		ratings:  ratings,
		metrics:  metricsOrNop(metrics),
		logger:   logger,
		now:      time.Now,
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Start generates the bracket of a closed tournament and moves it to InProgress.
func (s *BracketService) Start(ctx context.Context, tournamentID string, actor user.Principal) (StartResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.Start", tournamentAttr(tournamentID))
	defer span.End()

	if err := s.settings.writable(); err != nil {
		return StartResult{}, err
	}

	var (
		result StartResult
		p      *progress
		seeded int
	)
	err := s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if err := requireManager(t, actor); err != nil {
			return err
		}
		if t.Status.Started() {
			return fmt.Errorf("%w: tournament=%s status=%s", tournament.ErrTournamentStarted, t.ID, t.Status)
		}
		if t.Status != tournament.StatusRegistrationClosed {
			return fmt.Errorf("%w: tournament %s must close registration before starting, status=%s",
				tournament.ErrInvalidTransition, t.ID, t.Status)
		}

		entries, err := tx.ListEntries(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		confirmed := entry.Confirmed(entries)
		now := s.now().UTC()

		plan, err := s.generate(t, confirmed, now)
		if err != nil {
			return err
		}
		if len(confirmed) < t.MinParticipants {
			return fmt.Errorf("%w: need %d confirmed entries, have %d",
				tournament.ErrInsufficientPlayers, t.MinParticipants, len(confirmed))
		}

		seeds := assignSeeds(entries, plan.SeedOrder)

		if err := t.TransitionTo(tournament.StatusInProgress, now); err != nil {
			return err
		}
		t.CurrentRound = 1
		if err := tx.InsertRounds(ctx, plan.Rounds); err != nil {
			return fmt.Errorf("insert rounds: %w", err)
		}
		if err := tx.InsertMatches(ctx, plan.Matches); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}

		p = newProgress(tx, t, entries, plan.Rounds, plan.Matches, now)
		for entryID := range seeds {
			p.dirtyEntries[entryID] = true
		}
		seeded = len(plan.SeedOrder)
		p.creditByes(plan.Byes)
		if err := p.flush(ctx); err != nil {
			return err
		}

		result = StartResult{Tournament: p.t, Rounds: p.rounds, Matches: p.matches}
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}

	s.metrics.BracketGenerated(string(result.Tournament.Format), seeded)
	s.logger.InfoContext(ctx, "tournament started",
		"tournament_id", result.Tournament.ID,
		"format", string(result.Tournament.Format),
		"rounds", len(result.Rounds),
		"matches", len(result.Matches),
	)
	s.finish(ctx, p)
	return result, nil
}

// assignSeeds numbers unseeded entries after the highest organizer seed, in
// bracket order. Organizer seeds are left untouched. It returns the IDs of the
// entries it changed.
func assignSeeds(entries []entry.Entry, order []string) map[string]int {
	highest := 0
	for _, e := range entries {
		if e.SeedNumber != nil && *e.SeedNumber > highest {
			highest = *e.SeedNumber
		}
	}

	index := make(map[string]int, len(entries))
	for i := range entries {
		index[entries[i].ID] = i
	}

	assigned := make(map[string]int)
	for _, entryID := range order {
		i, ok := index[entryID]
		if !ok || entries[i].SeedNumber != nil {
			continue
		}
		highest++
		seed := highest
		entries[i].SeedNumber = &seed
		assigned[entryID] = seed
	}
	return assigned
}

func (s *BracketService) generate(t tournament.Tournament, confirmed []entry.Entry, now time.Time) (bracket.Plan, error) {
	s.randMu.Lock()
	defer s.randMu.Unlock()

	return bracket.Generate(t.Format, confirmed, s.idGen, bracket.Options{
		TournamentID:      t.ID,
		Now:               now,
		SwissRounds:       t.SwissRounds,
		ShuffleFirstRound: s.settings.SwissRandomFirstRound,
		Rand:              s.rand,
	})
}

// GenerateSwissRound pairs the next Swiss round from the current standings.
func (s *BracketService) GenerateSwissRound(ctx context.Context, tournamentID string, actor user.Principal) (SwissRoundResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.GenerateSwissRound", tournamentAttr(tournamentID))
	defer span.End()

	var (
		result SwissRoundResult
		p      *progress
	)
	err := s.repo.Atomic(ctx, tournamentID, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if err := requireManager(t, actor); err != nil {
			return err
		}
		if t.Format != tournament.FormatSwiss {
			return fmt.Errorf("%w: tournament %s is %s, not swiss", tournament.ErrFormatNotSupported, t.ID, t.Format)
		}
		if t.Status != tournament.StatusInProgress {
			return fmt.Errorf("%w: tournament %s is %s", tournament.ErrInvalidTransition, t.ID, t.Status)
		}

		now := s.now().UTC()
		p, err = loadProgress(ctx, tx, t, now)
		if err != nil {
			return err
		}
		next, err := nextSwissRound(p)
		if err != nil {
			return err
		}

		stored, err := tx.ListStandings(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list standings: %w", err)
		}
		pairings := swiss.Pair(swiss.PairingOrder(seedOrderedStandings(p.seedOrdered(), stored)), p.matches)
		matches, byes, err := bracket.PairedMatches(next, pairings, s.idGen, now)
		if err != nil {
			return err
		}
		if err := tx.InsertMatches(ctx, matches); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}

		p.matches = append(p.matches, matches...)
		p.creditByes(byes)
		p.t.CurrentRound = next.RoundNumber
		if err := p.flush(ctx); err != nil {
			return err
		}

		result = SwissRoundResult{Tournament: p.t, Matches: matches, Standings: p.standings}
		for _, r := range p.rounds {
			if r.ID == next.ID {
				result.Round = r
			}
		}
		return nil
	})
	if err != nil {
		return SwissRoundResult{}, err
	}

	s.logger.InfoContext(ctx, "swiss round paired",
		"tournament_id", tournamentID,
		"round", result.Round.RoundNumber,
		"matches", len(result.Matches),
	)
	s.finish(ctx, p)
	return result, nil
}

// nextSwissRound returns the first unpaired placeholder round once every
// earlier round is fully resolved.
func nextSwissRound(p *progress) (bracket.Round, error) {
	paired := make(map[string]bool, len(p.rounds))
	for _, m := range p.matches {
		paired[m.RoundID] = true
	}
	for _, r := range p.rounds {
		if paired[r.ID] {
			if !bracket.RoundResolved(p.matches, r.ID) {
				return bracket.Round{}, fmt.Errorf("%w: round %d still has open matches", tournament.ErrInvalidTransition, r.RoundNumber)
			}
			continue
		}
		return r, nil
	}
	return bracket.Round{}, fmt.Errorf("%w: every swiss round has been paired", tournament.ErrInvalidTransition)
}

// seedOrderedStandings lines up stored standings in seed order so that pairing
// ties fall back to seeding. Confirmed entries missing a row get an empty one.
func seedOrderedStandings(entries []entry.Entry, stored []standing.Standing) []standing.Standing {
	byEntry := make(map[string]standing.Standing, len(stored))
	for _, row := range stored {
		byEntry[row.EntryID] = row
	}
	out := make([]standing.Standing, 0, len(entries))
	for _, e := range entries {
		if e.Status != entry.StatusConfirmed {
			continue
		}
		row, ok := byEntry[e.ID]
		if !ok {
			row = standing.Standing{TournamentID: e.TournamentID, EntryID: e.ID}
		}
		out = append(out, row)
	}
	return out
}

// finish emits metrics and rating side effects of a committed progress step.
func (s *BracketService) finish(ctx context.Context, p *progress) {
	if p == nil || !p.completed {
		return
	}
	s.metrics.TournamentCompleted(string(p.t.Format))
	s.logger.InfoContext(ctx, "tournament completed", "tournament_id", p.t.ID)
	s.ratings.apply(ctx, p.t.ID, nil, p.placements())
}
