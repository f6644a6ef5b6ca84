package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// progress is a unit of work over one tournament inside Atomic. Results are
// applied to the loaded state and flush writes back only what changed.
type progress struct {
	tx      repository.Tx
	t       tournament.Tournament
	entries []entry.Entry
	rounds  []bracket.Round
	matches []bracket.Match
	now     time.Time

	dirtyEntries map[string]bool
	dirtyMatches map[string]bool
	dirtyRounds  map[string]bool

	decided   []decidedMatch
	completed bool
	standings []standing.Standing
}

// decidedMatch is a played two-player result, kept for rating updates after commit.
type decidedMatch struct {
	MatchID        string
	WinnerPlayerID string
	LoserPlayerID  string
	WinnerEntryID  string
	LoserEntryID   string
}

type placement struct {
	PlayerID         string
	EntryID          string
	Rank             int
	TournamentPoints int
}

func loadProgress(ctx context.Context, tx repository.Tx, t tournament.Tournament, now time.Time) (*progress, error) {
	entries, err := tx.ListEntries(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	rounds, err := tx.ListRounds(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	matches, err := tx.ListMatches(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return newProgress(tx, t, entries, rounds, matches, now), nil
}

func newProgress(tx repository.Tx, t tournament.Tournament, entries []entry.Entry, rounds []bracket.Round, matches []bracket.Match, now time.Time) *progress {
	sort.SliceStable(rounds, func(i, j int) bool {
		if rounds[i].IsLosersBracket != rounds[j].IsLosersBracket {
			return !rounds[i].IsLosersBracket
		}
		return rounds[i].RoundNumber < rounds[j].RoundNumber
	})
	return &progress{
		tx:           tx,
		t:            t,
		entries:      entries,
		rounds:       rounds,
		matches:      matches,
		now:          now,
		dirtyEntries: make(map[string]bool),
		dirtyMatches: make(map[string]bool),
		dirtyRounds:  make(map[string]bool),
	}
}

func (p *progress) match(matchID string) (*bracket.Match, bool) {
	for i := range p.matches {
		if p.matches[i].ID == matchID {
			return &p.matches[i], true
		}
	}
	return nil, false
}

func (p *progress) entry(entryID string) (*entry.Entry, bool) {
	for i := range p.entries {
		if p.entries[i].ID == entryID {
			return &p.entries[i], true
		}
	}
	return nil, false
}

func (p *progress) playerOf(entryID string) string {
	if e, ok := p.entry(entryID); ok {
		return e.PlayerID
	}
	return ""
}

// advanceWinner records winnerEntryID as the winner of matchID with the given
// scores, credits both entries and moves the winner into its next match.
// Repeating the same winner is a no-op; a different winner for a decided match
// fails with ErrInvalidTransition.
func (p *progress) advanceWinner(matchID, winnerEntryID string, player1Score, player2Score int) error {
	m, ok := p.match(matchID)
	if !ok {
		return fmt.Errorf("%w: id=%s", tournament.ErrMatchNotFound, matchID)
	}
	if m.Status == bracket.MatchCompleted || m.Status == bracket.MatchWalkover {
		if m.WinnerEntryID == winnerEntryID {
			return nil
		}
		return fmt.Errorf("%w: match %s already won by %s", tournament.ErrInvalidTransition, m.ID, m.WinnerEntryID)
	}
	if !m.Status.Open() {
		return fmt.Errorf("%w: match %s is %s", tournament.ErrInvalidTransition, m.ID, m.Status)
	}
	if !m.HasEntrant(winnerEntryID) {
		return fmt.Errorf("%w: entry %s does not play match %s", ErrInvalidInput, winnerEntryID, m.ID)
	}

	m.WinnerEntryID = winnerEntryID
	m.Player1Score = player1Score
	m.Player2Score = player2Score
	m.Status = bracket.MatchCompleted
	completedAt := p.now
	m.CompletedAt = &completedAt
	if m.StartedAt == nil {
		m.StartedAt = &completedAt
	}
	p.dirtyMatches[m.ID] = true

	loserEntryID := m.Loser()
	p.credit(winnerEntryID, loserEntryID)
	p.addScore(m.Player1EntryID, player1Score)
	p.addScore(m.Player2EntryID, player2Score)
	if loserEntryID != "" {
		p.decided = append(p.decided, decidedMatch{
			MatchID:        m.ID,
			WinnerPlayerID: p.playerOf(winnerEntryID),
			LoserPlayerID:  p.playerOf(loserEntryID),
			WinnerEntryID:  winnerEntryID,
			LoserEntryID:   loserEntryID,
		})
	}

	if m.NextMatchID != "" {
		next, ok := p.match(m.NextMatchID)
		if !ok {
			return fmt.Errorf("%w: next match %s of %s", tournament.ErrMatchNotFound, m.NextMatchID, m.ID)
		}
		next.Place(bracket.SlotFor(*m, p.matches), winnerEntryID)
		p.dirtyMatches[next.ID] = true
	}

	p.resolveByes()
	return nil
}

func (p *progress) credit(winnerEntryID, loserEntryID string) {
	if e, ok := p.entry(winnerEntryID); ok {
		e.Wins++
		p.dirtyEntries[e.ID] = true
	}
	if e, ok := p.entry(loserEntryID); ok {
		e.Losses++
		p.dirtyEntries[e.ID] = true
	}
}

func (p *progress) addScore(entryID string, score int) {
	if e, ok := p.entry(entryID); ok && score > 0 {
		e.TotalScore += score
		p.dirtyEntries[e.ID] = true
	}
}

// resolveByes settles matches left without an opponent and credits the winners.
func (p *progress) resolveByes() {
	before := append([]bracket.Match(nil), p.matches...)
	for _, adv := range bracket.ResolveByes(p.matches, p.now) {
		p.credit(adv.WinnerEntryID, "")
	}
	for i := range p.matches {
		if p.matches[i] != before[i] {
			p.dirtyMatches[p.matches[i].ID] = true
		}
	}
}

// creditByes counts walkovers created outside advanceWinner.
func (p *progress) creditByes(byes []bracket.Advance) {
	for _, adv := range byes {
		p.credit(adv.WinnerEntryID, "")
	}
}

// syncRounds stamps round start and completion times and moves current_round to
// the first winners-bracket round that still has work. It reports whether every
// winners-bracket round has been played out.
func (p *progress) syncRounds() bool {
	counts := make(map[string]int, len(p.rounds))
	for _, m := range p.matches {
		counts[m.RoundID]++
	}

	current := 0
	last := 0
	for i := range p.rounds {
		r := &p.rounds[i]
		if r.IsLosersBracket {
			continue
		}
		last = r.RoundNumber
		played := counts[r.ID] > 0 && bracket.RoundResolved(p.matches, r.ID)
		if played && r.CompletedAt == nil {
			completedAt := p.now
			r.CompletedAt = &completedAt
			if r.StartedAt == nil {
				r.StartedAt = &completedAt
			}
			p.dirtyRounds[r.ID] = true
		}
		if played || current != 0 {
			continue
		}
		current = r.RoundNumber
		if counts[r.ID] > 0 && r.StartedAt == nil {
			startedAt := p.now
			r.StartedAt = &startedAt
			p.dirtyRounds[r.ID] = true
		}
	}

	finished := current == 0 && last > 0
	if finished {
		current = last
	}
	if current != 0 && p.t.CurrentRound != current {
		p.t.CurrentRound = current
		p.t.UpdatedAt = p.now
	}
	return finished
}

// flush recomputes standings, completes the tournament when every round is
// played out, and writes every changed row.
func (p *progress) flush(ctx context.Context) error {
	finished := p.syncRounds()

	p.standings = standing.Compute(p.t.ID, p.seedOrdered(), p.matches, p.now)
	if err := p.tx.ReplaceStandings(ctx, p.t.ID, p.standings); err != nil {
		return fmt.Errorf("replace standings: %w", err)
	}

	if finished && p.t.Status == tournament.StatusInProgress {
		if err := p.t.TransitionTo(tournament.StatusCompleted, p.now); err != nil {
			return err
		}
		for _, row := range p.standings {
			e, ok := p.entry(row.EntryID)
			if !ok {
				continue
			}
			rank := row.Rank
			e.FinalPlacement = &rank
			e.Points = row.TournamentPoints
			p.dirtyEntries[e.ID] = true
		}
		p.completed = true
	}

	for _, e := range p.entries {
		if p.dirtyEntries[e.ID] {
			if err := p.tx.UpdateEntry(ctx, e); err != nil {
				return fmt.Errorf("update entry: %w", err)
			}
		}
	}
	for _, m := range p.matches {
		if p.dirtyMatches[m.ID] {
			if err := p.tx.UpdateMatch(ctx, m); err != nil {
				return fmt.Errorf("update match: %w", err)
			}
		}
	}
	for _, r := range p.rounds {
		if p.dirtyRounds[r.ID] {
			if err := p.tx.UpdateRound(ctx, r); err != nil {
				return fmt.Errorf("update round: %w", err)
			}
		}
	}
	if err := p.tx.UpdateTournament(ctx, p.t); err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	return nil
}

func (p *progress) seedOrdered() []entry.Entry {
	ordered := append([]entry.Entry(nil), p.entries...)
	entry.SortBySeed(ordered)
	return ordered
}

// placements lists final ranks, only meaningful once completed is set.
func (p *progress) placements() []placement {
	out := make([]placement, 0, len(p.standings))
	for _, row := range p.standings {
		out = append(out, placement{
			PlayerID:         p.playerOf(row.EntryID),
			EntryID:          row.EntryID,
			Rank:             row.Rank,
			TournamentPoints: row.TournamentPoints,
		})
	}
	return out
}
