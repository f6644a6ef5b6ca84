package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

// memoryTx reads and writes a staged copy of one aggregate.
type memoryTx struct {
	agg *aggregate
}

func (tx *memoryTx) checkTournament(tournamentID string) error {
	if tournamentID != tx.agg.tournament.ID {
		return fmt.Errorf("%w: id=%s outside current transaction", tournament.ErrTournamentNotFound, tournamentID)
	}
	return nil
}

func (tx *memoryTx) GetTournament(_ context.Context, tournamentID string) (tournament.Tournament, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return tournament.Tournament{}, err
	}
	return cloneTournament(tx.agg.tournament), nil
}

func (tx *memoryTx) ListEntries(_ context.Context, tournamentID string) ([]entry.Entry, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	return tx.agg.listEntries(), nil
}

func (tx *memoryTx) GetEntry(_ context.Context, tournamentID, entryID string) (entry.Entry, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return entry.Entry{}, err
	}
	return tx.agg.getEntry(entryID)
}

func (tx *memoryTx) FindEntryByPlayer(_ context.Context, tournamentID, playerID string) (entry.Entry, bool, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return entry.Entry{}, false, err
	}
	e, ok := tx.agg.findEntryByPlayer(playerID)
	return e, ok, nil
}

func (tx *memoryTx) ListRounds(_ context.Context, tournamentID string) ([]bracket.Round, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	return append([]bracket.Round(nil), tx.agg.rounds...), nil
}

func (tx *memoryTx) ListMatches(_ context.Context, tournamentID string) ([]bracket.Match, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	return append([]bracket.Match(nil), tx.agg.matches...), nil
}

func (tx *memoryTx) GetMatch(_ context.Context, tournamentID, matchID string) (bracket.Match, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return bracket.Match{}, err
	}
	return tx.agg.getMatch(matchID)
}

func (tx *memoryTx) ListStandings(_ context.Context, tournamentID string) ([]standing.Standing, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	return append([]standing.Standing(nil), tx.agg.standings...), nil
}

func (tx *memoryTx) GetSubmission(_ context.Context, submissionID string) (submission.Submission, error) {
	return tx.agg.getSubmission(submissionID)
}

func (tx *memoryTx) ListSubmissions(_ context.Context, tournamentID string) ([]submission.Submission, error) {
	if err := tx.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	return append([]submission.Submission(nil), tx.agg.submissions...), nil
}

func (tx *memoryTx) UpdateTournament(_ context.Context, t tournament.Tournament) error {
	if err := tx.checkTournament(t.ID); err != nil {
		return err
	}
	tx.agg.tournament = cloneTournament(t)
	return nil
}

func (tx *memoryTx) InsertEntry(_ context.Context, e entry.Entry) error {
	if err := tx.checkTournament(e.TournamentID); err != nil {
		return err
	}
	if _, exists := tx.agg.findEntryByPlayer(e.PlayerID); exists {
		return fmt.Errorf("%w: player=%s", tournament.ErrAlreadyRegistered, e.PlayerID)
	}
	tx.agg.entries = append(tx.agg.entries, cloneEntry(e))
	return nil
}

func (tx *memoryTx) UpdateEntry(_ context.Context, e entry.Entry) error {
	idx := tx.agg.entryIndex(e.ID)
	if idx < 0 {
		return fmt.Errorf("%w: id=%s", tournament.ErrEntryNotFound, e.ID)
	}
	tx.agg.entries[idx] = cloneEntry(e)
	return nil
}

func (tx *memoryTx) InsertRounds(_ context.Context, rounds []bracket.Round) error {
	for _, round := range rounds {
		if err := tx.checkTournament(round.TournamentID); err != nil {
			return err
		}
	}
	tx.agg.rounds = append(tx.agg.rounds, rounds...)
	return nil
}

func (tx *memoryTx) UpdateRound(_ context.Context, round bracket.Round) error {
	for i := range tx.agg.rounds {
		if tx.agg.rounds[i].ID == round.ID {
			tx.agg.rounds[i] = round
			return nil
		}
	}
	return fmt.Errorf("round %s not found", round.ID)
}

func (tx *memoryTx) InsertMatches(_ context.Context, matches []bracket.Match) error {
	for _, m := range matches {
		if err := tx.checkTournament(m.TournamentID); err != nil {
			return err
		}
	}
	tx.agg.matches = append(tx.agg.matches, matches...)
	return nil
}

func (tx *memoryTx) UpdateMatch(_ context.Context, m bracket.Match) error {
	idx := tx.agg.matchIndex(m.ID)
	if idx < 0 {
		return fmt.Errorf("%w: id=%s", tournament.ErrMatchNotFound, m.ID)
	}
	tx.agg.matches[idx] = m
	return nil
}

func (tx *memoryTx) ReplaceStandings(_ context.Context, tournamentID string, rows []standing.Standing) error {
	if err := tx.checkTournament(tournamentID); err != nil {
		return err
	}
	tx.agg.standings = append([]standing.Standing(nil), rows...)
	return nil
}

func (tx *memoryTx) InsertSubmission(_ context.Context, s submission.Submission) error {
	if err := tx.checkTournament(s.TournamentID); err != nil {
		return err
	}
	tx.agg.submissions = append(tx.agg.submissions, s)
	return nil
}

func (tx *memoryTx) UpdateSubmission(_ context.Context, s submission.Submission) error {
	idx := tx.agg.submissionIndex(s.ID)
	if idx < 0 {
		return fmt.Errorf("%w: id=%s", tournament.ErrSubmissionNotFound, s.ID)
	}
	tx.agg.submissions[idx] = s
	return nil
}
