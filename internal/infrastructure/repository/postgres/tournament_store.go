package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/darts-tournament/internal/platform/querybuilder"
)

const (
	tournamentsTable = "tournaments"
	entriesTable     = "tournament_entries"
	roundsTable      = "tournament_rounds"
	matchesTable     = "tournament_matches"
	standingsTable   = "tournament_standings"
	submissionsTable = "score_submissions"
)

var (
	tournamentColumns = qb.Columns(tournamentTableModel{})
	entryColumns      = qb.Columns(entryTableModel{})
	roundColumns      = qb.Columns(roundTableModel{})
	matchColumns      = qb.Columns(matchTableModel{})
	standingColumns   = qb.Columns(standingTableModel{})
	submissionColumns = qb.Columns(submissionTableModel{})
)

// tournamentStore reads and writes tournament rows through q, which is either the
// pool or the transaction of an Atomic call.
type tournamentStore struct {
	q queryer
}

func (s *tournamentStore) GetTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	return s.getTournament(ctx, tournamentID, false)
}

func (s *tournamentStore) getTournament(ctx context.Context, tournamentID string, lock bool) (tournament.Tournament, error) {
	b := qb.Select(tournamentColumns...).From(tournamentsTable).
		Where(qb.Eq("id", tournamentID))
	if lock {
		b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := s.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, fmt.Errorf("%w: id=%s", tournament.ErrTournamentNotFound, tournamentID)
		}
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	return row.toDomain(), nil
}

func (s *tournamentStore) ListEntries(ctx context.Context, tournamentID string) ([]entry.Entry, error) {
	query, args, err := qb.Select(entryColumns...).From(entriesTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("registered_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []entryTableModel
	if err := s.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *tournamentStore) GetEntry(ctx context.Context, tournamentID, entryID string) (entry.Entry, error) {
	query, args, err := qb.Select(entryColumns...).From(entriesTable).
		Where(qb.Eq("tournament_id", tournamentID), qb.Eq("id", entryID)).
		ToSQL()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("build get entry query: %w", err)
	}

	var row entryTableModel
	if err := s.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, fmt.Errorf("%w: id=%s", tournament.ErrEntryNotFound, entryID)
		}
		return entry.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return row.toDomain(), nil
}

func (s *tournamentStore) FindEntryByPlayer(ctx context.Context, tournamentID, playerID string) (entry.Entry, bool, error) {
	query, args, err := qb.Select(entryColumns...).From(entriesTable).
		Where(qb.Eq("tournament_id", tournamentID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("build find entry by player query: %w", err)
	}

	var row entryTableModel
	if err := s.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, fmt.Errorf("find entry by player: %w", err)
	}
	return row.toDomain(), true, nil
}

func (s *tournamentStore) ListRounds(ctx context.Context, tournamentID string) ([]bracket.Round, error) {
	query, args, err := qb.Select(roundColumns...).From(roundsTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("is_losers_bracket", "round_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := s.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}

	out := make([]bracket.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *tournamentStore) ListMatches(ctx context.Context, tournamentID string) ([]bracket.Match, error) {
	query, args, err := qb.Select(matchColumns...).From(matchesTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("is_losers_bracket", "round_number", "match_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := s.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]bracket.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *tournamentStore) GetMatch(ctx context.Context, tournamentID, matchID string) (bracket.Match, error) {
	query, args, err := qb.Select(matchColumns...).From(matchesTable).
		Where(qb.Eq("tournament_id", tournamentID), qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return bracket.Match{}, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := s.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bracket.Match{}, fmt.Errorf("%w: id=%s", tournament.ErrMatchNotFound, matchID)
		}
		return bracket.Match{}, fmt.Errorf("get match: %w", err)
	}
	return row.toDomain(), nil
}

func (s *tournamentStore) ListStandings(ctx context.Context, tournamentID string) ([]standing.Standing, error) {
	query, args, err := qb.Select(standingColumns...).From(standingsTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("rank", "entry_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := s.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *tournamentStore) GetSubmission(ctx context.Context, submissionID string) (submission.Submission, error) {
	query, args, err := qb.Select(submissionColumns...).From(submissionsTable).
		Where(qb.Eq("id", submissionID)).
		ToSQL()
	if err != nil {
		return submission.Submission{}, fmt.Errorf("build get submission query: %w", err)
	}

	var row submissionTableModel
	if err := s.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return submission.Submission{}, fmt.Errorf("%w: id=%s", tournament.ErrSubmissionNotFound, submissionID)
		}
		return submission.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return row.toDomain(), nil
}

func (s *tournamentStore) ListSubmissions(ctx context.Context, tournamentID string) ([]submission.Submission, error) {
	query, args, err := qb.Select(submissionColumns...).From(submissionsTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("submitted_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := s.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}

	out := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *tournamentStore) UpdateTournament(ctx context.Context, t tournament.Tournament) error {
	query, args, err := qb.UpdateModel(tournamentsTable, toTournamentModel(t), "id")
	if err != nil {
		return fmt.Errorf("build update tournament query: %w", err)
	}
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	return expectAffected(result, fmt.Errorf("%w: id=%s", tournament.ErrTournamentNotFound, t.ID))
}

func (s *tournamentStore) InsertEntry(ctx context.Context, e entry.Entry) error {
	query, args, err := qb.InsertModel(entriesTable, toEntryModel(e))
	if err != nil {
		return fmt.Errorf("build insert entry query: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player=%s", tournament.ErrAlreadyRegistered, e.PlayerID)
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *tournamentStore) UpdateEntry(ctx context.Context, e entry.Entry) error {
	query, args, err := qb.UpdateModel(entriesTable, toEntryModel(e), "id", "tournament_id")
	if err != nil {
		return fmt.Errorf("build update entry query: %w", err)
	}
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return expectAffected(result, fmt.Errorf("%w: id=%s", tournament.ErrEntryNotFound, e.ID))
}

func (s *tournamentStore) InsertRounds(ctx context.Context, rounds []bracket.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	rows := make([]roundTableModel, 0, len(rounds))
	for _, r := range rounds {
		rows = append(rows, toRoundModel(r))
	}

	query, args, err := qb.InsertModels(roundsTable, rows)
	if err != nil {
		return fmt.Errorf("build insert rounds query: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert rounds: %w", err)
	}
	return nil
}

func (s *tournamentStore) UpdateRound(ctx context.Context, round bracket.Round) error {
	query, args, err := qb.UpdateModel(roundsTable, toRoundModel(round), "id")
	if err != nil {
		return fmt.Errorf("build update round query: %w", err)
	}
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update round: %w", err)
	}
	return expectAffected(result, fmt.Errorf("round %s not found", round.ID))
}

func (s *tournamentStore) InsertMatches(ctx context.Context, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	rows := make([]matchTableModel, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, toMatchModel(m))
	}

	// next_match_id references rows in the same batch; the constraint is deferred.
	query, args, err := qb.InsertModels(matchesTable, rows)
	if err != nil {
		return fmt.Errorf("build insert matches query: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	return nil
}

func (s *tournamentStore) UpdateMatch(ctx context.Context, m bracket.Match) error {
	query, args, err := qb.UpdateModel(matchesTable, toMatchModel(m), "id", "tournament_id")
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return expectAffected(result, fmt.Errorf("%w: id=%s", tournament.ErrMatchNotFound, m.ID))
}

func (s *tournamentStore) ReplaceStandings(ctx context.Context, tournamentID string, rows []standing.Standing) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM "+standingsTable+" WHERE tournament_id = $1", tournamentID); err != nil {
		return fmt.Errorf("delete standings: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	models := make([]standingTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, toStandingModel(row))
	}
	query, args, err := qb.InsertModels(standingsTable, models)
	if err != nil {
		return fmt.Errorf("build insert standings query: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert standings: %w", err)
	}
	return nil
}

func (s *tournamentStore) InsertSubmission(ctx context.Context, sub submission.Submission) error {
	query, args, err := qb.InsertModel(submissionsTable, toSubmissionModel(sub))
	if err != nil {
		return fmt.Errorf("build insert submission query: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *tournamentStore) UpdateSubmission(ctx context.Context, sub submission.Submission) error {
	query, args, err := qb.UpdateModel(submissionsTable, toSubmissionModel(sub), "id")
	if err != nil {
		return fmt.Errorf("build update submission query: %w", err)
	}
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return expectAffected(result, fmt.Errorf("%w: id=%s", tournament.ErrSubmissionNotFound, sub.ID))
}
