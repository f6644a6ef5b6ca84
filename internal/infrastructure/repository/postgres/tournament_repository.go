package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/darts-tournament/internal/platform/querybuilder"
)

// TournamentRepository persists tournaments in Postgres. Atomic holds a row lock
// on the tournament for the duration of the callback.
type TournamentRepository struct {
	*tournamentStore
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{
		tournamentStore: &tournamentStore{q: db},
		db:              db,
	}
}

func (r *TournamentRepository) CreateTournament(ctx context.Context, t tournament.Tournament) error {
	query, args, err := qb.InsertModel(tournamentsTable, toTournamentModel(t))
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) Atomic(ctx context.Context, tournamentID string, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx tournament %s: %w", tournamentID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	store := &tournamentStore{q: tx}
	if _, err := store.getTournament(ctx, tournamentID, true); err != nil {
		return err
	}
	if err := fn(ctx, store); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx tournament %s: %w", tournamentID, err)
	}
	return nil
}

func (r *TournamentRepository) Snapshot(ctx context.Context, tournamentID string, fn func(ctx context.Context, reader repository.Reader) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin snapshot tournament %s: %w", tournamentID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	store := &tournamentStore{q: tx}
	if _, err := store.getTournament(ctx, tournamentID, false); err != nil {
		return err
	}
	return fn(ctx, store)
}

func (r *TournamentRepository) ListTournaments(ctx context.Context, filter repository.Filter) ([]tournament.Tournament, error) {
	conditions := make([]qb.Condition, 0, 6)
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, qb.In("status", statuses))
	}
	if filter.Format != "" {
		conditions = append(conditions, qb.Eq("format", string(filter.Format)))
	}
	if filter.FeaturedOnly {
		conditions = append(conditions, qb.Eq("is_featured", true))
	}
	if filter.PublicOnly {
		conditions = append(conditions, qb.Eq("is_private", false))
	}
	if !filter.StartAfter.IsZero() {
		conditions = append(conditions, qb.Gt("start_time", filter.StartAfter.UTC()))
	}
	if filter.OrganizerID != "" {
		conditions = append(conditions, qb.Eq("organizer_id", filter.OrganizerID))
	}

	b := qb.Select(tournamentColumns...).From(tournamentsTable).Where(conditions...)
	if filter.OrderByStart {
		b.OrderBy("start_time ASC", "id")
	} else {
		b.OrderBy("created_at DESC", "id")
	}
	if filter.Limit > 0 {
		b.Limit(filter.Limit)
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TournamentRepository) ListEntriesByPlayer(ctx context.Context, playerID string) ([]repository.EntrySummary, error) {
	query, args, err := qb.Select(entryColumns...).From(entriesTable).
		Where(qb.Eq("player_id", playerID)).
		OrderBy("registered_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries by player query: %w", err)
	}

	var entryRows []entryTableModel
	if err := r.db.SelectContext(ctx, &entryRows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries by player: %w", err)
	}
	if len(entryRows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(entryRows))
	for _, row := range entryRows {
		ids = append(ids, row.TournamentID)
	}
	query, args, err = qb.Select(tournamentColumns...).From(tournamentsTable).
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player tournaments query: %w", err)
	}

	var tournamentRows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &tournamentRows, query, args...); err != nil {
		return nil, fmt.Errorf("select player tournaments: %w", err)
	}
	byID := make(map[string]tournament.Tournament, len(tournamentRows))
	for _, row := range tournamentRows {
		byID[row.ID] = row.toDomain()
	}

	out := make([]repository.EntrySummary, 0, len(entryRows))
	for _, row := range entryRows {
		t, ok := byID[row.TournamentID]
		if !ok {
			continue
		}
		out = append(out, repository.EntrySummary{Entry: row.toDomain(), Tournament: t})
	}
	return out, nil
}

type confirmedCountRow struct {
	TournamentID string `db:"tournament_id"`
	Confirmed    int    `db:"confirmed"`
}

func (r *TournamentRepository) CountConfirmed(ctx context.Context, tournamentIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(tournamentIDs))
	if len(tournamentIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("tournament_id", "COUNT(*) AS confirmed").From(entriesTable).
		Where(
			qb.In("tournament_id", tournamentIDs),
			qb.Eq("status", string(entry.StatusConfirmed)),
		).
		GroupBy("tournament_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count confirmed query: %w", err)
	}

	var rows []confirmedCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count confirmed entries: %w", err)
	}
	for _, id := range tournamentIDs {
		out[id] = 0
	}
	for _, row := range rows {
		out[row.TournamentID] = row.Confirmed
	}
	return out, nil
}
