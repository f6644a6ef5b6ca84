package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	qb "github.com/riskibarqy/darts-tournament/internal/platform/querybuilder"
)

const ratingsTable = "player_ratings"

var ratingColumns = qb.Columns(ratingTableModel{})

type RatingRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db, now: time.Now}
}

func (r *RatingRepository) Get(ctx context.Context, playerID string) (rating.Rating, bool, error) {
	return getRating(ctx, r.db, playerID, false)
}

func getRating(ctx context.Context, q queryer, playerID string, lock bool) (rating.Rating, bool, error) {
	b := qb.Select(ratingColumns...).From(ratingsTable).Where(qb.Eq("player_id", playerID))
	if lock {
		b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return rating.Rating{}, false, fmt.Errorf("build get rating query: %w", err)
	}

	var row ratingTableModel
	if err := q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.Rating{}, false, nil
		}
		return rating.Rating{}, false, fmt.Errorf("get rating: %w", err)
	}
	return row.toDomain(), true, nil
}

// Update seeds a default row first so concurrent first-time updates for the
// same player serialize on the row lock.
func (r *RatingRepository) Update(ctx context.Context, playerID string, fn func(*rating.Rating) error) (rating.Rating, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return rating.Rating{}, fmt.Errorf("begin tx update rating: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	seedQuery, seedArgs, err := qb.InsertInto(ratingsTable).
		Columns(ratingColumns...).
		Values(ratingValues(rating.New(playerID, r.now().UTC()))...).
		OnConflictUpdate([]string{"player_id"}).
		ToSQL()
	if err != nil {
		return rating.Rating{}, fmt.Errorf("build seed rating query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, seedQuery, seedArgs...); err != nil {
		return rating.Rating{}, fmt.Errorf("seed rating: %w", err)
	}

	current, _, err := getRating(ctx, tx, playerID, true)
	if err != nil {
		return rating.Rating{}, err
	}
	if err := fn(&current); err != nil {
		return rating.Rating{}, err
	}

	query, args, err := qb.UpdateModel(ratingsTable, toRatingModel(current), "player_id")
	if err != nil {
		return rating.Rating{}, fmt.Errorf("build update rating query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return rating.Rating{}, fmt.Errorf("update rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return rating.Rating{}, fmt.Errorf("commit tx update rating: %w", err)
	}
	return current, nil
}

func (r *RatingRepository) Leaderboard(ctx context.Context, limit int) ([]rating.Rating, error) {
	b := qb.Select(ratingColumns...).From(ratingsTable).OrderBy("rating DESC", "player_id")
	if limit > 0 {
		b.Limit(limit)
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	var rows []ratingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	out := make([]rating.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func ratingValues(item rating.Rating) []any {
	m := toRatingModel(item)
	return []any{
		m.PlayerID, m.Value, m.Peak, m.Lowest, m.Tier,
		m.TournamentsPlayed, m.TournamentsWon, m.TournamentsRunnerUp, m.TournamentsTop4,
		m.MatchesWon, m.MatchesLost, m.TotalTournamentPoints,
		m.LastTournamentAt, m.UpdatedAt,
	}
}
