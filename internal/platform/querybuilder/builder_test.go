package querybuilder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("public_id", "name").
		From("tournaments").
		Where(Eq("status", "registration_open"), Gt("start_time", "2026-01-01"), IsNull("deleted_at")).
		OrderBy("start_time ASC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM tournaments WHERE status = $1 AND start_time > $2 AND deleted_at IS NULL ORDER BY start_time ASC LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if diff := cmp.Diff([]any{"registration_open", "2026-01-01"}, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}

func TestSelectBuilderInAndForUpdate(t *testing.T) {
	t.Parallel()

	query, args, err := Select("public_id").
		From("tournaments").
		Where(In("status", []string{"a", "b"}), Expr("(is_private = ? OR organizer_id = ?)", false, "u1")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	wantQuery := "SELECT public_id FROM tournaments WHERE status IN ($1, $2) AND (is_private = $3 OR organizer_id = $4) FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, _ = Select("id").From("t").Where(In[string]("status", nil)).ToSQL()
	if query != "SELECT id FROM t WHERE 1=0" {
		t.Fatalf("empty IN must match nothing, got %s", query)
	}
}

func TestInsertBuilderUpsert(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("tournament_standings").
		Columns("tournament_id", "entry_id", "rank").
		Values("t1", "e1", 1).
		Values("t1", "e2", 2).
		OnConflictUpdate([]string{"tournament_id", "entry_id"}, "rank").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO tournament_standings (tournament_id, entry_id, rank) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (tournament_id, entry_id) DO UPDATE SET rank = EXCLUDED.rank"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("tournament_entries").
		Set("status", "confirmed").
		SetExpr("wins", "wins + ?", 1).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "e1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE tournament_entries SET status = $1, wins = wins + $2, updated_at = NOW() WHERE public_id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if diff := cmp.Diff([]any{"confirmed", 1, "e1"}, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}

	if _, _, err := Update("t").Set("a", 1).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ID     string `db:"public_id"`
		Name   string `db:"name"`
		Ignore string `db:"-"`
		hidden string
	}

	query, args, err := InsertModel("players", row{ID: "p1", Name: "Phil", hidden: "x"}, "public_id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	wantQuery := "INSERT INTO players (public_id, name) VALUES ($1, $2) ON CONFLICT (public_id) DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if diff := cmp.Diff([]any{"p1", "Phil"}, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}

	query, args, err = InsertModels("players", []row{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("insert models: %v", err)
	}
	if query != "INSERT INTO players (public_id, name) VALUES ($1, $2), ($3, $4)" || len(args) != 4 {
		t.Fatalf("unexpected batch insert: %s %v", query, args)
	}
	if got := Columns(row{}); !cmp.Equal(got, []string{"public_id", "name"}) {
		t.Fatalf("unexpected columns: %v", got)
	}
}

func TestUpdateModel(t *testing.T) {
	t.Parallel()

	type row struct {
		TournamentID string `db:"tournament_id"`
		ID           string `db:"id"`
		Status       string `db:"status"`
		Wins         int    `db:"wins"`
	}

	query, args, err := UpdateModel("entries", row{TournamentID: "t1", ID: "e1", Status: "confirmed", Wins: 2}, "id", "tournament_id")
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	wantQuery := "UPDATE entries SET status = $1, wins = $2 WHERE id = $3 AND tournament_id = $4"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if diff := cmp.Diff([]any{"confirmed", 2, "e1", "t1"}, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}

	if _, _, err := UpdateModel("entries", row{}); err == nil {
		t.Fatalf("expected error without key columns")
	}
	if _, _, err := UpdateModel("entries", row{}, "missing"); err == nil {
		t.Fatalf("expected error for unknown key column")
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	t.Parallel()

	query, args, err := Select("tournament_id", "COUNT(*) AS confirmed").
		From("tournament_entries").
		Where(In("tournament_id", []string{"t1", "t2"}), Eq("status", "confirmed")).
		GroupBy("tournament_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT tournament_id, COUNT(*) AS confirmed FROM tournament_entries WHERE tournament_id IN ($1, $2) AND status = $3 GROUP BY tournament_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if diff := cmp.Diff([]any{"t1", "t2", "confirmed"}, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}
