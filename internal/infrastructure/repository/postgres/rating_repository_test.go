package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
)

func TestRatingValuesFollowColumnOrder(t *testing.T) {
	now := time.Date(2026, 5, 2, 19, 30, 0, 0, time.UTC)
	item := rating.New("p-1", now)
	item.TournamentsWon = 2

	values := ratingValues(item)
	if len(values) != len(ratingColumns) {
		t.Fatalf("expected %d values, got %d", len(ratingColumns), len(values))
	}
	for i, col := range ratingColumns {
		switch col {
		case "player_id":
			if values[i] != "p-1" {
				t.Fatalf("unexpected player_id value: %v", values[i])
			}
		case "tournaments_won":
			if values[i] != 2 {
				t.Fatalf("unexpected tournaments_won value: %v", values[i])
			}
		case "updated_at":
			if got, ok := values[i].(time.Time); !ok || !got.Equal(now) {
				t.Fatalf("unexpected updated_at value: %v", values[i])
			}
		}
	}
}

func TestMatchModelKeepsOpenSlotsNull(t *testing.T) {
	row := toMatchModel(bracket.Match{
		ID:             "m-1",
		TournamentID:   "t-1",
		RoundID:        "r-1",
		RoundNumber:    1,
		MatchNumber:    1,
		Player1EntryID: "e-1",
		Status:         bracket.MatchWalkover,
		WinnerEntryID:  "e-1",
	})
	if row.Player2EntryID.Valid || row.NextMatchID.Valid || row.GameID.Valid {
		t.Fatalf("expected empty references to map to NULL: %+v", row)
	}

	back := row.toDomain()
	if back.Player2EntryID != "" || back.NextMatchID != "" || back.Player1EntryID != "e-1" || back.WinnerEntryID != "e-1" {
		t.Fatalf("unexpected match after mapping: %+v", back)
	}
}
