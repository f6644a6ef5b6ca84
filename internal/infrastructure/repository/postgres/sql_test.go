package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert entry: %w", &pq.Error{Code: "23505", Message: "duplicate key value"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "foreign key violation"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(errors.New("pq: duplicate key")) {
			t.Fatalf("expected false for non pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get tournament: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(errors.New("connection reset")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullIntRoundTrip(t *testing.T) {
	if got := intPtrFromNull(nullIntPtr(nil)); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}

	seed := 7
	got := intPtrFromNull(nullIntPtr(&seed))
	if got == nil || *got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Fatalf("expected empty string to be null")
	}
	if v := nullString("m-1"); !v.Valid || v.String != "m-1" {
		t.Fatalf("unexpected null string: %+v", v)
	}
}

func TestGameSettingsScan(t *testing.T) {
	var g gameSettings
	if err := g.Scan([]byte(`{"legs":"5","double_out":"true"}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if g["legs"] != "5" || g["double_out"] != "true" {
		t.Fatalf("unexpected settings: %v", g)
	}

	if err := g.Scan([]byte(`{}`)); err != nil {
		t.Fatalf("scan empty: %v", err)
	}
	if g != nil {
		t.Fatalf("expected nil settings for empty object, got %v", g)
	}

	if err := g.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}

	v, err := gameSettings(nil).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if string(v.([]byte)) != "{}" {
		t.Fatalf("unexpected empty value: %s", v)
	}
}
