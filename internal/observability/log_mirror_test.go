package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"

	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"tournament_id", "t-1", "round", 2, "error", errors.New("boom"), "dangling"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "tournament_id" || attrs[0].Value.AsString() != "t-1" {
		t.Fatalf("unexpected tournament_id attribute")
	}
	if attrs[1].Key != "round" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected round attribute")
	}
	if attrs[2].Value.AsString() != "boom" {
		t.Fatalf("expected error rendered as string")
	}
	if attrs[3].Key != "dangling" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute")
	}
}

func TestBuildRecord(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	record := buildRecord(now, logging.LevelWarn, "dispute opened", []any{"submission_id", "s-1"})

	if record.Severity() != otellog.SeverityWarn || record.SeverityText() != "WARN" {
		t.Fatalf("unexpected severity %v %q", record.Severity(), record.SeverityText())
	}
	if record.Body().AsString() != "dispute opened" {
		t.Fatalf("unexpected body %q", record.Body().AsString())
	}
	if record.AttributesLen() != 1 {
		t.Fatalf("expected 1 attribute, got %d", record.AttributesLen())
	}
	if !record.Timestamp().Equal(now) {
		t.Fatalf("unexpected timestamp %s", record.Timestamp())
	}
}

func TestLogValue_FallsBackToText(t *testing.T) {
	v := logValue([]string{"a", "b"})
	if v.Kind() != otellog.KindString || v.AsString() != "[a b]" {
		t.Fatalf("unexpected value %v", v)
	}
	if logValue(1.5).AsFloat64() != 1.5 {
		t.Fatalf("expected float kept")
	}
}
