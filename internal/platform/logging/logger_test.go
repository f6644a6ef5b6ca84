package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestLoggerWritesKeyValuesAndTraceFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelDebug).Named("test")

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "bracket generated", "tournament_id", "t-1", "rounds", 3, "error", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{
		`"msg":"bracket generated"`,
		`"logger":"test"`,
		`"tournament_id":"t-1"`,
		`"rounds":3`,
		`"error":"boom"`,
		`"trace_id":"0102030405060708090a0b0c0d0e0f10"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)
	logger.Info("skipped")
	logger.With("component", "x").Error("kept", "dangling")

	out := buf.String()
	if strings.Contains(out, "skipped") {
		t.Fatalf("info line must be filtered: %s", out)
	}
	if !strings.Contains(out, `"dangling":null`) {
		t.Fatalf("expected dangling key encoded as null: %s", out)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}

func TestSetMirrorReceivesAcceptedRecords(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)
	logger.Debug("filtered")
	logger.Info("match completed", "match_id", "m-1")

	if len(got) != 1 || got[0] != "info:match completed" {
		t.Fatalf("unexpected mirrored records: %v", got)
	}

	SetMirror(nil)
	logger.Info("after reset")
	if len(got) != 1 {
		t.Fatalf("mirror must be removed: %v", got)
	}
}
