package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", StoragePostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
	}

	t.Setenv("STORAGE_DRIVER", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_DRIVER")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PPROF_ENABLED", "")
	t.Setenv("PLAYER_DIRECTORY", "")
	t.Setenv("ANUBIS_BASE_URL", "http://anubis:8081/")
	t.Setenv("ANUBIS_INTROSPECT_URL", "")
	t.Setenv("ENGINE_SETTINGS_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.PlayerDirectory != DirectoryAnubis {
		t.Fatalf("expected anubis directory by default, got %q", cfg.PlayerDirectory)
	}
	if cfg.PprofEnabled {
		t.Fatalf("expected pprof disabled in prod by default")
	}
	if cfg.AnubisIntrospectURL != "http://anubis:8081/v1/auth/introspect" {
		t.Fatalf("unexpected introspect URL: %q", cfg.AnubisIntrospectURL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
	if diff := cmp.Diff(usecase.DefaultSettings(), cfg.Engine); diff != "" {
		t.Fatalf("engine settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EngineSettingsFromEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	content := "maintenance_mode = true\nmax_tournament_participants = 64\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write settings file: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("LEADERBOARDS_ENABLED", "false")
	t.Setenv("MAX_TOURNAMENT_PARTICIPANTS", "256")
	t.Setenv("ENGINE_SETTINGS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := usecase.DefaultSettings()
	want.LeaderboardsEnabled = false
	want.MaintenanceMode = true
	want.MaxTournamentParticipants = 64
	if diff := cmp.Diff(want, cfg.Engine); diff != "" {
		t.Fatalf("engine settings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSettings_RejectsUnknownKeysAndNegativeLimits(t *testing.T) {
	base := usecase.DefaultSettings()

	if _, err := parseSettings([]byte("tournaments_enabld = false\n"), base); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
	if _, err := parseSettings([]byte("max_api_calls_per_minute = -1\n"), base); err == nil {
		t.Fatalf("expected error for negative limit")
	}

	got, err := parseSettings(nil, base)
	if err != nil {
		t.Fatalf("parse empty settings: %v", err)
	}
	if diff := cmp.Diff(base, got); diff != "" {
		t.Fatalf("empty file must keep base (-want +got):\n%s", diff)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Fatalf("parseLogLevel(%q)=%s want %s", in, got, want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example.com, ,https://b.example.com ")
	want := []string{"https://a.example.com", "https://b.example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("splitCSV mismatch (-want +got):\n%s", diff)
	}
}
