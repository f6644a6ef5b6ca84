package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	DirectoryMemory = "memory"
	DirectoryAnubis = "anubis"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	ShutdownTimeout             time.Duration
	StorageDriver               string
	DBURL                       string
	DBDisablePreparedBinary     bool
	DBMaxOpenConns              int
	DBMaxIdleConns              int
	CacheEnabled                bool
	CacheTTL                    time.Duration
	CacheMaxEntries             int
	CORSAllowedOrigins          []string
	MetricsEnabled              bool
	PprofEnabled                bool
	PprofAddr                   string
	PlayerDirectory             string
	AnubisBaseURL               string
	AnubisIntrospectURL         string
	AnubisProfilePath           string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisTokenCacheTTL         time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	EngineSettingsFile          string
	Engine                      usecase.Settings
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("SERVICE_NAME", "darts-tournament-api"),
		ServiceVersion:             getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		PprofAddr:                  getEnv("PPROF_ADDR", ":6060"),
		AnubisBaseURL:              strings.TrimSpace(getEnv("ANUBIS_BASE_URL", "http://localhost:8081")),
		AnubisIntrospectURL:        strings.TrimSpace(getEnv("ANUBIS_INTROSPECT_URL", "")),
		AnubisProfilePath:          strings.TrimSpace(getEnv("ANUBIS_PROFILE_PATH", "/v1/users/")),
		AnubisAdminKey:             strings.TrimSpace(getEnv("ANUBIS_ADMIN_KEY", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "darts-tournament-api"),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		EngineSettingsFile:         strings.TrimSpace(getEnv("ENGINE_SETTINGS_FILE", "")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAnubis(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadTelemetry(&cfg); err != nil {
		return Config{}, err
	}

	engine, err := loadEngineSettings()
	if err != nil {
		return Config{}, err
	}
	if cfg.EngineSettingsFile != "" {
		engine, err = LoadSettingsFile(cfg.EngineSettingsFile, engine)
		if err != nil {
			return Config{}, err
		}
	}
	cfg.Engine = engine

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", driver, StorageMemory, StoragePostgres)
	}
	cfg.StorageDriver = driver

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if driver == StoragePostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}

	var err error
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "false"); err != nil {
		return err
	}
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns, err = getEnvAsInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 || cfg.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1 and DB_MAX_IDLE_CONNS >= 0")
	}

	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "30s"); err != nil {
		return err
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if cfg.CacheMaxEntries, err = getEnvAsInt("CACHE_MAX_ENTRIES", 10000); err != nil {
		return fmt.Errorf("parse CACHE_MAX_ENTRIES: %w", err)
	}
	return nil
}

func loadAnubis(cfg *Config) error {
	directory := strings.ToLower(strings.TrimSpace(getEnv("PLAYER_DIRECTORY", DirectoryAnubis)))
	switch directory {
	case DirectoryMemory, DirectoryAnubis:
	default:
		return fmt.Errorf("invalid PLAYER_DIRECTORY %q: valid values are %s, %s", directory, DirectoryMemory, DirectoryAnubis)
	}
	cfg.PlayerDirectory = directory

	if cfg.AnubisIntrospectURL == "" {
		cfg.AnubisIntrospectURL = strings.TrimSuffix(cfg.AnubisBaseURL, "/") + "/v1/auth/introspect"
	}

	var err error
	if cfg.AnubisTimeout, err = getEnvAsDuration("ANUBIS_TIMEOUT", "3s"); err != nil {
		return err
	}
	if cfg.AnubisTokenCacheTTL, err = getEnvAsDuration("ANUBIS_TOKEN_CACHE_TTL", "30s"); err != nil {
		return err
	}
	if cfg.AnubisCircuitEnabled, err = getEnvAsBool("ANUBIS_CIRCUIT_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.AnubisCircuitFailureCount, err = getEnvAsInt("ANUBIS_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse ANUBIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.AnubisCircuitFailureCount < 1 {
		return fmt.Errorf("ANUBIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	if cfg.AnubisCircuitOpenTimeout, err = getEnvAsDuration("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.AnubisCircuitOpenTimeout <= 0 {
		return fmt.Errorf("ANUBIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	if cfg.AnubisCircuitHalfOpenMaxReq, err = getEnvAsInt("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return fmt.Errorf("parse ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.AnubisCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadTelemetry(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", "true"); err != nil {
		return err
	}

	pprofDefault := "true"
	if cfg.AppEnv == EnvProd {
		pprofDefault = "false"
	}
	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", pprofDefault); err != nil {
		return err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	if cfg.PyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	return nil
}

// loadEngineSettings reads the feature flags from the environment on top of
// usecase.DefaultSettings.
func loadEngineSettings() (usecase.Settings, error) {
	s := usecase.DefaultSettings()

	flags := []struct {
		key string
		dst *bool
	}{
		{"TOURNAMENTS_ENABLED", &s.TournamentsEnabled},
		{"LEADERBOARDS_ENABLED", &s.LeaderboardsEnabled},
		{"MAINTENANCE_MODE", &s.MaintenanceMode},
		{"SCORE_SUBMISSION_ENABLED", &s.ScoreSubmissionEnabled},
		{"SWISS_RANDOM_FIRST_ROUND", &s.SwissRandomFirstRound},
	}
	for _, f := range flags {
		v, err := getEnvAsBool(f.key, strconv.FormatBool(*f.dst))
		if err != nil {
			return usecase.Settings{}, err
		}
		*f.dst = v
	}

	limits := []struct {
		key string
		dst *int
	}{
		{"MAX_TOURNAMENTS_PER_ORGANIZER", &s.MaxTournamentsPerOrganizer},
		{"MAX_TOURNAMENT_PARTICIPANTS", &s.MaxTournamentParticipants},
		{"MAX_API_CALLS_PER_MINUTE", &s.MaxAPICallsPerMinute},
	}
	for _, l := range limits {
		v, err := getEnvAsInt(l.key, *l.dst)
		if err != nil {
			return usecase.Settings{}, fmt.Errorf("parse %s: %w", l.key, err)
		}
		if v < 0 {
			return usecase.Settings{}, fmt.Errorf("%s must be >= 0", l.key)
		}
		*l.dst = v
	}

	return s, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
