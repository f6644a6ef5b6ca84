package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/darts-tournament/internal/config"
	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	"github.com/riskibarqy/darts-tournament/internal/domain/repository"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/darts-tournament/internal/interfaces/httpapi"
	"github.com/riskibarqy/darts-tournament/internal/observability"
	basecache "github.com/riskibarqy/darts-tournament/internal/platform/cache"
	"github.com/riskibarqy/darts-tournament/internal/platform/dburl"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
	"github.com/riskibarqy/darts-tournament/internal/platform/resilience"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

// Server bundles the HTTP server with the resources that must be released
// after it stops.
type Server struct {
	HTTP *http.Server
	db   *sqlx.DB
}

// Close releases the database pool, if any.
func (s *Server) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type storage struct {
	tournaments repository.Repository
	ratings     rating.Repository
	db          *sqlx.DB
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	verifier, directory := newAccountAdapters(cfg, logger)

	ratingRepo := store.ratings
	if cfg.CacheEnabled {
		directory = cache.NewPlayerDirectory(directory, basecache.NewStore[player.Profile](cfg.CacheTTL, cfg.CacheMaxEntries))
		ratingRepo = cache.NewRatingRepository(ratingRepo, basecache.NewStore[[]rating.Rating](cfg.CacheTTL, cfg.CacheMaxEntries))
	}

	var (
		metrics        usecase.Metrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := observability.NewMetricsRegistry()
		metrics = observability.NewEngineMetrics(reg)
		metricsHandler = observability.MetricsHandler(reg)
	}

	settings := cfg.Engine
	ids := idgen.NewUUIDGenerator()
	repo := store.tournaments

	ratingSvc := usecase.NewRatingService(ratingRepo, repo, settings, logger.Named("usecase.rating"))
	handler := httpapi.NewHandler(
		usecase.NewTournamentService(repo, ids, settings, metrics, logger.Named("usecase.tournament")),
		usecase.NewRegistrationService(repo, directory, ids, settings, metrics, logger.Named("usecase.registration")),
		usecase.NewBracketService(repo, ids, settings, ratingSvc, metrics, logger.Named("usecase.bracket")),
		usecase.NewSubmissionService(repo, ids, usecase.NewDigitPasscodeGenerator(), settings, ratingSvc, metrics, logger.Named("usecase.submission")),
		usecase.NewStandingService(repo, logger.Named("usecase.standing")),
		usecase.NewQueryService(repo),
		ratingSvc,
		logger.Named("httpapi"),
	)

	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     metricsHandler,
		SubmitLimiter:      httpapi.NewPrincipalRateLimiter(settings.MaxAPICallsPerMinute),
	})

	return &Server{
		HTTP: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		db: store.db,
	}, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (storage, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("storage ready", "driver", config.StorageMemory)
		return storage{
			tournaments: memory.NewTournamentRepository(),
			ratings:     memory.NewRatingRepository(),
		}, nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return storage{}, err
	}
	logger.Info("storage ready",
		"driver", config.StoragePostgres,
		"db", dburl.Redact(cfg.DBURL),
		"max_open_conns", cfg.DBMaxOpenConns,
	)
	return storage{
		tournaments: postgres.NewTournamentRepository(db),
		ratings:     postgres.NewRatingRepository(db),
		db:          db,
	}, nil
}

func newAccountAdapters(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, player.Directory) {
	breaker := resilience.CircuitBreakerConfig{
		Enabled:          cfg.AnubisCircuitEnabled,
		FailureThreshold: cfg.AnubisCircuitFailureCount,
		OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
	}

	client := anubis.NewClient(anubis.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AnubisTimeout},
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisTokenCacheTTL,
		CacheMaxItems:  cfg.CacheMaxEntries,
		CircuitBreaker: breaker,
		Logger:         logger.Named("anubis"),
	})

	if cfg.PlayerDirectory == config.DirectoryMemory {
		directory := memory.NewPlayerDirectory(memory.SeedProfiles())
		return &profileSyncVerifier{next: client, directory: directory}, directory
	}

	return client, anubis.NewProfileClient(anubis.ProfileClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		ProfilePath:    cfg.AnubisProfilePath,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CircuitBreaker: breaker,
		Logger:         logger.Named("anubis.profile"),
	})
}

// profileSyncVerifier fills the in-memory directory with every principal that
// authenticates, so local setups can register without the Anubis user API.
type profileSyncVerifier struct {
	next      httpapi.TokenVerifier
	directory *memory.PlayerDirectory
}

func (v *profileSyncVerifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	principal, err := v.next.VerifyAccessToken(ctx, token)
	if err != nil {
		return user.Principal{}, err
	}
	if _, err := v.directory.GetProfile(ctx, principal.UserID); err != nil {
		v.directory.Upsert(player.Profile{ID: principal.UserID, DisplayName: principal.Email})
	}
	return principal, nil
}
