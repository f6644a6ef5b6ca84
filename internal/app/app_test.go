package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/darts-tournament/internal/config"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	"github.com/riskibarqy/darts-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

func newAnubisStub(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token string `json:"token"`
		}
		_ = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		if body.Token != "good-token" {
			_, _ = w.Write([]byte(`{"active":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"active":true,"user_id":"player-9","email":"nine@example.com"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(anubisURL string) config.Config {
	return config.Config{
		AppEnv:                      config.EnvDev,
		HTTPAddr:                    ":0",
		ReadTimeout:                 time.Second,
		WriteTimeout:                time.Second,
		StorageDriver:               config.StorageMemory,
		CacheEnabled:                true,
		CacheTTL:                    time.Minute,
		CacheMaxEntries:             100,
		MetricsEnabled:              true,
		PlayerDirectory:             config.DirectoryMemory,
		AnubisBaseURL:               anubisURL,
		AnubisTimeout:               time.Second,
		AnubisCircuitFailureCount:   5,
		AnubisCircuitOpenTimeout:    time.Second,
		AnubisCircuitHalfOpenMaxReq: 1,
		Engine:                      usecase.DefaultSettings(),
	}
}

func TestNewHTTPServer_MemoryStack(t *testing.T) {
	anubis := newAnubisStub(t)
	srv, err := NewHTTPServer(context.Background(), testConfig(anubis.URL), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, srv.Close()) })

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")

	req := httptest.NewRequest(http.MethodGet, "/v1/entries/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.HTTPAddr = ""
	_, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "addr"))
}

type fixedVerifier user.Principal

func (f fixedVerifier) VerifyAccessToken(context.Context, string) (user.Principal, error) {
	return user.Principal(f), nil
}

func TestProfileSyncVerifier_SeedsDirectoryOnce(t *testing.T) {
	directory := memory.NewPlayerDirectory(nil)
	verifier := &profileSyncVerifier{
		next:      fixedVerifier{UserID: "player-3", Email: "three@example.com"},
		directory: directory,
	}

	_, err := verifier.VerifyAccessToken(context.Background(), "any")
	require.NoError(t, err)

	profile, err := directory.GetProfile(context.Background(), "player-3")
	require.NoError(t, err)
	require.Equal(t, "three@example.com", profile.DisplayName)

	profile.DisplayName = "Three Darts"
	directory.Upsert(profile)
	_, err = verifier.VerifyAccessToken(context.Background(), "any")
	require.NoError(t, err)

	profile, err = directory.GetProfile(context.Background(), "player-3")
	require.NoError(t, err)
	require.Equal(t, "Three Darts", profile.DisplayName)
}
