package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/darts-tournament/internal/config"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

// DebugServer exposes net/http/pprof on a listener separate from the API.
type DebugServer struct {
	srv    *http.Server
	logger *logging.Logger
}

func debugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer returns nil when PPROF_ENABLED is off.
func StartPprofServer(cfg config.Config, logger *logging.Logger) (*DebugServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil, nil
	}

	ds := &DebugServer{
		srv: &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           debugMux(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.Named("pprof"),
	}

	go func() {
		ds.logger.Info("pprof server starting", "addr", cfg.PprofAddr)
		if err := ds.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ds.logger.Error("pprof server failed", "error", err)
		}
	}()

	return ds, nil
}

// StopPprofServer is safe to call with a nil server.
func StopPprofServer(ds *DebugServer, timeout time.Duration) error {
	if ds == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := ds.srv.Shutdown(ctx); err != nil {
		return err
	}
	ds.logger.Info("pprof server stopped")
	return nil
}
