package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
)

// startSideServer serves handler on addr in the background. Side servers
// never share the webhook listener.
func startSideServer(name, addr string, handler http.Handler, logger *logging.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(name+" server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(name+" server failed", "error", err)
		}
	}()

	return srv
}

// StopServer shuts srv down within timeout. A nil server is a no-op.
func StopServer(srv *http.Server, logger *logging.Logger, timeout time.Duration) error {
	if srv == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("side server stopped", "addr", srv.Addr)

	return nil
}
