package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
)

// CallbackPath is the only route on the webhook listener.
const CallbackPath = "/callback"

func NewRouter(handler *Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+CallbackPath, handler.Callback)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeText(ctx, w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
