package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/riskibarqy/matchday-bot/internal/domain/chat"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
)

const (
	defaultCommandTimeout = 20 * time.Second
	maxWebhookBodyBytes   = 1 << 20
)

// EventParser verifies and decodes one webhook delivery.
type EventParser interface {
	Parse(r *http.Request) ([]chat.Event, error)
}

// EventHandler dispatches decoded events.
type EventHandler interface {
	HandleEvents(ctx context.Context, events []chat.Event) []usecase.EventOutcome
}

type Handler struct {
	parser         EventParser
	events         EventHandler
	commandTimeout time.Duration
	logger         *logging.Logger
}

func NewHandler(parser EventParser, events EventHandler, commandTimeout time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if commandTimeout <= 0 {
		commandTimeout = defaultCommandTimeout
	}

	return &Handler{
		parser:         parser,
		events:         events,
		commandTimeout: commandTimeout,
		logger:         logger,
	}
}

// Callback handles POST /callback. A signature or payload failure is a 400;
// everything after that is acknowledged with 200 whatever the per-event
// outcome.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Callback")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	events, err := h.parser.Parse(r.WithContext(ctx))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSignature) {
			h.logger.WarnContext(ctx, "webhook rejected: invalid signature", "remote_addr", r.RemoteAddr)
			writeText(ctx, w, http.StatusBadRequest, "invalid signature")
			return
		}
		h.logger.WarnContext(ctx, "webhook rejected: malformed body", "error", err)
		writeText(ctx, w, http.StatusBadRequest, "malformed request")
		return
	}

	// Replies must still go out if LINE drops the connection early.
	cmdCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.commandTimeout)
	defer cancel()

	outcomes := h.events.HandleEvents(cmdCtx, events)
	h.logger.DebugContext(ctx, "webhook handled", "events", len(events), "outcomes", outcomes)

	writeText(ctx, w, http.StatusOK, "OK")
}
