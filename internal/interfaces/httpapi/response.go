package httpapi

import (
	"context"
	"net/http"
)

// writeText answers with a plain body. LINE only inspects the status code.
func writeText(ctx context.Context, w http.ResponseWriter, status int, body string) {
	_, span := startSpan(ctx, "httpapi.writeText")
	defer span.End()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
