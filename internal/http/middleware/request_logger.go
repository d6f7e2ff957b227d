package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ninjas3242/truck-bot/pkg/logging"
)

// RequestLogger emits structured logs for every HTTP request. Webchat
// requests carry a chat session identifier, which is tagged onto both log
// lines so one conversation can be followed across the /webchat endpoints.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
			}
			if sessionID := chatSessionID(r); sessionID != "" {
				attrs = append(attrs, "session_id", sessionID)
			}

			logger.Info("request started", append(attrs, "remote_ip", r.RemoteAddr)...)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request completed", append(attrs,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)...)
		})
	}
}

// chatSessionID pulls the webchat session identifier from the query string
// or the X-Session-ID header. Empty for requests that are not
// session-scoped, such as /health and /metrics.
func chatSessionID(r *http.Request) string {
	if id := r.URL.Query().Get("session"); id != "" {
		return id
	}
	return r.Header.Get("X-Session-ID")
}
