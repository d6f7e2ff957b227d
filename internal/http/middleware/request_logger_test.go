package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ninjas3242/truck-bot/pkg/logging"
)

func captureLogger() (*logging.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &logging.Logger{Logger: slog.New(slog.NewJSONHandler(buf, nil))}, buf
}

func loggedHandler(logger *logging.Logger) http.Handler {
	return RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
}

func TestRequestLoggerTagsChatSession(t *testing.T) {
	logger, buf := captureLogger()
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/webchat/history?session=abc123", nil)
	loggedHandler(logger).ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, `"session_id":"abc123"`)
	assert.Contains(t, out, `"path":"/webchat/history"`)
	assert.Contains(t, out, `"status":200`)
}

func TestRequestLoggerSessionHeaderFallback(t *testing.T) {
	logger, buf := captureLogger()
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/webchat/message", nil)
	req.Header.Set("X-Session-ID", "hdr-session")
	loggedHandler(logger).ServeHTTP(rec, req)

	assert.Contains(t, buf.String(), `"session_id":"hdr-session"`)
}

func TestRequestLoggerOmitsSessionForUnscopedPaths(t *testing.T) {
	logger, buf := captureLogger()
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	loggedHandler(logger).ServeHTTP(rec, req)

	out := buf.String()
	assert.NotContains(t, out, "session_id")
	assert.Contains(t, out, "request completed")
}
