package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjas3242/truck-bot/internal/api"
	"github.com/ninjas3242/truck-bot/internal/conversation"
	"github.com/ninjas3242/truck-bot/internal/inventory"
	"github.com/ninjas3242/truck-bot/internal/search"
	"github.com/ninjas3242/truck-bot/internal/webchat"
)

type stubEngine struct{}

func (stubEngine) ProcessMessage(_ context.Context, _ conversation.Request) (conversation.Reply, error) {
	return conversation.Reply{Text: "ok"}, nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	idx, err := inventory.Load("../../inventory/testdata", nil)
	require.NoError(t, err)

	return New(&Config{
		Webchat: webchat.NewHandler(stubEngine{}, nil, "", nil),
		Health:  api.NewHealthHandler(idx),
		Search:  api.NewSearchHandler(search.NewScorer(idx, nil)),
	})
}

func TestHealthRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"trucks":5`)
}

func TestHealthDegradedWithoutIndex(t *testing.T) {
	r := New(&Config{Health: api.NewHealthHandler(nil)})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebchatMessageRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webchat/message",
		strings.NewReader(`{"session_id":"s1","text":"hello there"}`))
	testRouter(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestSearchRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=2+horse+truck", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "STX 2 HORSE FORD TRANSIT")
}

func TestSearchRouteRequiresQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
