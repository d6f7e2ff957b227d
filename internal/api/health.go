// Package api holds the HTTP handlers that are not part of the chat
// surface itself.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ninjas3242/truck-bot/internal/inventory"
)

// HealthHandler reports service liveness and the state of the loaded
// knowledge base, so a partially degraded deploy is visible without log
// digging.
type HealthHandler struct {
	index *inventory.Index
}

func NewHealthHandler(index *inventory.Index) *HealthHandler {
	return &HealthHandler{index: index}
}

type healthResponse struct {
	Status   string `json:"status"`
	Trucks   int    `json:"trucks"`
	Dealers  int    `json:"dealers"`
	Snippets int    `json:"snippets"`
	Contact  bool   `json:"contact"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.index == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "degraded"})
		return
	}

	resp := healthResponse{
		Status:   "ok",
		Trucks:   len(h.index.AllTrucks()),
		Dealers:  len(h.index.Dealers()),
		Snippets: len(h.index.Snippets()),
		Contact:  h.index.ContactText() != "",
	}
	if resp.Trucks == 0 && resp.Dealers == 0 && !resp.Contact && resp.Snippets == 0 {
		resp.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
