package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ninjas3242/truck-bot/internal/search"
)

const defaultSearchLimit = 8

// Searcher is the raw inventory lookup surface.
type Searcher interface {
	Search(query string, maxResults int) []search.Result
}

// SearchHandler serves ranked inventory results without involving the
// model, for widgets or admin tooling that want structured data.
type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(searcher Searcher) *SearchHandler {
	if searcher == nil {
		panic("api: searcher cannot be nil")
	}
	return &SearchHandler{searcher: searcher}
}

type searchResult struct {
	Score   int    `json:"score"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "q parameter required", http.StatusBadRequest)
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	results := h.searcher.Search(query, limit)
	out := make([]searchResult, 0, len(results))
	for _, res := range results {
		out = append(out, searchResult{
			Score:   res.Score,
			Kind:    string(res.Kind),
			Title:   res.Title,
			Content: res.Content,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]searchResult{"results": out})
}
