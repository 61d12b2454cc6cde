package catalog

import (
	"net/http"

	"portfolio-backend/internal/transport"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Technologies serves the tag catalog, optionally narrowed by ?q=.
func (h *Handler) Technologies(w http.ResponseWriter, r *http.Request) {
	tags := Search(r.URL.Query().Get("q"))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": tags,
	})
}

// Profile serves the static skill and work-history tables.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills":    Skills(),
		"positions": Positions(),
	})
}
