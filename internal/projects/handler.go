package projects

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

// List serves the public gallery. Optional category= and technology= query
// parameters select the corresponding repository variant.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		items []Project
		err   error
	)

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	tech := strings.TrimSpace(r.URL.Query().Get("technology"))

	switch {
	case category != "" && category != CategoryAll:
		if !Category(category).Valid() {
			transport.WriteError(w, http.StatusBadRequest, "unknown category", nil)
			return
		}
		items, err = h.service.ListByCategory(ctx, Category(category))
	case tech != "":
		items, err = h.service.ListByTechnology(ctx, tech)
	default:
		items, err = h.service.ListAll(ctx)
	}

	if err != nil {
		log.Error("projects list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("projects list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	limit, err := httpx.ParseLimit(r.URL.Query(), DefaultFeaturedLimit, 20)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListFeatured(ctx, limit)
	if err != nil {
		log.Error("projects featured: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("projects featured: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// Search applies the in-memory filter engine over the full list and also
// returns the derived category and technology sets the gallery UI offers.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	q := r.URL.Query()
	filter := Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Query:    q.Get("q"),
	}
	if raw := strings.TrimSpace(q.Get("technologies")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Technologies = append(filter.Technologies, t)
			}
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	all, err := h.service.ListAll(ctx)
	if err != nil {
		log.Error("projects search: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	items := ApplyFilter(all, filter)

	log.Info("projects search: ok",
		slog.Int("total", len(all)),
		slog.Int("matched", len(items)),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":        items,
		"total":        len(all),
		"categories":   DistinctCategories(all),
		"technologies": DistinctTechnologies(all),
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		log.Error("projects get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if item == nil {
		transport.WriteError(w, http.StatusNotFound, "project not found", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, item)
}

// Categories serves the exhaustive category table.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name Category `json:"name"`
		CategoryInfo
	}
	out := make([]entry, 0, len(AllCategories()))
	for _, c := range AllCategories() {
		out = append(out, entry{Name: c, CategoryInfo: c.Info()})
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": out,
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var draft Draft
	if err := httpx.DecodeJSON(r.Body, &draft); err != nil {
		log.Warn("admin projects create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(draft); err != nil {
		log.Warn("admin projects create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, middleware.GateTokenFromContext(r.Context()), draft)
	if err != nil {
		h.writeMutationError(w, log, "admin projects create", err)
		return
	}

	log.Info("admin projects create: ok", slog.String("project_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var patch Patch
	if err := httpx.DecodeJSON(r.Body, &patch); err != nil {
		log.Warn("admin projects update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(patch); err != nil {
		log.Warn("admin projects update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, middleware.GateTokenFromContext(r.Context()), id, patch)
	if err != nil {
		h.writeMutationError(w, log, "admin projects update", err)
		return
	}

	log.Info("admin projects update: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, middleware.GateTokenFromContext(r.Context()), id); err != nil {
		h.writeMutationError(w, log, "admin projects delete", err)
		return
	}

	log.Info("admin projects delete: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) writeMutationError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn(op + ": invalid project")
		transport.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "invalid project",
			"errors": verr.Messages,
		})
	case errors.Is(err, ErrUnauthorized):
		log.Warn(op + ": no admin session")
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "project not found", nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
