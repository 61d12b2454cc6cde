package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/storage"
	"portfolio-backend/internal/transport"
)

const maxUploadBytes = 32 << 20

// Store is the slice of the storage client the handler uses.
type Store interface {
	UploadSingle(ctx context.Context, path, contentType string, body io.Reader) (string, error)
	UploadBatch(ctx context.Context, files []storage.File) []storage.UploadResult
	Remove(ctx context.Context, paths []string) error
}

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Single accepts one multipart file under "file". An optional "path" field
// names the object; otherwise one is generated under projects/.
func (h *Handler) Single(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Warn("upload single: invalid multipart body")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer file.Close()

	objectPath, ok := cleanObjectPath(r.FormValue("path"))
	if !ok {
		transport.WriteError(w, http.StatusBadRequest, "invalid path", nil)
		return
	}
	if objectPath == "" {
		objectPath = fmt.Sprintf("projects/%s/%s", uuid.NewString(), path.Base(header.Filename))
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	url, err := h.store.UploadSingle(ctx, objectPath, fileContentType(header), file)
	if err != nil {
		log.Error("upload single: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "storage error", nil)
		return
	}

	log.Info("upload single: ok", slog.String("path", objectPath))
	transport.WriteJSON(w, http.StatusCreated, map[string]string{
		"path": objectPath,
		"url":  url,
	})
}

type batchItem struct {
	Path  string `json:"path"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Batch accepts multiple files under "files" and stores them as
// screenshot-N.<ext> below a base path ("base" field, generated when
// absent). Files succeed or fail independently.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Warn("upload batch: invalid multipart body")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		transport.WriteError(w, http.StatusBadRequest, "missing files", nil)
		return
	}

	base, ok := cleanObjectPath(r.FormValue("base"))
	if !ok {
		transport.WriteError(w, http.StatusBadRequest, "invalid path", nil)
		return
	}
	if base == "" {
		base = "projects/" + uuid.NewString()
	}

	files := make([]storage.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	for i, header := range headers {
		f, err := header.Open()
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			transport.WriteError(w, http.StatusBadRequest, "unreadable file", nil)
			return
		}
		opened = append(opened, f)
		files = append(files, storage.File{
			Path:        fmt.Sprintf("%s/screenshot-%d%s", base, i+1, path.Ext(header.Filename)),
			ContentType: fileContentType(header),
			Body:        f,
		})
	}
	defer func() {
		for _, o := range opened {
			o.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	results := h.store.UploadBatch(ctx, files)

	items := make([]batchItem, 0, len(results))
	failed := 0
	for _, res := range results {
		item := batchItem{Path: res.Path, URL: res.URL}
		if res.Err != nil {
			item.URL = ""
			item.Error = "upload failed"
			failed++
		}
		items = append(items, item)
	}

	status := http.StatusCreated
	if failed > 0 {
		status = http.StatusMultiStatus
	}

	log.Info("upload batch: done",
		slog.String("base", base),
		slog.Int("total", len(items)),
		slog.Int("failed", failed),
	)
	transport.WriteJSON(w, status, map[string]interface{}{
		"items": items,
	})
}

type deleteRequest struct {
	Paths []string `json:"paths"`
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req deleteRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if len(req.Paths) == 0 {
		transport.WriteError(w, http.StatusBadRequest, "missing paths", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.store.Remove(ctx, req.Paths); err != nil {
		log.Error("upload delete: storage error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "storage error", nil)
		return
	}

	log.Info("upload delete: ok", slog.Int("count", len(req.Paths)))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// cleanObjectPath normalizes a caller-supplied object path and rejects
// anything that escapes the bucket namespace. An empty value is fine; the
// handlers generate a path in that case.
func cleanObjectPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	if strings.HasPrefix(raw, "/") || strings.Contains(raw, "\\") {
		return "", false
	}
	cleaned := path.Clean(raw)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}

func fileContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
