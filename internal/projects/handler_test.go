package projects

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-backend/internal/validation"
)

func mountHandler(t *testing.T, repo *fakeRepo) *chi.Mux {
	t.Helper()
	g, _ := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)
	h := NewHandler(svc, validation.New(), testLogger())

	r := chi.NewRouter()
	r.Get("/projects", h.List)
	r.Get("/projects/featured", h.Featured)
	r.Get("/projects/search", h.Search)
	r.Get("/projects/{id}", h.GetByID)
	r.Get("/categories", h.Categories)
	r.Post("/admin/projects", h.AdminCreate)
	return r
}

func TestHandlerListUnknownCategory(t *testing.T) {
	r := mountHandler(t, &fakeRepo{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects?category=Gardening", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerListByCategory(t *testing.T) {
	repo := &fakeRepo{items: sampleProjects()}
	r := mountHandler(t, repo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects?category=Mobile", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Items []Project `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "3" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
}

func TestHandlerSearchReturnsSideLists(t *testing.T) {
	repo := &fakeRepo{items: sampleProjects()}
	r := mountHandler(t, repo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/search?q=finance&technologies=React,Go", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Items        []Project `json:"items"`
		Total        int       `json:"total"`
		Categories   []string  `json:"categories"`
		Technologies []string  `json:"technologies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "2" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
	if body.Total != 3 {
		t.Fatalf("expected total 3, got %d", body.Total)
	}
	if len(body.Categories) != 3 || len(body.Technologies) != 7 {
		t.Fatalf("unexpected side lists: %v / %v", body.Categories, body.Technologies)
	}
}

func TestHandlerGetByIDNotFound(t *testing.T) {
	r := mountHandler(t, &fakeRepo{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerCategoriesTable(t *testing.T) {
	r := mountHandler(t, &fakeRepo{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Items []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
			Color string `json:"color"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(body.Items))
	}
	for _, item := range body.Items {
		if item.Label == "" || item.Color == "" {
			t.Fatalf("incomplete entry: %+v", item)
		}
	}
}

func TestHandlerAdminCreateWithoutSession(t *testing.T) {
	r := mountHandler(t, &fakeRepo{})
	payload := `{"title":"T","description":"D","longDescription":"L","image":"https://x.com/i.png","technologies":["Go"],"category":"BackEnd","repositoryUrl":"https://x.com/r"}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/projects", strings.NewReader(payload))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a gate token, got %d", rec.Code)
	}
}
