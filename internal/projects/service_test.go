package projects

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/gate"
)

type fakeRepo struct {
	items   []Project
	inserts []Project
	patches []bson.M
	deleted []string
	failAll bool
}

var errRepo = errors.New("repo down")

// sortDisplay applies the same ordering the Mongo sort document promises:
// ascending order, ties broken by created_at ascending.
func sortDisplay(items []Project) []Project {
	out := append([]Project(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]Project, error) {
	if r.failAll {
		return nil, errRepo
	}
	return sortDisplay(r.items), nil
}

func (r *fakeRepo) ListFeatured(ctx context.Context, limit int64) ([]Project, error) {
	out := make([]Project, 0)
	for _, p := range sortDisplay(r.items) {
		if p.Featured && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByCategory(ctx context.Context, category Category) ([]Project, error) {
	out := make([]Project, 0)
	for _, p := range sortDisplay(r.items) {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByTechnology(ctx context.Context, tech string) ([]Project, error) {
	out := make([]Project, 0)
	for _, p := range sortDisplay(r.items) {
		for _, t := range p.Technologies {
			if t == tech {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Project, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Insert(ctx context.Context, item Project) error {
	r.inserts = append(r.inserts, item)
	r.items = append(r.items, item)
	return nil
}

func (r *fakeRepo) Patch(ctx context.Context, id string, set bson.M) (Project, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			r.patches = append(r.patches, set)
			return r.items[i], nil
		}
	}
	return Project{}, mongo.ErrNoDocuments
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.deleted = append(r.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openGate(t *testing.T) (*gate.Gate, gate.Token) {
	t.Helper()
	g := gate.New("secret", gate.NewMemoryFlagStore(), testLogger())
	tok, ok := g.Login(context.Background(), "secret")
	if !ok {
		t.Fatalf("gate login failed")
	}
	return g, tok
}

func TestListAllDisplayOrder(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{items: []Project{
		{ID: "late", Order: 2, CreatedAt: t0},
		{ID: "tie-new", Order: 1, CreatedAt: t0.Add(time.Hour)},
		{ID: "tie-old", Order: 1, CreatedAt: t0},
	}}
	g, _ := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	items, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if got := ids(items); !reflect.DeepEqual(got, []string{"tie-old", "tie-new", "late"}) {
		t.Fatalf("unexpected display order: %v", got)
	}
}

func TestListFeaturedRespectsDisplayOrder(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{items: []Project{
		{ID: "b", Order: 5, Featured: true, CreatedAt: t0},
		{ID: "a", Order: 1, Featured: true, CreatedAt: t0},
		{ID: "skip", Order: 0, Featured: false, CreatedAt: t0},
	}}
	g, _ := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	items, err := svc.ListFeatured(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListFeatured error: %v", err)
	}
	if got := ids(items); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected featured order: %v", got)
	}
}

func TestListFeaturedDefaultLimit(t *testing.T) {
	repo := &fakeRepo{}
	for i := 0; i < 6; i++ {
		repo.items = append(repo.items, Project{ID: string(rune('a' + i)), Featured: true})
	}
	g, _ := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	items, err := svc.ListFeatured(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListFeatured error: %v", err)
	}
	if len(items) != DefaultFeaturedLimit {
		t.Fatalf("expected %d featured, got %d", DefaultFeaturedLimit, len(items))
	}
}

func TestListAllWrapsRepoError(t *testing.T) {
	g, _ := openGate(t)
	svc := NewService(&fakeRepo{failAll: true}, g, newFakeCache(), time.Minute)

	_, err := svc.ListAll(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, errRepo) {
		t.Fatalf("wrapped cause lost: %v", err)
	}
}

func TestListAllCachesResult(t *testing.T) {
	repo := &fakeRepo{items: []Project{{ID: "1", Title: "One"}}}
	g, _ := openGate(t)
	c := newFakeCache()
	svc := NewService(repo, g, c, time.Minute)

	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll error: %v", err)
	}

	// A repo failure is invisible while the cache holds the list.
	repo.failAll = true
	items, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Fatalf("unexpected cached items: %v", items)
	}
}

func TestGetByIDAbsentIsNilNil(t *testing.T) {
	g, _ := openGate(t)
	svc := NewService(&fakeRepo{}, g, newFakeCache(), time.Minute)

	item, err := svc.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil project, got %+v", item)
	}
}

func TestCreateRequiresGateToken(t *testing.T) {
	g, _ := openGate(t)
	svc := NewService(&fakeRepo{}, g, newFakeCache(), time.Minute)

	_, err := svc.Create(context.Background(), gate.Token{}, validDraft())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateRejectsRevokedToken(t *testing.T) {
	g, tok := openGate(t)
	svc := NewService(&fakeRepo{}, g, newFakeCache(), time.Minute)

	g.Logout(context.Background())
	_, err := svc.Create(context.Background(), tok, validDraft())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestCreateValidInsertsAndInvalidates(t *testing.T) {
	repo := &fakeRepo{}
	g, tok := openGate(t)
	c := newFakeCache()
	svc := NewService(repo, g, c, time.Minute)

	item, err := svc.Create(context.Background(), tok, validDraft())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.ID == "" {
		t.Fatalf("expected generated id")
	}
	if item.CreatedAt.IsZero() || !item.CreatedAt.Equal(item.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %v / %v", item.CreatedAt, item.UpdatedAt)
	}
	if item.Featured || item.Order != 0 {
		t.Fatalf("unexpected defaults: featured=%v order=%d", item.Featured, item.Order)
	}
	if len(repo.inserts) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserts))
	}
	if c.deletes != 1 {
		t.Fatalf("expected cache invalidation, got %d deletes", c.deletes)
	}
}

func TestCreateInvalidDraft(t *testing.T) {
	g, tok := openGate(t)
	svc := NewService(&fakeRepo{}, g, newFakeCache(), time.Minute)

	d := validDraft()
	d.Image = "not a url"
	_, err := svc.Create(context.Background(), tok, d)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 1 {
		t.Fatalf("unexpected messages: %v", verr.Messages)
	}
}

func TestUpdateNotFound(t *testing.T) {
	g, tok := openGate(t)
	svc := NewService(&fakeRepo{}, g, newFakeCache(), time.Minute)

	_, err := svc.Update(context.Background(), tok, "missing", Patch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePatchOnlySuppliedFields(t *testing.T) {
	repo := &fakeRepo{items: []Project{{ID: "1", Title: "One"}}}
	g, tok := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	title := "  Renamed  "
	if _, err := svc.Update(context.Background(), tok, "1", Patch{Title: &title}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	set := repo.patches[0]
	if len(set) != 2 {
		t.Fatalf("expected only title and updated_at, got %v", set)
	}
	if set["title"] != "Renamed" {
		t.Fatalf("title not trimmed: %q", set["title"])
	}
	if _, ok := set["updated_at"]; !ok {
		t.Fatalf("updated_at missing from patch")
	}
}

func TestUpdateRejectsEmptyRequiredField(t *testing.T) {
	repo := &fakeRepo{items: []Project{{ID: "1", Title: "One"}}}
	g, tok := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	blank := "   "
	_, err := svc.Update(context.Background(), tok, "1", Patch{Title: &blank})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.patches) != 0 {
		t.Fatalf("rejected patch reached the repo: %v", repo.patches)
	}
}

func TestUpdateRejectsInvalidSuppliedFields(t *testing.T) {
	repo := &fakeRepo{items: []Project{{ID: "1"}}}
	g, tok := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	badURL := "not a url"
	noTechs := []string{}
	badOrder := -1
	_, err := svc.Update(context.Background(), tok, "1", Patch{
		RepositoryURL: &badURL,
		Technologies:  &noTechs,
		Order:         &badOrder,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 3 {
		t.Fatalf("expected three violations, got %v", verr.Messages)
	}
}

func TestUpdateEmptyOptionalURLClears(t *testing.T) {
	repo := &fakeRepo{items: []Project{{ID: "1"}}}
	g, tok := openGate(t)
	svc := NewService(repo, g, newFakeCache(), time.Minute)

	empty := ""
	if _, err := svc.Update(context.Background(), tok, "1", Patch{LiveURL: &empty, DocumentationURL: &empty}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	set := repo.patches[0]
	if v, ok := set["live_url"]; !ok || v != nil {
		t.Fatalf("live_url should be an explicit null, got %v", v)
	}
	if v, ok := set["documentation_url"]; !ok || v != nil {
		t.Fatalf("documentation_url should be an explicit null, got %v", v)
	}
}

func TestDeleteNotFound(t *testing.T) {
	g, tok := openGate(t)
	svc := NewService(&fakeRepo{}, g, newFakeCache(), time.Minute)

	err := svc.Delete(context.Background(), tok, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesAndInvalidates(t *testing.T) {
	repo := &fakeRepo{items: []Project{{ID: "1"}}}
	g, tok := openGate(t)
	c := newFakeCache()
	svc := NewService(repo, g, c, time.Minute)

	if err := svc.Delete(context.Background(), tok, "1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "1" {
		t.Fatalf("unexpected deletions: %v", repo.deleted)
	}
	if c.deletes != 1 {
		t.Fatalf("expected cache invalidation, got %d deletes", c.deletes)
	}
}
