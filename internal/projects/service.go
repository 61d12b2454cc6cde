package projects

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/gate"
)

const listCacheKey = "projects:all"

// DefaultFeaturedLimit caps the highlight set when the caller does not ask
// for a specific size.
const DefaultFeaturedLimit = 4

type Service struct {
	repo     Repository
	gate     *gate.Gate
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, g *gate.Gate, c cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		gate:     g,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]Project, error) {
	if data, ok, err := s.cache.Get(ctx, listCacheKey); err == nil && ok {
		var items []Project
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, persistErr("list", err)
	}

	if data, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, listCacheKey, data, s.cacheTTL)
	}
	return items, nil
}

func (s *Service) ListFeatured(ctx context.Context, limit int64) ([]Project, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	items, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, persistErr("list featured", err)
	}
	return items, nil
}

func (s *Service) ListByCategory(ctx context.Context, category Category) ([]Project, error) {
	items, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, persistErr("list by category", err)
	}
	return items, nil
}

func (s *Service) ListByTechnology(ctx context.Context, tech string) ([]Project, error) {
	items, err := s.repo.ListByTechnology(ctx, strings.TrimSpace(tech))
	if err != nil {
		return nil, persistErr("list by technology", err)
	}
	return items, nil
}

// GetByID returns (nil, nil) when no project has that id.
func (s *Service) GetByID(ctx context.Context, id string) (*Project, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, persistErr("get", err)
	}
	return item, nil
}

// Create persists a new project. The token must be the capability issued by
// the admin session gate.
func (s *Service) Create(ctx context.Context, tok gate.Token, d Draft) (Project, error) {
	if !s.gate.Valid(tok) {
		return Project{}, ErrUnauthorized
	}

	d = trimDraft(d)
	if res := ValidateProject(d); !res.IsValid {
		return Project{}, &ValidationError{Messages: res.Errors}
	}

	now := time.Now().UTC()
	item := Project{
		ID:               primitive.NewObjectID().Hex(),
		Title:            d.Title,
		Description:      d.Description,
		LongDescription:  d.LongDescription,
		Image:            d.Image,
		Images:           d.Images,
		Technologies:     d.Technologies,
		Category:         d.Category,
		DocumentationURL: d.DocumentationURL,
		RepositoryURL:    d.RepositoryURL,
		LiveURL:          d.LiveURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if d.Featured != nil {
		item.Featured = *d.Featured
	}
	if d.Order != nil {
		item.Order = *d.Order
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return Project{}, persistErr("create", err)
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	return item, nil
}

// Update applies a partial patch; only supplied fields change and
// updated_at is always refreshed.
func (s *Service) Update(ctx context.Context, tok gate.Token, id string, p Patch) (Project, error) {
	if !s.gate.Valid(tok) {
		return Project{}, ErrUnauthorized
	}

	if res := ValidatePatch(p); !res.IsValid {
		return Project{}, &ValidationError{Messages: res.Errors}
	}

	set := buildPatch(p, time.Now().UTC())

	updated, err := s.repo.Patch(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Project{}, persistErr("update", ErrNotFound)
		}
		return Project{}, persistErr("update", err)
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, tok gate.Token, id string) error {
	if !s.gate.Valid(tok) {
		return ErrUnauthorized
	}

	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return persistErr("delete", err)
	}
	if !deleted {
		return persistErr("delete", ErrNotFound)
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	return nil
}

// buildPatch maps a Patch onto the collaborator's column names. Absent
// fields are omitted; optional URL fields supplied as empty strings become
// explicit nulls.
func buildPatch(p Patch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}

	if p.Title != nil {
		set["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		set["description"] = strings.TrimSpace(*p.Description)
	}
	if p.LongDescription != nil {
		set["long_description"] = strings.TrimSpace(*p.LongDescription)
	}
	if p.Image != nil {
		set["image"] = strings.TrimSpace(*p.Image)
	}
	if p.Images != nil {
		set["images"] = *p.Images
	}
	if p.Technologies != nil {
		set["technologies"] = *p.Technologies
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.DocumentationURL != nil {
		if v := strings.TrimSpace(*p.DocumentationURL); v != "" {
			set["documentation_url"] = v
		} else {
			set["documentation_url"] = nil
		}
	}
	if p.RepositoryURL != nil {
		set["repository_url"] = strings.TrimSpace(*p.RepositoryURL)
	}
	if p.LiveURL != nil {
		if v := strings.TrimSpace(*p.LiveURL); v != "" {
			set["live_url"] = v
		} else {
			set["live_url"] = nil
		}
	}
	if p.Featured != nil {
		set["featured"] = *p.Featured
	}
	if p.Order != nil {
		set["order"] = *p.Order
	}

	return set
}

func trimDraft(d Draft) Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.LongDescription = strings.TrimSpace(d.LongDescription)
	d.Image = strings.TrimSpace(d.Image)
	d.DocumentationURL = strings.TrimSpace(d.DocumentationURL)
	d.RepositoryURL = strings.TrimSpace(d.RepositoryURL)
	d.LiveURL = strings.TrimSpace(d.LiveURL)

	techs := make([]string, 0, len(d.Technologies))
	for _, t := range d.Technologies {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	d.Technologies = techs

	return d
}
