package projects

import "time"

// Project is the persisted portfolio entry. The bson tags are the wire
// column names of the persistence collaborator and must not change.
type Project struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Title            string    `bson:"title" json:"title"`
	Description      string    `bson:"description" json:"description"`
	LongDescription  string    `bson:"long_description" json:"longDescription"`
	Image            string    `bson:"image" json:"image"`
	Images           []string  `bson:"images,omitempty" json:"images"`
	Technologies     []string  `bson:"technologies" json:"technologies"`
	Category         Category  `bson:"category" json:"category"`
	DocumentationURL string    `bson:"documentation_url,omitempty" json:"documentationUrl,omitempty"`
	RepositoryURL    string    `bson:"repository_url" json:"repositoryUrl"`
	LiveURL          string    `bson:"live_url,omitempty" json:"liveUrl,omitempty"`
	Featured         bool      `bson:"featured" json:"featured"`
	Order            int       `bson:"order" json:"order"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// Draft is a project payload without id and timestamps, used for creation.
type Draft struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	LongDescription  string   `json:"longDescription" validate:"required"`
	Image            string   `json:"image" validate:"required,absurl"`
	Images           []string `json:"images" validate:"omitempty,dive,absurl"`
	Technologies     []string `json:"technologies" validate:"required,min=1"`
	Category         Category `json:"category" validate:"required,category"`
	DocumentationURL string   `json:"documentationUrl" validate:"omitempty,absurl"`
	RepositoryURL    string   `json:"repositoryUrl" validate:"required,absurl"`
	LiveURL          string   `json:"liveUrl" validate:"omitempty,absurl"`
	Featured         *bool    `json:"featured"`
	Order            *int     `json:"order" validate:"omitempty,gte=0"`
}

// Patch is a partial update; only non-nil fields are written. Optional URL
// fields set to the empty string are cleared explicitly rather than left
// untouched.
type Patch struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	LongDescription  *string   `json:"longDescription"`
	Image            *string   `json:"image" validate:"omitempty,absurl"`
	Images           *[]string `json:"images"`
	Technologies     *[]string `json:"technologies" validate:"omitempty,min=1"`
	Category         *Category `json:"category" validate:"omitempty,category"`
	DocumentationURL *string   `json:"documentationUrl"`
	RepositoryURL    *string   `json:"repositoryUrl" validate:"omitempty,absurl"`
	LiveURL          *string   `json:"liveUrl"`
	Featured         *bool     `json:"featured"`
	Order            *int      `json:"order" validate:"omitempty,gte=0"`
}
