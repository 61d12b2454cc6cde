package projects

import (
	"net/url"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidURL reports whether s parses as an absolute URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateProject checks every rule independently and reports all
// violations together; it never short-circuits.
func ValidateProject(d Draft) ValidationResult {
	errs := make([]string, 0)

	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "title is required")
	}

	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, "description is required")
	}

	if strings.TrimSpace(d.LongDescription) == "" {
		errs = append(errs, "long description is required")
	}

	if d.Image == "" || !IsValidURL(d.Image) {
		errs = append(errs, "image must be a valid URL")
	}

	if len(d.Technologies) == 0 {
		errs = append(errs, "at least one technology is required")
	}

	if d.Category == "" {
		errs = append(errs, "category is required")
	} else if !d.Category.Valid() {
		errs = append(errs, "category is not a known category")
	}

	if d.RepositoryURL == "" || !IsValidURL(d.RepositoryURL) {
		errs = append(errs, "repository URL must be a valid URL")
	}

	if d.LiveURL != "" && !IsValidURL(d.LiveURL) {
		errs = append(errs, "live URL must be a valid URL")
	}

	if d.DocumentationURL != "" && !IsValidURL(d.DocumentationURL) {
		errs = append(errs, "documentation URL must be a valid URL")
	}

	if d.Order != nil && *d.Order < 0 {
		errs = append(errs, "order must be zero or positive")
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// ValidatePatch checks only the fields a partial update supplies. A supplied
// required field must still satisfy the same rules a full draft would;
// optional URL fields may be emptied to clear them.
func ValidatePatch(p Patch) ValidationResult {
	errs := make([]string, 0)

	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, "title is required")
	}

	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		errs = append(errs, "description is required")
	}

	if p.LongDescription != nil && strings.TrimSpace(*p.LongDescription) == "" {
		errs = append(errs, "long description is required")
	}

	if p.Image != nil {
		if v := strings.TrimSpace(*p.Image); v == "" || !IsValidURL(v) {
			errs = append(errs, "image must be a valid URL")
		}
	}

	if p.Technologies != nil && len(*p.Technologies) == 0 {
		errs = append(errs, "at least one technology is required")
	}

	if p.Category != nil {
		if *p.Category == "" {
			errs = append(errs, "category is required")
		} else if !p.Category.Valid() {
			errs = append(errs, "category is not a known category")
		}
	}

	if p.RepositoryURL != nil {
		if v := strings.TrimSpace(*p.RepositoryURL); v == "" || !IsValidURL(v) {
			errs = append(errs, "repository URL must be a valid URL")
		}
	}

	if p.LiveURL != nil {
		if v := strings.TrimSpace(*p.LiveURL); v != "" && !IsValidURL(v) {
			errs = append(errs, "live URL must be a valid URL")
		}
	}

	if p.DocumentationURL != nil {
		if v := strings.TrimSpace(*p.DocumentationURL); v != "" && !IsValidURL(v) {
			errs = append(errs, "documentation URL must be a valid URL")
		}
	}

	if p.Order != nil && *p.Order < 0 {
		errs = append(errs, "order must be zero or positive")
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
