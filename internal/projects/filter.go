package projects

import (
	"sort"
	"strings"
)

// Filter is the tri-part gallery filter. Category holds a concrete category
// or CategoryAll; an empty Technologies set means no technology filter; the
// query is matched case-insensitively as a substring.
type Filter struct {
	Category     string
	Technologies []string
	Query        string
}

// ApplyFilter narrows projects through the three conjunctive stages in a
// fixed order: category, technology (OR across selected tags), free text.
// It is pure and preserves the input order.
func ApplyFilter(items []Project, f Filter) []Project {
	out := make([]Project, 0, len(items))
	out = append(out, items...)

	if f.Category != "" && f.Category != CategoryAll {
		kept := out[:0]
		for _, p := range out {
			if string(p.Category) == f.Category {
				kept = append(kept, p)
			}
		}
		out = kept
	}

	if len(f.Technologies) > 0 {
		selected := make(map[string]bool, len(f.Technologies))
		for _, t := range f.Technologies {
			selected[t] = true
		}
		kept := out[:0]
		for _, p := range out {
			for _, t := range p.Technologies {
				if selected[t] {
					kept = append(kept, p)
					break
				}
			}
		}
		out = kept
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		kept := out[:0]
		for _, p := range out {
			if matchesQuery(p, q) {
				kept = append(kept, p)
			}
		}
		out = kept
	}

	return out
}

func matchesQuery(p Project, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.Technologies {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// DistinctCategories returns the categories present across items, first
// occurrence order.
func DistinctCategories(items []Project) []Category {
	seen := make(map[Category]bool)
	out := make([]Category, 0)
	for _, p := range items {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// DistinctTechnologies returns the union of all technology tags,
// case-sensitive dedupe, sorted lexicographically.
func DistinctTechnologies(items []Project) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range items {
		for _, t := range p.Technologies {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

// SearchTechnologies filters candidates by a case-insensitive substring
// match, keeping the input order. A blank query returns all candidates.
func SearchTechnologies(query string, candidates []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return candidates
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			out = append(out, c)
		}
	}
	return out
}
