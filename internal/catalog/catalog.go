// Package catalog maintains the technology tag list offered by the project
// form and the gallery filters. Tags come from the static skill table and
// the work-history entries; all operations are pure.
package catalog

import (
	"sort"
	"strings"
)

// AllTags returns every distinct technology name from the skill and
// work-history tables, sorted alphabetically.
func AllTags() []string {
	seen := make(map[string]bool)
	var tags []string

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		tags = append(tags, name)
	}

	for _, s := range skills {
		add(s.Name)
	}
	for _, p := range positions {
		for _, t := range p.Technologies {
			add(t)
		}
	}

	sort.Strings(tags)
	return tags
}

// Search returns the candidates whose name contains the query,
// case-insensitively, preserving candidate order. A blank query matches
// everything. With no candidates given it searches the full catalog.
func Search(query string, candidates ...string) []string {
	if candidates == nil {
		candidates = AllTags()
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return candidates
	}

	var out []string
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			out = append(out, c)
		}
	}
	return out
}

// AddTag appends a trimmed tag to the list and re-sorts. Blank or duplicate
// tags leave the input unchanged. The input slice is never modified.
func AddTag(tag string, existing []string) []string {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return existing
	}
	for _, t := range existing {
		if t == trimmed {
			return existing
		}
	}

	out := make([]string, 0, len(existing)+1)
	out = append(out, existing...)
	out = append(out, trimmed)
	sort.Strings(out)
	return out
}
