// Package tools exposes the OpenAlex retrieval operations as callable tools
// with a single, statically declared registry. Tool metadata lives in the
// registry, not in handler documentation, and is validated once at startup.
package tools

import (
	"fmt"
)

// Tool names as published to clients.
const (
	ToolSearchPapers   = "search_openalex_papers"
	ToolGetByDOI       = "get_publication_by_doi"
	ToolSearchAuthors  = "search_openalex_authors"
	ToolSearchConcepts = "search_openalex_concepts"
)

// Spec declares one tool: its published name, description, and the bounds
// applied to its max_results argument. Tools without a max_results argument
// leave the bounds zero.
type Spec struct {
	Name        string
	Description string

	MinResults     int
	MaxResults     int
	DefaultResults int
}

// registry is the full set of published tools. Order is the order tools are
// registered and listed in.
var registry = []Spec{
	{
		Name: ToolSearchPapers,
		Description: "Search OpenAlex for academic papers by keyword or phrase. " +
			"Returns structured publication data including title, authors, abstract, " +
			"venue, concepts and open access status. Supports an optional " +
			"publication-year range.",
		MinResults:     1,
		MaxResults:     20,
		DefaultResults: 3,
	},
	{
		Name: ToolGetByDOI,
		Description: "Fetch a single publication by its DOI. Accepts a bare DOI, " +
			"a doi.org URL, or a doi: prefixed identifier. Returns null when no " +
			"publication matches.",
	},
	{
		Name: ToolSearchAuthors,
		Description: "Search OpenAlex for author profiles by name. Returns " +
			"structured author data including affiliation, citation metrics, " +
			"h-index and publication activity by year.",
		MinResults:     1,
		MaxResults:     20,
		DefaultResults: 5,
	},
	{
		Name: ToolSearchConcepts,
		Description: "Search OpenAlex for research concepts (fields of study) by " +
			"name, optionally restricted to a hierarchy level from 0 (most general) " +
			"to 5 (most specific). Returns concept metadata, activity metrics and " +
			"related concepts.",
		MinResults:     1,
		MaxResults:     20,
		DefaultResults: 5,
	},
}

// Registry returns the published tool specs in registration order.
func Registry() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the spec for a tool name.
func Lookup(name string) (Spec, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// ValidateRegistry checks the registry for internal consistency. It runs at
// startup so a bad declaration fails the process instead of surfacing as a
// malformed tool at call time.
func ValidateRegistry() error {
	seen := make(map[string]struct{}, len(registry))
	for _, s := range registry {
		if s.Name == "" {
			return fmt.Errorf("tool with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate tool name %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.Description == "" {
			return fmt.Errorf("tool %q has no description", s.Name)
		}
		if s.MaxResults != 0 {
			if s.MinResults < 1 || s.MinResults > s.MaxResults {
				return fmt.Errorf("tool %q has invalid result bounds [%d, %d]",
					s.Name, s.MinResults, s.MaxResults)
			}
			if s.DefaultResults < s.MinResults || s.DefaultResults > s.MaxResults {
				return fmt.Errorf("tool %q default %d outside bounds [%d, %d]",
					s.Name, s.DefaultResults, s.MinResults, s.MaxResults)
			}
		}
	}
	return nil
}

// boundResults applies a spec's bounds to a requested result count: zero
// takes the default, anything outside the bounds is clamped to them.
func (s Spec) boundResults(n int) int {
	if n == 0 {
		return s.DefaultResults
	}
	if n < s.MinResults {
		return s.MinResults
	}
	if n > s.MaxResults {
		return s.MaxResults
	}
	return n
}
