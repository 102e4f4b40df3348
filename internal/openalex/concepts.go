package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/domain"
)

// Concept levels run from 0 (most general fields) to 5 (most specific).
const (
	MinConceptLevel = 0
	MaxConceptLevel = 5
)

// Concepts retrieves and normalizes research concepts from the OpenAlex API.
type Concepts struct {
	client *Client
	logger zerolog.Logger
}

// NewConcepts creates a concept retriever backed by the given client.
func NewConcepts(client *Client, logger zerolog.Logger) *Concepts {
	return &Concepts{
		client: client,
		logger: logger.With().Str("component", "concepts").Logger(),
	}
}

// Search finds concepts by name and returns up to maxResults normalized
// records. A non-positive maxResults falls back to the client's default page
// size. When level is non-nil the page of results is filtered to that level
// after retrieval, so fewer than maxResults records may come back even when
// more matches exist.
func (c *Concepts) Search(ctx context.Context, name string, maxResults int, level *int) ([]ConceptRecord, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if level != nil && (*level < MinConceptLevel || *level > MaxConceptLevel) {
		return nil, domain.NewValidationError("level",
			fmt.Sprintf("must be between %d and %d", MinConceptLevel, MaxConceptLevel))
	}
	if maxResults <= 0 {
		maxResults = c.client.DefaultPageSize()
	}

	perPage := c.client.ClampPerPage(maxResults)
	params := url.Values{}
	params.Set("search", name)
	params.Set("per-page", fmt.Sprintf("%d", perPage))

	body, err := c.client.Get(ctx, "/concepts", params)
	if err != nil {
		return nil, fmt.Errorf("searching concepts: %w", err)
	}

	var list ConceptList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed concepts response", err)
	}

	results := list.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	records := make([]ConceptRecord, 0, len(results))
	for i := range results {
		if level != nil && results[i].Level != *level {
			continue
		}
		records = append(records, normalizeConcept(&results[i]))
	}

	c.logger.Debug().
		Str("name", name).
		Int("returned", len(records)).
		Int("total", list.Meta.Count).
		Msg("concept search completed")
	return records, nil
}

// GetByID fetches a concept by OpenAlex identifier, either bare (e.g.
// "C41008148") or as a full OpenAlex URL. An unknown identifier returns
// (nil, nil).
func (c *Concepts) GetByID(ctx context.Context, id string) (*ConceptRecord, error) {
	short := ExtractID(id)
	if short == "" {
		return nil, domain.NewValidationError("openalex_id", "must not be empty")
	}

	params := url.Values{}
	params.Set("filter", NewFilterSet().Add("ids.openalex", short).Encode())
	params.Set("per-page", "1")

	body, err := c.client.Get(ctx, "/concepts", params)
	if err != nil {
		return nil, fmt.Errorf("fetching concept by ID: %w", err)
	}

	var list ConceptList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed concepts response", err)
	}
	if len(list.Results) == 0 {
		c.logger.Debug().Str("openalex_id", short).Msg("concept not found")
		return nil, nil
	}

	rec := normalizeConcept(&list.Results[0])
	return &rec, nil
}

// Hierarchy fetches a concept along with its ancestors and most related
// concepts. An unknown identifier returns (nil, nil).
func (c *Concepts) Hierarchy(ctx context.Context, id string) (*ConceptHierarchy, error) {
	rec, err := c.GetByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return &ConceptHierarchy{
		Concept:         *rec,
		Ancestors:       rec.Ancestors,
		RelatedConcepts: rec.RelatedConcepts,
	}, nil
}
