package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/domain"
)

// Publications retrieves and normalizes works from the OpenAlex API.
type Publications struct {
	client *Client
	logger zerolog.Logger
}

// NewPublications creates a publication retriever backed by the given client.
func NewPublications(client *Client, logger zerolog.Logger) *Publications {
	return &Publications{
		client: client,
		logger: logger.With().Str("component", "publications").Logger(),
	}
}

// Search finds works matching the full-text query, optionally restricted to
// a publication-year range, and returns up to maxResults normalized records
// in the API's relevance order. A non-positive maxResults falls back to the
// client's default page size. No matches yields an empty slice, not an
// error.
func (p *Publications) Search(ctx context.Context, query string, maxResults int, years YearRange) ([]PublicationRecord, error) {
	if query == "" {
		return nil, domain.NewValidationError("query", "must not be empty")
	}
	if err := years.Validate(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = p.client.DefaultPageSize()
	}

	perPage := p.client.ClampPerPage(maxResults)
	params := url.Values{}
	params.Set("search", query)
	params.Set("per-page", fmt.Sprintf("%d", perPage))

	filters := NewFilterSet().AddYearRange(years)
	if !filters.Empty() {
		params.Set("filter", filters.Encode())
	}

	body, err := p.client.Get(ctx, "/works", params)
	if err != nil {
		return nil, fmt.Errorf("searching works: %w", err)
	}

	var list WorkList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed works response", err)
	}

	results := list.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	records := make([]PublicationRecord, 0, len(results))
	for i := range results {
		records = append(records, normalizeWork(&results[i]))
	}

	p.logger.Debug().
		Str("query", query).
		Int("returned", len(records)).
		Int("total", list.Meta.Count).
		Msg("works search completed")
	return records, nil
}

// GetByDOI fetches a single work by DOI. The DOI may be given bare, as a
// doi.org URL, or with a "doi:" prefix. A work that does not exist returns
// (nil, nil) so callers can distinguish absence from failure.
func (p *Publications) GetByDOI(ctx context.Context, doi string) (*PublicationRecord, error) {
	cleaned := CleanDOI(doi)
	if cleaned == "" {
		return nil, domain.NewValidationError("doi", "must not be empty")
	}

	// OpenAlex accepts the full doi.org URL as a work identifier.
	body, err := p.client.Get(ctx, "/works/https://doi.org/"+cleaned, nil)
	if err != nil {
		if domain.IsNotFound(err) {
			p.logger.Debug().Str("doi", cleaned).Msg("work not found")
			return nil, nil
		}
		return nil, fmt.Errorf("fetching work by DOI: %w", err)
	}

	var work Work
	if err := json.Unmarshal(body, &work); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed work response", err)
	}

	rec := normalizeWork(&work)
	return &rec, nil
}

// GetByID fetches a single work by its OpenAlex identifier, either bare
// (e.g. "W2741809807") or as a full OpenAlex URL. A work that does not
// exist returns (nil, nil).
func (p *Publications) GetByID(ctx context.Context, id string) (*PublicationRecord, error) {
	short := ExtractID(id)
	if short == "" {
		return nil, domain.NewValidationError("openalex_id", "must not be empty")
	}

	body, err := p.client.Get(ctx, "/works/"+short, nil)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching work by ID: %w", err)
	}

	var work Work
	if err := json.Unmarshal(body, &work); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed work response", err)
	}

	rec := normalizeWork(&work)
	return &rec, nil
}
