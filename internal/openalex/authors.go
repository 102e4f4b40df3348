package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/domain"
)

// Authors retrieves and normalizes author profiles from the OpenAlex API.
type Authors struct {
	client *Client
	logger zerolog.Logger
}

// NewAuthors creates an author retriever backed by the given client.
func NewAuthors(client *Client, logger zerolog.Logger) *Authors {
	return &Authors{
		client: client,
		logger: logger.With().Str("component", "authors").Logger(),
	}
}

// Search finds authors by name and returns up to maxResults normalized
// records in the API's relevance order. A non-positive maxResults falls back
// to the client's default page size. No matches yields an empty slice.
func (a *Authors) Search(ctx context.Context, name string, maxResults int) ([]AuthorRecord, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if maxResults <= 0 {
		maxResults = a.client.DefaultPageSize()
	}

	perPage := a.client.ClampPerPage(maxResults)
	params := url.Values{}
	params.Set("search", name)
	params.Set("per-page", fmt.Sprintf("%d", perPage))

	body, err := a.client.Get(ctx, "/authors", params)
	if err != nil {
		return nil, fmt.Errorf("searching authors: %w", err)
	}

	var list AuthorList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed authors response", err)
	}

	results := list.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	records := make([]AuthorRecord, 0, len(results))
	for i := range results {
		records = append(records, normalizeAuthor(&results[i]))
	}

	a.logger.Debug().
		Str("name", name).
		Int("returned", len(records)).
		Int("total", list.Meta.Count).
		Msg("author search completed")
	return records, nil
}

// GetByORCID fetches the author associated with an ORCID identifier. The
// identifier may be bare, a full orcid.org URL, or "orcid:"-prefixed. An
// unknown ORCID returns (nil, nil).
func (a *Authors) GetByORCID(ctx context.Context, orcid string) (*AuthorRecord, error) {
	orcid = CleanORCID(orcid)
	if orcid == "" {
		return nil, domain.NewValidationError("orcid", "must not be empty")
	}

	params := url.Values{}
	params.Set("filter", NewFilterSet().Add("orcid", orcid).Encode())
	params.Set("per-page", "1")

	return a.getOne(ctx, params, "orcid", orcid)
}

// GetByID fetches an author by OpenAlex identifier, either bare (e.g.
// "A5023888391") or as a full OpenAlex URL. An unknown identifier returns
// (nil, nil).
func (a *Authors) GetByID(ctx context.Context, id string) (*AuthorRecord, error) {
	short := ExtractID(id)
	if short == "" {
		return nil, domain.NewValidationError("openalex_id", "must not be empty")
	}

	params := url.Values{}
	params.Set("filter", NewFilterSet().Add("ids.openalex", short).Encode())
	params.Set("per-page", "1")

	return a.getOne(ctx, params, "openalex_id", short)
}

func (a *Authors) getOne(ctx context.Context, params url.Values, idKind, id string) (*AuthorRecord, error) {
	body, err := a.client.Get(ctx, "/authors", params)
	if err != nil {
		return nil, fmt.Errorf("fetching author by %s: %w", idKind, err)
	}

	var list AuthorList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.NewExternalAPIError(sourceName, 0, "malformed authors response", err)
	}
	if len(list.Results) == 0 {
		a.logger.Debug().Str(idKind, id).Msg("author not found")
		return nil, nil
	}

	rec := normalizeAuthor(&list.Results[0])
	return &rec, nil
}
