package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarex/openalex-explorer/internal/domain"
)

const worksSearchResponse = `{
	"meta": {"count": 2, "page": 1, "per_page": 3},
	"results": [
		{
			"id": "https://openalex.org/W1",
			"doi": "https://doi.org/10.1038/test1",
			"title": "Transformers in Biology",
			"publication_year": 2022,
			"publication_date": "2022-03-01",
			"type": "article",
			"cited_by_count": 41,
			"authorships": [
				{
					"author_position": "first",
					"author": {"id": "https://openalex.org/A1", "display_name": "Ada Lovelace"},
					"institutions": [{"id": "https://openalex.org/I1", "display_name": "MIT", "country_code": "US"}]
				}
			],
			"primary_location": {"source": {"display_name": "Nature", "type": "journal", "issn_l": "0028-0836"}},
			"concepts": [{"id": "https://openalex.org/C1", "display_name": "Biology", "level": 0, "score": 0.9}],
			"open_access": {"is_oa": true, "oa_url": "https://example.org/1.pdf"},
			"abstract_inverted_index": {"Attention": [0], "helps": [1]}
		},
		{
			"id": "https://openalex.org/W2",
			"title": "A Second Paper",
			"publication_year": 2021,
			"type": "article",
			"cited_by_count": 3
		}
	]
}`

func newPublications(t *testing.T, server *httptest.Server) *Publications {
	t.Helper()
	return NewPublications(newTestClient(t, server, Config{}), zerolog.Nop())
}

func TestPublicationsSearch(t *testing.T) {
	t.Run("returns normalized records in API order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works", r.URL.Path)
			assert.Equal(t, "transformers", r.URL.Query().Get("search"))
			assert.Equal(t, "3", r.URL.Query().Get("per-page"))
			w.Write([]byte(worksSearchResponse))
		}))
		defer server.Close()

		records, err := newPublications(t, server).Search(context.Background(), "transformers", 3, YearRange{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "W1", records[0].OpenAlexID)
		assert.Equal(t, "Transformers in Biology", records[0].Title)
		assert.Equal(t, "10.1038/test1", records[0].DOI)
		assert.Equal(t, "Attention helps", records[0].Abstract)
		require.NotNil(t, records[0].Venue.Name)
		assert.Equal(t, "Nature", *records[0].Venue.Name)
		assert.Equal(t, []string{"Biology"}, records[0].Keywords)

		assert.Equal(t, "W2", records[1].OpenAlexID)
		assert.Empty(t, records[1].Abstract)
		assert.Nil(t, records[1].Venue.Name)
	})

	t.Run("year range becomes a filter parameter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "publication_year:2020-2024", r.URL.Query().Get("filter"))
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		_, err := newPublications(t, server).Search(context.Background(), "x", 3,
			YearRange{Start: intPtr(2020), End: intPtr(2024)})
		require.NoError(t, err)
	})

	t.Run("max results beyond the ceiling clamps the page size", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "50", r.URL.Query().Get("per-page"))
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		records, err := newPublications(t, server).Search(context.Background(), "x", 100, YearRange{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("omitted max results falls back to the default page size", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "25", r.URL.Query().Get("per-page"))
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		records, err := newPublications(t, server).Search(context.Background(), "x", 0, YearRange{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		records, err := newPublications(t, server).Search(context.Background(), "no such thing", 3, YearRange{})
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		_, err := newPublications(t, httptest.NewUnstartedServer(nil)).
			Search(context.Background(), "", 3, YearRange{})
		require.Error(t, err)
		assert.True(t, domain.IsInvalidInput(err))
	})

	t.Run("invalid year range is rejected before any request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		defer server.Close()

		_, err := newPublications(t, server).Search(context.Background(), "x", 3,
			YearRange{Start: intPtr(2024), End: intPtr(2020)})
		require.Error(t, err)
		assert.True(t, domain.IsInvalidInput(err))
	})
}

func TestPublicationsGetByDOI(t *testing.T) {
	t.Run("cleans the DOI and requests the doi.org form", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works/https://doi.org/10.1038/test1", r.URL.Path)
			w.Write([]byte(`{"id":"https://openalex.org/W1","title":"Found"}`))
		}))
		defer server.Close()

		rec, err := newPublications(t, server).GetByDOI(context.Background(), "https://doi.org/10.1038/test1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "W1", rec.OpenAlexID)
		assert.Equal(t, "Found", rec.Title)
	})

	t.Run("unknown DOI returns nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		rec, err := newPublications(t, server).GetByDOI(context.Background(), "10.0000/nope")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("empty DOI is rejected", func(t *testing.T) {
		_, err := newPublications(t, httptest.NewUnstartedServer(nil)).
			GetByDOI(context.Background(), "doi:")
		require.Error(t, err)
		assert.True(t, domain.IsInvalidInput(err))
	})

	t.Run("upstream failure surfaces as error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		rec, err := newPublications(t, server).GetByDOI(context.Background(), "10.1/x")
		require.Error(t, err)
		assert.Nil(t, rec)
	})
}

func TestPublicationsGetByID(t *testing.T) {
	t.Run("accepts a full OpenAlex URL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works/W2741809807", r.URL.Path)
			w.Write([]byte(`{"id":"https://openalex.org/W2741809807","title":"By ID"}`))
		}))
		defer server.Close()

		rec, err := newPublications(t, server).GetByID(context.Background(), "https://openalex.org/W2741809807")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "By ID", rec.Title)
	})

	t.Run("unknown ID returns nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		rec, err := newPublications(t, server).GetByID(context.Background(), "W0")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}
