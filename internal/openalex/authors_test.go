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

const authorsSearchResponse = `{
	"meta": {"count": 1, "page": 1, "per_page": 5},
	"results": [
		{
			"id": "https://openalex.org/A5023888391",
			"display_name": "Grace Hopper",
			"orcid": "https://orcid.org/0000-0001-2345-6789",
			"works_count": 42,
			"cited_by_count": 1250,
			"summary_stats": {"h_index": 18, "i10_index": 25},
			"last_known_institution": {"id": "https://openalex.org/I1", "display_name": "Yale", "country_code": "US", "type": "education"},
			"display_name_alternatives": ["G. Hopper"],
			"x_concepts": [{"id": "https://openalex.org/C1", "display_name": "Computer science", "level": 0, "score": 95.2}],
			"counts_by_year": [
				{"year": 2023, "works_count": 4, "cited_by_count": 200},
				{"year": 2022, "works_count": 5, "cited_by_count": 180}
			]
		}
	]
}`

func newAuthors(t *testing.T, server *httptest.Server) *Authors {
	t.Helper()
	return NewAuthors(newTestClient(t, server, Config{}), zerolog.Nop())
}

func TestAuthorsSearch(t *testing.T) {
	t.Run("returns normalized author profiles", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/authors", r.URL.Path)
			assert.Equal(t, "grace hopper", r.URL.Query().Get("search"))
			assert.Equal(t, "5", r.URL.Query().Get("per-page"))
			w.Write([]byte(authorsSearchResponse))
		}))
		defer server.Close()

		records, err := newAuthors(t, server).Search(context.Background(), "grace hopper", 5)
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "A5023888391", rec.OpenAlexID)
		assert.Equal(t, "Grace Hopper", rec.DisplayName)
		assert.Equal(t, 18, rec.HIndex)
		assert.Equal(t, []string{"G. Hopper"}, rec.AlternativeNames)
		require.Len(t, rec.ResearchAreas, 1)
		assert.Equal(t, "C1", rec.ResearchAreas[0].OpenAlexID)
		require.NotNil(t, rec.Affiliation)
		assert.Equal(t, "Yale", rec.Affiliation.DisplayName)
		assert.Equal(t, 29.76, rec.Metrics.CitationsPerWork)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := newAuthors(t, httptest.NewUnstartedServer(nil)).Search(context.Background(), "", 5)
		require.Error(t, err)
		assert.True(t, domain.IsInvalidInput(err))
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		records, err := newAuthors(t, server).Search(context.Background(), "nobody", 5)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestAuthorsGetByORCID(t *testing.T) {
	t.Run("filters by orcid with a single-result page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/authors", r.URL.Path)
			assert.Equal(t, "orcid:0000-0001-2345-6789", r.URL.Query().Get("filter"))
			assert.Equal(t, "1", r.URL.Query().Get("per-page"))
			w.Write([]byte(authorsSearchResponse))
		}))
		defer server.Close()

		rec, err := newAuthors(t, server).GetByORCID(context.Background(), "0000-0001-2345-6789")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Grace Hopper", rec.DisplayName)
	})

	t.Run("prefixed orcid forms are stripped before filtering", func(t *testing.T) {
		for _, input := range []string{
			"https://orcid.org/0000-0001-2345-6789",
			"orcid:0000-0001-2345-6789",
		} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "orcid:0000-0001-2345-6789", r.URL.Query().Get("filter"))
				w.Write([]byte(authorsSearchResponse))
			}))

			rec, err := newAuthors(t, server).GetByORCID(context.Background(), input)
			require.NoError(t, err)
			require.NotNil(t, rec)
			server.Close()
		}
	})

	t.Run("unknown orcid returns nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		rec, err := newAuthors(t, server).GetByORCID(context.Background(), "0000-0000-0000-0000")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("empty orcid is rejected", func(t *testing.T) {
		_, err := newAuthors(t, httptest.NewUnstartedServer(nil)).GetByORCID(context.Background(), "  ")
		require.Error(t, err)
		assert.True(t, domain.IsInvalidInput(err))
	})
}

func TestAuthorsGetByID(t *testing.T) {
	t.Run("filters by the short OpenAlex identifier", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ids.openalex:A5023888391", r.URL.Query().Get("filter"))
			w.Write([]byte(authorsSearchResponse))
		}))
		defer server.Close()

		rec, err := newAuthors(t, server).GetByID(context.Background(), "https://openalex.org/A5023888391")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "A5023888391", rec.OpenAlexID)
	})

	t.Run("unknown identifier returns nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		rec, err := newAuthors(t, server).GetByID(context.Background(), "A0")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}
