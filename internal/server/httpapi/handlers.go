package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/domain"
	"github.com/scholarex/openalex-explorer/internal/tools"
)

type handlers struct {
	service *tools.Service
	logger  zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxResults  int    `json:"max_results,omitempty"`
	Default     int    `json:"default_results,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listTools publishes the tool registry so web clients can discover the
// callable surface.
func (h *handlers) listTools(w http.ResponseWriter, r *http.Request) {
	specs := tools.Registry()
	infos := make([]toolInfo, 0, len(specs))
	for _, s := range specs {
		infos = append(infos, toolInfo{
			Name:        s.Name,
			Description: s.Description,
			MaxResults:  s.MaxResults,
			Default:     s.DefaultResults,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": infos})
}

func (h *handlers) searchPapers(w http.ResponseWriter, r *http.Request) {
	args := tools.SearchPapersArgs{SearchQuery: r.URL.Query().Get("query")}

	var err error
	if args.MaxResults, err = intParam(r, "max_results"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if args.StartYear, err = optionalIntParam(r, "start_year"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if args.EndYear, err = optionalIntParam(r, "end_year"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.service.SearchPapers(r.Context(), args)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getPaperByDOI(w http.ResponseWriter, r *http.Request) {
	doi := chi.URLParam(r, "*")

	out, err := h.service.GetByDOI(r.Context(), tools.GetByDOIArgs{DOI: doi})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !out.Found {
		writeError(w, http.StatusNotFound, domain.NewNotFoundError("publication", doi))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) searchAuthors(w http.ResponseWriter, r *http.Request) {
	args := tools.SearchAuthorsArgs{Name: r.URL.Query().Get("name")}

	var err error
	if args.MaxResults, err = intParam(r, "max_results"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.service.SearchAuthors(r.Context(), args)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) searchConcepts(w http.ResponseWriter, r *http.Request) {
	args := tools.SearchConceptsArgs{Name: r.URL.Query().Get("name")}

	var err error
	if args.MaxResults, err = intParam(r, "max_results"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if args.Level, err = optionalIntParam(r, "level"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.service.SearchConcepts(r.Context(), args)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// intParam parses an optional integer query parameter, zero when absent.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// optionalIntParam parses an optional integer query parameter, nil when
// absent.
func optionalIntParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer")
	}
	return &n, nil
}

func statusFor(err error) int {
	switch {
	case domain.IsInvalidInput(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
