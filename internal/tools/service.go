package tools

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/domain"
	"github.com/scholarex/openalex-explorer/internal/observability"
	"github.com/scholarex/openalex-explorer/internal/openalex"
)

// SearchPapersArgs are the arguments of the search_openalex_papers tool.
type SearchPapersArgs struct {
	SearchQuery string `json:"search_query" validate:"required"`
	MaxResults  int    `json:"max_results,omitempty"`
	StartYear   *int   `json:"start_year,omitempty" validate:"omitempty,min=1900,max=2030"`
	EndYear     *int   `json:"end_year,omitempty" validate:"omitempty,min=1900,max=2030"`
}

// SearchPapersResult is the structured result of search_openalex_papers.
type SearchPapersResult struct {
	Results []openalex.PublicationRecord `json:"results"`
	Count   int                          `json:"count"`
}

// GetByDOIArgs are the arguments of the get_publication_by_doi tool.
type GetByDOIArgs struct {
	DOI string `json:"doi" validate:"required"`
}

// GetByDOIResult is the structured result of get_publication_by_doi.
// Publication is null when no work matches the DOI.
type GetByDOIResult struct {
	Publication *openalex.PublicationRecord `json:"publication"`
	Found       bool                        `json:"found"`
}

// SearchAuthorsArgs are the arguments of the search_openalex_authors tool.
type SearchAuthorsArgs struct {
	Name       string `json:"author_name" validate:"required"`
	MaxResults int    `json:"max_results,omitempty"`
}

// SearchAuthorsResult is the structured result of search_openalex_authors.
type SearchAuthorsResult struct {
	Results []openalex.AuthorRecord `json:"results"`
	Count   int                     `json:"count"`
}

// SearchConceptsArgs are the arguments of the search_openalex_concepts tool.
type SearchConceptsArgs struct {
	Name       string `json:"concept_name" validate:"required"`
	MaxResults int    `json:"max_results,omitempty"`
	Level      *int   `json:"level,omitempty" validate:"omitempty,min=0,max=5"`
}

// SearchConceptsResult is the structured result of search_openalex_concepts.
type SearchConceptsResult struct {
	Results []openalex.ConceptRecord `json:"results"`
	Count   int                      `json:"count"`
}

// Service dispatches tool calls to the retrieval layer. Invalid arguments
// fail the call; upstream failures are logged and degrade to an empty
// result so one flaky request never breaks a client conversation.
type Service struct {
	publications *openalex.Publications
	authors      *openalex.Authors
	concepts     *openalex.Concepts
	logger       zerolog.Logger
	metrics      *observability.Metrics
	validate     *validator.Validate
}

// NewService creates a tool service. It fails when the tool registry is
// inconsistent.
func NewService(
	publications *openalex.Publications,
	authors *openalex.Authors,
	concepts *openalex.Concepts,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) (*Service, error) {
	if err := ValidateRegistry(); err != nil {
		return nil, err
	}
	return &Service{
		publications: publications,
		authors:      authors,
		concepts:     concepts,
		logger:       logger.With().Str("component", "tools").Logger(),
		metrics:      metrics,
		validate:     validator.New(),
	}, nil
}

// SearchPapers implements the search_openalex_papers tool.
func (s *Service) SearchPapers(ctx context.Context, args SearchPapersArgs) (SearchPapersResult, error) {
	spec, _ := Lookup(ToolSearchPapers)
	logger, done := s.begin(ToolSearchPapers)

	if err := s.validate.Struct(args); err != nil {
		done(0, err)
		return SearchPapersResult{}, domain.NewValidationError("arguments", err.Error())
	}

	maxResults := spec.boundResults(args.MaxResults)
	years := openalex.YearRange{Start: args.StartYear, End: args.EndYear}
	if err := years.Validate(); err != nil {
		done(0, err)
		return SearchPapersResult{}, err
	}

	logger = observability.WithQueryContext(logger, args.SearchQuery, maxResults)
	records, err := s.publications.Search(ctx, args.SearchQuery, maxResults, years)
	if err != nil {
		logger.Error().Err(err).Msg("paper search failed")
		done(0, err)
		return SearchPapersResult{Results: []openalex.PublicationRecord{}}, nil
	}

	done(len(records), nil)
	return SearchPapersResult{Results: records, Count: len(records)}, nil
}

// GetByDOI implements the get_publication_by_doi tool.
func (s *Service) GetByDOI(ctx context.Context, args GetByDOIArgs) (GetByDOIResult, error) {
	logger, done := s.begin(ToolGetByDOI)

	if err := s.validate.Struct(args); err != nil {
		done(0, err)
		return GetByDOIResult{}, domain.NewValidationError("arguments", err.Error())
	}

	logger = observability.WithEntityContext(logger, "publication", args.DOI)
	rec, err := s.publications.GetByDOI(ctx, args.DOI)
	if err != nil {
		if domain.IsInvalidInput(err) {
			done(0, err)
			return GetByDOIResult{}, err
		}
		logger.Error().Err(err).Msg("publication lookup failed")
		done(0, err)
		return GetByDOIResult{}, nil
	}

	found := 0
	if rec != nil {
		found = 1
	}
	done(found, nil)
	return GetByDOIResult{Publication: rec, Found: rec != nil}, nil
}

// SearchAuthors implements the search_openalex_authors tool.
func (s *Service) SearchAuthors(ctx context.Context, args SearchAuthorsArgs) (SearchAuthorsResult, error) {
	spec, _ := Lookup(ToolSearchAuthors)
	logger, done := s.begin(ToolSearchAuthors)

	if err := s.validate.Struct(args); err != nil {
		done(0, err)
		return SearchAuthorsResult{}, domain.NewValidationError("arguments", err.Error())
	}

	maxResults := spec.boundResults(args.MaxResults)
	logger = observability.WithQueryContext(logger, args.Name, maxResults)
	records, err := s.authors.Search(ctx, args.Name, maxResults)
	if err != nil {
		logger.Error().Err(err).Msg("author search failed")
		done(0, err)
		return SearchAuthorsResult{Results: []openalex.AuthorRecord{}}, nil
	}

	done(len(records), nil)
	return SearchAuthorsResult{Results: records, Count: len(records)}, nil
}

// SearchConcepts implements the search_openalex_concepts tool.
func (s *Service) SearchConcepts(ctx context.Context, args SearchConceptsArgs) (SearchConceptsResult, error) {
	spec, _ := Lookup(ToolSearchConcepts)
	logger, done := s.begin(ToolSearchConcepts)

	if err := s.validate.Struct(args); err != nil {
		done(0, err)
		return SearchConceptsResult{}, domain.NewValidationError("arguments", err.Error())
	}

	maxResults := spec.boundResults(args.MaxResults)
	logger = observability.WithQueryContext(logger, args.Name, maxResults)
	records, err := s.concepts.Search(ctx, args.Name, maxResults, args.Level)
	if err != nil {
		logger.Error().Err(err).Msg("concept search failed")
		done(0, err)
		return SearchConceptsResult{Results: []openalex.ConceptRecord{}}, nil
	}

	done(len(records), nil)
	return SearchConceptsResult{Results: records, Count: len(records)}, nil
}

// begin opens one tool invocation: it assigns a request ID, logs the start,
// and returns a completion callback that records duration, outcome, and the
// number of results delivered.
func (s *Service) begin(tool string) (zerolog.Logger, func(int, error)) {
	requestID := uuid.NewString()
	logger := observability.WithToolContext(s.logger, tool, requestID)
	logger.Debug().Msg("tool call started")

	if s.metrics != nil {
		s.metrics.RecordToolCallStarted(tool)
	}
	start := time.Now()

	return logger, func(results int, err error) {
		elapsed := time.Since(start)
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordToolCallFailed(tool, elapsed.Seconds())
			}
			logger.Debug().Dur("elapsed", elapsed).Msg("tool call failed")
			return
		}
		if s.metrics != nil {
			s.metrics.RecordToolCallCompleted(tool, results, elapsed.Seconds())
		}
		logger.Debug().Dur("elapsed", elapsed).Int("results", results).Msg("tool call completed")
	}
}
