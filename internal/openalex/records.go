package openalex

// Flat output records. Every record is a value constructed at the end of one
// retrieval call and discarded once returned to the caller; nothing is cached
// or mutated after construction.

// PublicationRecord is the flat, normalized form of an OpenAlex work.
type PublicationRecord struct {
	OpenAlexID           string           `json:"openalex_id"`
	Title                string           `json:"title"`
	DOI                  string           `json:"doi"`
	PublicationYear      int              `json:"publication_year,omitempty"`
	PublicationDate      string           `json:"publication_date,omitempty"`
	Type                 string           `json:"type"`
	CitedByCount         int              `json:"cited_by_count"`
	IsRetracted          bool             `json:"is_retracted"`
	IsParatext           bool             `json:"is_paratext"`
	Abstract             string           `json:"abstract"`
	Authors              []AuthorRef      `json:"authors"`
	Venue                Venue            `json:"venue"`
	Keywords             []string         `json:"keywords"`
	Concepts             []ConceptRef     `json:"concepts"`
	OpenAccess           OpenAccessRecord `json:"open_access"`
	ReferencedWorksCount int              `json:"referenced_works_count"`
	RelatedWorksCount    int              `json:"related_works_count"`

	// Error is set only on a degraded record whose normalization failed.
	Error string `json:"error,omitempty"`
}

// AuthorRef is an author entry nested inside a PublicationRecord.
type AuthorRef struct {
	DisplayName string       `json:"display_name"`
	ORCID       string       `json:"orcid,omitempty"`
	OpenAlexID  string       `json:"openalex_id"`
	Position    string       `json:"position"`
	Affiliation *Affiliation `json:"affiliation,omitempty"`
}

// Affiliation describes an institutional affiliation.
type Affiliation struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
	OpenAlexID  string `json:"openalex_id,omitempty"`
}

// Venue describes the publication venue. The structure is always present;
// when no venue can be resolved every field is null.
type Venue struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
	ISSN *string `json:"issn"`
	IsOA *bool   `json:"is_oa"`
}

// OpenAccessRecord carries a work's open access status.
type OpenAccessRecord struct {
	IsOA                     bool   `json:"is_oa"`
	OADate                   string `json:"oa_date,omitempty"`
	OAURL                    string `json:"oa_url,omitempty"`
	AnyRepositoryHasFulltext bool   `json:"any_repository_has_fulltext"`
	BestOAURL                string `json:"best_oa_url,omitempty"`
}

// ConceptRef is a scored concept reference nested inside publication and
// author records.
type ConceptRef struct {
	DisplayName string  `json:"display_name"`
	Level       int     `json:"level"`
	Score       float64 `json:"score"`
	OpenAlexID  string  `json:"openalex_id"`
}

// AuthorRecord is the flat, normalized form of an OpenAlex author.
type AuthorRecord struct {
	OpenAlexID                string        `json:"openalex_id"`
	DisplayName               string        `json:"display_name"`
	ORCID                     string        `json:"orcid,omitempty"`
	WorksCount                int           `json:"works_count"`
	CitedByCount              int           `json:"cited_by_count"`
	I10Index                  int           `json:"i10_index"`
	HIndex                    int           `json:"h_index"`
	Affiliation               *Affiliation  `json:"affiliation"`
	AlternativeNames          []string      `json:"alternative_names"`
	ResearchAreas             []ConceptRef  `json:"research_areas"`
	WorksByYear               map[int]int   `json:"works_by_year"`
	CitationsByYear           map[int]int   `json:"citations_by_year"`
	FirstPublicationYear      int           `json:"first_publication_year,omitempty"`
	MostRecentPublicationYear int           `json:"most_recent_publication_year,omitempty"`
	Metrics                   AuthorMetrics `json:"metrics"`

	// Error is set only on a degraded record whose normalization failed.
	Error string `json:"error,omitempty"`
}

// AuthorMetrics holds derived metrics for an author.
type AuthorMetrics struct {
	CitationsPerWork     float64 `json:"citations_per_work"`
	CareerSpan           int     `json:"career_span,omitempty"`
	PublicationsPerYear  float64 `json:"publications_per_year,omitempty"`
	RecentWorksCount     int     `json:"recent_works_count"`
	RecentCitationsCount int     `json:"recent_citations_count"`
}

// ConceptRecord is the flat, normalized form of an OpenAlex concept.
type ConceptRecord struct {
	OpenAlexID         string            `json:"openalex_id"`
	DisplayName        string            `json:"display_name"`
	Description        string            `json:"description,omitempty"`
	Level              int               `json:"level"`
	WorksCount         int               `json:"works_count"`
	CitedByCount       int               `json:"cited_by_count"`
	Wikidata           string            `json:"wikidata,omitempty"`
	Wikipedia          string            `json:"wikipedia,omitempty"`
	ImageURL           string            `json:"image_url,omitempty"`
	ImageThumbnailURL  string            `json:"image_thumbnail_url,omitempty"`
	Ancestors          []ConceptLink     `json:"ancestors"`
	RelatedConcepts    []ConceptRef      `json:"related_concepts"`
	WorksByYear        map[int]int       `json:"works_by_year"`
	CitationsByYear    map[int]int       `json:"citations_by_year"`
	Metrics            ConceptMetrics    `json:"metrics"`
	InternationalNames map[string]string `json:"international_names"`

	// Error is set only on a degraded record whose normalization failed.
	Error string `json:"error,omitempty"`
}

// ConceptLink is an unscored concept reference (used for ancestors).
type ConceptLink struct {
	OpenAlexID  string `json:"openalex_id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
}

// ConceptMetrics holds derived metrics for a concept. GrowthRate is present
// only when at least six yearly buckets are available.
type ConceptMetrics struct {
	CitationsPerWork     float64  `json:"citations_per_work"`
	RecentWorksCount     int      `json:"recent_works_count"`
	RecentCitationsCount int      `json:"recent_citations_count"`
	GrowthRate           *float64 `json:"growth_rate,omitempty"`
	BreadthScore         int      `json:"breadth_score"`
}

// ConceptHierarchy bundles a concept with its broader and related concepts.
type ConceptHierarchy struct {
	Concept         ConceptRecord `json:"concept"`
	Ancestors       []ConceptLink `json:"ancestors"`
	RelatedConcepts []ConceptRef  `json:"related_concepts"`
}
