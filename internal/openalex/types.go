package openalex

// ListMeta contains metadata about a list response, including pagination info.
type ListMeta struct {
	Count   int `json:"count"`
	DBTime  int `json:"db_response_time_ms"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// WorkList is the top-level response from the works list endpoint.
type WorkList struct {
	Meta    ListMeta `json:"meta"`
	Results []Work   `json:"results"`
}

// AuthorList is the top-level response from the authors list endpoint.
type AuthorList struct {
	Meta    ListMeta `json:"meta"`
	Results []Author `json:"results"`
}

// ConceptList is the top-level response from the concepts list endpoint.
type ConceptList struct {
	Meta    ListMeta  `json:"meta"`
	Results []Concept `json:"results"`
}

// Work represents a raw OpenAlex work (publication). Only the fields the
// normalizer reads are mapped; everything else in the payload is ignored.
type Work struct {
	ID              string          `json:"id"`
	DOI             string          `json:"doi"`
	Title           string          `json:"title"`
	DisplayName     string          `json:"display_name"`
	PublicationYear int             `json:"publication_year"`
	PublicationDate string          `json:"publication_date"`
	Type            string          `json:"type"`
	CitedByCount    int             `json:"cited_by_count"`
	IsRetracted     bool            `json:"is_retracted"`
	IsParatext      bool            `json:"is_paratext"`
	Authorships     []Authorship    `json:"authorships"`
	PrimaryLocation *Location       `json:"primary_location"`
	BestOALocation  *Location       `json:"best_oa_location"`
	Concepts        []TaggedConcept `json:"concepts"`
	OpenAccess      *OpenAccessInfo `json:"open_access"`
	ReferencedWorks []string        `json:"referenced_works"`
	RelatedWorks    []string        `json:"related_works"`

	// The abstract is stored as an inverted index and reconstructed by
	// the normalizer.
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

// Authorship represents an author's contribution to a work.
type Authorship struct {
	AuthorPosition string        `json:"author_position"`
	Author         AuthorInfo    `json:"author"`
	Institutions   []Institution `json:"institutions"`
}

// AuthorInfo contains basic author information embedded in an authorship.
type AuthorInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Orcid       string `json:"orcid"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// Institution represents an academic institution.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
	Type        string `json:"type"`
}

// Location represents where a work is available.
type Location struct {
	Source         *Source `json:"source"`
	PDFURL         string  `json:"pdf_url"`
	LandingPageURL string  `json:"landing_page_url"`
	Version        string  `json:"version"`
}

// Source represents a publication venue (journal, repository, etc.).
type Source struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	ISSNL       string `json:"issn_l"`
	IsOA        *bool  `json:"is_oa"`
}

// OpenAccessInfo contains open access information for a work.
type OpenAccessInfo struct {
	IsOA                     bool   `json:"is_oa"`
	OADate                   string `json:"oa_date"`
	OAURL                    string `json:"oa_url"`
	OAStatus                 string `json:"oa_status"`
	AnyRepositoryHasFulltext bool   `json:"any_repository_has_fulltext"`
}

// TaggedConcept is a concept tag attached to a work or author, with a
// relevance score.
type TaggedConcept struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Level       int     `json:"level"`
	Score       float64 `json:"score"`
}

// YearCount is one bucket of the counts_by_year timeline.
type YearCount struct {
	Year         int `json:"year"`
	WorksCount   int `json:"works_count"`
	CitedByCount int `json:"cited_by_count"`
}

// Author represents a raw OpenAlex author.
type Author struct {
	ID                      string          `json:"id"`
	DisplayName             string          `json:"display_name"`
	Orcid                   string          `json:"orcid"`
	WorksCount              int             `json:"works_count"`
	CitedByCount            int             `json:"cited_by_count"`
	SummaryStats            SummaryStats    `json:"summary_stats"`
	LastKnownInstitution    *Institution    `json:"last_known_institution"`
	DisplayNameAlternatives []string        `json:"display_name_alternatives"`
	XConcepts               []TaggedConcept `json:"x_concepts"`
	CountsByYear            []YearCount     `json:"counts_by_year"`
}

// SummaryStats carries citation summary statistics for an author.
type SummaryStats struct {
	HIndex   int `json:"h_index"`
	I10Index int `json:"i10_index"`
}

// Concept represents a raw OpenAlex concept (field of study).
type Concept struct {
	ID                string            `json:"id"`
	DisplayName       string            `json:"display_name"`
	Description       string            `json:"description"`
	Level             int               `json:"level"`
	WorksCount        int               `json:"works_count"`
	CitedByCount      int               `json:"cited_by_count"`
	Wikidata          string            `json:"wikidata"`
	ImageURL          string            `json:"image_url"`
	ImageThumbnailURL string            `json:"image_thumbnail_url"`
	IDs               ConceptIDs        `json:"ids"`
	Ancestors         []ConceptSummary  `json:"ancestors"`
	RelatedConcepts   []TaggedConcept   `json:"related_concepts"`
	CountsByYear      []YearCount       `json:"counts_by_year"`
	International     *InternationalMap `json:"international"`
}

// ConceptIDs contains the external identifiers of a concept.
type ConceptIDs struct {
	Wikidata  string `json:"wikidata"`
	Wikipedia string `json:"wikipedia"`
}

// ConceptSummary is an abbreviated concept reference (used for ancestors).
type ConceptSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
}

// InternationalMap carries localized display names keyed by language code.
type InternationalMap struct {
	DisplayName map[string]string `json:"display_name"`
}
