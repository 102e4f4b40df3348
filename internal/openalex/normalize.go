package openalex

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Fixed thresholds for derived metrics. "Recent" activity is counted from
// recentYearCutoff onward; concept growth compares the average yearly output
// since growthLateCutoff against the average over the three years before it.
const (
	recentYearCutoff = 2020
	growthLateCutoff = 2022
	growthEarlyStart = 2019
	growthEarlyEnd   = 2021

	maxKeywords        = 10
	maxRelatedConcepts = 10
)

var openalexIDPattern = regexp.MustCompile(`/([A-Z]\d+)/?$`)

// ReconstructAbstract rebuilds an abstract from OpenAlex's inverted index
// representation, which maps each word to the list of positions it occupies.
// An empty or nil index yields the empty string.
func ReconstructAbstract(inverted map[string][]int) string {
	if len(inverted) == 0 {
		return ""
	}

	maxPos := -1
	for _, positions := range inverted {
		for _, p := range positions {
			if p > maxPos {
				maxPos = p
			}
		}
	}
	if maxPos < 0 {
		return ""
	}

	slots := make([]string, maxPos+1)
	for word, positions := range inverted {
		for _, p := range positions {
			slots[p] = word
		}
	}

	words := make([]string, 0, len(slots))
	for _, w := range slots {
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

// CleanDOI strips URL and scheme prefixes from a DOI, returning the bare
// identifier. The operation is idempotent.
func CleanDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		if strings.HasPrefix(doi, prefix) {
			doi = doi[len(prefix):]
		}
	}
	return doi
}

// CleanORCID strips URL and scheme prefixes from an ORCID identifier,
// returning the bare identifier. The operation is idempotent.
func CleanORCID(orcid string) string {
	orcid = strings.TrimSpace(orcid)
	for _, prefix := range []string{"https://orcid.org/", "http://orcid.org/", "orcid:"} {
		if strings.HasPrefix(orcid, prefix) {
			orcid = orcid[len(prefix):]
		}
	}
	return orcid
}

// ExtractID pulls the short OpenAlex identifier (e.g. "W2741809807") out of
// a full OpenAlex URL. Inputs that are already bare identifiers pass through
// unchanged; the empty string maps to itself.
func ExtractID(openalexURL string) string {
	if openalexURL == "" {
		return ""
	}
	if m := openalexIDPattern.FindStringSubmatch(openalexURL); m != nil {
		return m[1]
	}
	return openalexURL
}

// formatAuthorName produces a display name for an author, falling back
// through the available name parts.
func formatAuthorName(a AuthorInfo) string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.LastName != "":
		return a.LastName
	case a.FirstName != "":
		return a.FirstName
	}
	return "Unknown Author"
}

// resolveVenue picks the venue from the primary location, falling back to
// the best open access location. When neither carries a source the returned
// structure has every field null.
func resolveVenue(w *Work) Venue {
	var src *Source
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		src = w.PrimaryLocation.Source
	} else if w.BestOALocation != nil && w.BestOALocation.Source != nil {
		src = w.BestOALocation.Source
	}
	if src == nil {
		return Venue{}
	}

	v := Venue{IsOA: src.IsOA}
	if src.DisplayName != "" {
		name := src.DisplayName
		v.Name = &name
	}
	if src.Type != "" {
		typ := src.Type
		v.Type = &typ
	}
	if src.ISSNL != "" {
		issn := src.ISSNL
		v.ISSN = &issn
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeWork flattens a raw work into a PublicationRecord. A panic during
// normalization (malformed payload shapes) degrades to a minimal record
// carrying the title, identifier and an error marker.
func normalizeWork(w *Work) (rec PublicationRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = PublicationRecord{
				OpenAlexID: ExtractID(w.ID),
				Title:      workTitle(w),
				Error:      "failed to process publication data",
			}
		}
	}()

	rec = PublicationRecord{
		OpenAlexID:           ExtractID(w.ID),
		Title:                workTitle(w),
		DOI:                  CleanDOI(w.DOI),
		PublicationYear:      w.PublicationYear,
		PublicationDate:      w.PublicationDate,
		Type:                 w.Type,
		CitedByCount:         w.CitedByCount,
		IsRetracted:          w.IsRetracted,
		IsParatext:           w.IsParatext,
		Abstract:             ReconstructAbstract(w.AbstractInvertedIndex),
		Authors:              normalizeAuthorships(w.Authorships),
		Venue:                resolveVenue(w),
		Keywords:             keywordsFromConcepts(w.Concepts),
		Concepts:             conceptRefs(w.Concepts, len(w.Concepts)),
		ReferencedWorksCount: len(w.ReferencedWorks),
		RelatedWorksCount:    len(w.RelatedWorks),
	}

	if oa := w.OpenAccess; oa != nil {
		rec.OpenAccess = OpenAccessRecord{
			IsOA:                     oa.IsOA,
			OADate:                   oa.OADate,
			OAURL:                    oa.OAURL,
			AnyRepositoryHasFulltext: oa.AnyRepositoryHasFulltext,
		}
	}
	if w.BestOALocation != nil {
		if w.BestOALocation.PDFURL != "" {
			rec.OpenAccess.BestOAURL = w.BestOALocation.PDFURL
		} else {
			rec.OpenAccess.BestOAURL = w.BestOALocation.LandingPageURL
		}
	}
	return rec
}

func workTitle(w *Work) string {
	if w.Title != "" {
		return w.Title
	}
	if w.DisplayName != "" {
		return w.DisplayName
	}
	return "Unknown"
}

func normalizeAuthorships(authorships []Authorship) []AuthorRef {
	authors := make([]AuthorRef, 0, len(authorships))
	for _, as := range authorships {
		ref := AuthorRef{
			DisplayName: formatAuthorName(as.Author),
			ORCID:       as.Author.Orcid,
			OpenAlexID:  ExtractID(as.Author.ID),
			Position:    as.AuthorPosition,
		}
		if len(as.Institutions) > 0 {
			inst := as.Institutions[0]
			ref.Affiliation = &Affiliation{
				DisplayName: inst.DisplayName,
				CountryCode: inst.CountryCode,
				Type:        inst.Type,
				OpenAlexID:  ExtractID(inst.ID),
			}
		}
		authors = append(authors, ref)
	}
	return authors
}

func keywordsFromConcepts(concepts []TaggedConcept) []string {
	keywords := make([]string, 0, maxKeywords)
	for _, c := range concepts {
		if len(keywords) == maxKeywords {
			break
		}
		if c.DisplayName != "" {
			keywords = append(keywords, c.DisplayName)
		}
	}
	return keywords
}

func conceptRefs(concepts []TaggedConcept, limit int) []ConceptRef {
	if limit > len(concepts) {
		limit = len(concepts)
	}
	refs := make([]ConceptRef, 0, limit)
	for _, c := range concepts[:limit] {
		refs = append(refs, ConceptRef{
			DisplayName: c.DisplayName,
			Level:       c.Level,
			Score:       round2(c.Score),
			OpenAlexID:  ExtractID(c.ID),
		})
	}
	return refs
}

// normalizeAuthor flattens a raw author into an AuthorRecord, deriving the
// activity metrics from the counts_by_year timeline.
func normalizeAuthor(a *Author) (rec AuthorRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = AuthorRecord{
				OpenAlexID:  ExtractID(a.ID),
				DisplayName: authorName(a),
				Error:       "failed to process author data",
			}
		}
	}()

	rec = AuthorRecord{
		OpenAlexID:       ExtractID(a.ID),
		DisplayName:      authorName(a),
		ORCID:            a.Orcid,
		WorksCount:       a.WorksCount,
		CitedByCount:     a.CitedByCount,
		HIndex:           a.SummaryStats.HIndex,
		I10Index:         a.SummaryStats.I10Index,
		AlternativeNames: append([]string{}, a.DisplayNameAlternatives...),
		ResearchAreas:    taggedConceptRefs(a.XConcepts),
		WorksByYear:      map[int]int{},
		CitationsByYear:  map[int]int{},
	}

	if inst := a.LastKnownInstitution; inst != nil {
		rec.Affiliation = &Affiliation{
			DisplayName: inst.DisplayName,
			CountryCode: inst.CountryCode,
			Type:        inst.Type,
			OpenAlexID:  ExtractID(inst.ID),
		}
	}

	activeYears := make([]int, 0, len(a.CountsByYear))
	for _, yc := range a.CountsByYear {
		rec.WorksByYear[yc.Year] = yc.WorksCount
		rec.CitationsByYear[yc.Year] = yc.CitedByCount
		if yc.WorksCount > 0 {
			activeYears = append(activeYears, yc.Year)
		}
		if yc.Year >= recentYearCutoff {
			rec.Metrics.RecentWorksCount += yc.WorksCount
			rec.Metrics.RecentCitationsCount += yc.CitedByCount
		}
	}

	if a.WorksCount > 0 {
		rec.Metrics.CitationsPerWork = round2(float64(a.CitedByCount) / float64(a.WorksCount))
	}

	if len(activeYears) > 0 {
		sort.Ints(activeYears)
		first, last := activeYears[0], activeYears[len(activeYears)-1]
		rec.FirstPublicationYear = first
		rec.MostRecentPublicationYear = last
		rec.Metrics.CareerSpan = last - first + 1
		rec.Metrics.PublicationsPerYear = round2(float64(a.WorksCount) / float64(rec.Metrics.CareerSpan))
	}
	return rec
}

func authorName(a *Author) string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return "Unknown Author"
}

func taggedConceptRefs(concepts []TaggedConcept) []ConceptRef {
	return conceptRefs(concepts, len(concepts))
}

// normalizeConcept flattens a raw concept into a ConceptRecord. The growth
// rate is derived only when the timeline carries at least six yearly buckets.
func normalizeConcept(c *Concept) (rec ConceptRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = ConceptRecord{
				OpenAlexID:  ExtractID(c.ID),
				DisplayName: c.DisplayName,
				Error:       "failed to process concept data",
			}
		}
	}()

	rec = ConceptRecord{
		OpenAlexID:        ExtractID(c.ID),
		DisplayName:       c.DisplayName,
		Description:       c.Description,
		Level:             c.Level,
		WorksCount:        c.WorksCount,
		CitedByCount:      c.CitedByCount,
		Wikidata:          conceptWikidata(c),
		Wikipedia:         c.IDs.Wikipedia,
		ImageURL:          c.ImageURL,
		ImageThumbnailURL: c.ImageThumbnailURL,
		Ancestors:         conceptLinks(c.Ancestors),
		RelatedConcepts:   conceptRefs(c.RelatedConcepts, maxRelatedConcepts),
		WorksByYear:       map[int]int{},
		CitationsByYear:   map[int]int{},
	}
	rec.Metrics.BreadthScore = len(c.RelatedConcepts)

	if c.International != nil && len(c.International.DisplayName) > 0 {
		rec.InternationalNames = c.International.DisplayName
	} else {
		rec.InternationalNames = map[string]string{}
	}

	for _, yc := range c.CountsByYear {
		rec.WorksByYear[yc.Year] = yc.WorksCount
		rec.CitationsByYear[yc.Year] = yc.CitedByCount
		if yc.Year >= recentYearCutoff {
			rec.Metrics.RecentWorksCount += yc.WorksCount
			rec.Metrics.RecentCitationsCount += yc.CitedByCount
		}
	}

	if c.WorksCount > 0 {
		rec.Metrics.CitationsPerWork = round2(float64(c.CitedByCount) / float64(c.WorksCount))
	}
	rec.Metrics.GrowthRate = conceptGrowthRate(c.CountsByYear)
	return rec
}

func conceptWikidata(c *Concept) string {
	if c.Wikidata != "" {
		return c.Wikidata
	}
	return c.IDs.Wikidata
}

func conceptLinks(ancestors []ConceptSummary) []ConceptLink {
	links := make([]ConceptLink, 0, len(ancestors))
	for _, a := range ancestors {
		links = append(links, ConceptLink{
			OpenAlexID:  ExtractID(a.ID),
			DisplayName: a.DisplayName,
			Level:       a.Level,
		})
	}
	return links
}

// conceptGrowthRate compares the average yearly works count since
// growthLateCutoff to the average over [growthEarlyStart, growthEarlyEnd],
// expressed as a percentage change. It returns nil when fewer than six
// buckets are available, and zero when the earlier window had no output.
func conceptGrowthRate(counts []YearCount) *float64 {
	if len(counts) < 6 {
		return nil
	}

	var lateSum, lateN, earlySum, earlyN int
	for _, yc := range counts {
		switch {
		case yc.Year >= growthLateCutoff:
			lateSum += yc.WorksCount
			lateN++
		case yc.Year >= growthEarlyStart && yc.Year <= growthEarlyEnd:
			earlySum += yc.WorksCount
			earlyN++
		}
	}

	rate := 0.0
	if earlyN > 0 && earlySum > 0 {
		earlyAvg := float64(earlySum) / float64(earlyN)
		lateAvg := 0.0
		if lateN > 0 {
			lateAvg = float64(lateSum) / float64(lateN)
		}
		rate = round2((lateAvg - earlyAvg) / earlyAvg * 100)
	}
	return &rate
}
