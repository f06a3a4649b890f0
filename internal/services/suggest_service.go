// Package services – SuggestService
//
// This file implements live name suggestions ("search as you type"). The
// heavy lifting happens in the in-memory suggestion index; this service adds
// the query-length guard, the base-game post-filter, and the result cap.
package services

import (
	"strings"
	"unicode/utf8"

	"github.com/tbourn/go-gamerec-backend/internal/domain"
	"github.com/tbourn/go-gamerec-backend/internal/search"
)

// Suggestion is one name suggestion returned to the caller.
type Suggestion struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	CoverURL    *string `json:"cover_url,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
}

// SuggestService serves typo-tolerant name suggestions over the search
// projection built at startup.
type SuggestService struct {
	// Index is the immutable suggestion index.
	Index search.Index

	// MinQueryLen is the minimum query rune length; shorter queries return
	// no suggestions rather than an error.
	MinQueryLen int
	// MaxSuggestions caps the number of suggestions per query.
	MaxSuggestions int
}

// NewSuggestService constructs a SuggestService with the given bounds.
func NewSuggestService(idx search.Index, minQueryLen, maxSuggestions int) *SuggestService {
	if minQueryLen < 1 {
		minQueryLen = 1
	}
	if maxSuggestions < 1 {
		maxSuggestions = 10
	}
	return &SuggestService{
		Index:          idx,
		MinQueryLen:    minQueryLen,
		MaxSuggestions: maxSuggestions,
	}
}

// Suggest returns up to limit base-game suggestions for the query. Variants
// (records with a parent or version parent) and add-on game types are
// filtered out after index retrieval, so the cap applies to what the caller
// actually sees.
func (s *SuggestService) Suggest(query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < s.MinQueryLen {
		return nil
	}
	if limit <= 0 || limit > s.MaxSuggestions {
		limit = s.MaxSuggestions
	}

	// Over-fetch so post-filtering does not starve the caller of results.
	hits := s.Index.TopK(query, limit*4)

	out := make([]Suggestion, 0, limit)
	for _, h := range hits {
		if !isSuggestible(h.Entry) {
			continue
		}
		out = append(out, Suggestion{
			ID:          h.Entry.ID,
			Name:        h.Entry.Name,
			Score:       roundScore(h.Score),
			CoverURL:    h.Entry.CoverURL,
			ReleaseYear: h.Entry.ReleaseYear,
		})
		if len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// isSuggestible keeps only base titles: no parent back-references and not an
// add-on game type.
func isSuggestible(e domain.SearchEntry) bool {
	return e.ParentID == nil && e.VersionParentID == nil && !domain.IsAddOnType(e.GameType)
}
