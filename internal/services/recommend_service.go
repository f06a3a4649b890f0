// Package services – RecommendService
//
// This file implements the recommendation engine. Given a free-text title it
// resolves the catalog record, scores every other base game by the Jaccard
// index of the pooled genre/theme/keyword sets, and returns the top matches.
// With series prioritization enabled, titles sharing the target's collection
// are ranked ahead of the rest regardless of score.
//
// Results are cached briefly and concurrent identical requests are collapsed
// through singleflight, since a single recommendation scores the full catalog.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/tbourn/go-gamerec-backend/internal/domain"
)

// GameRepo defines the repository contract required by RecommendService.
type GameRepo interface {
	// FindGameByName resolves a title case-insensitively, preferring an exact
	// match over the shortest prefix match.
	FindGameByName(ctx context.Context, db *gorm.DB, name string) (*domain.GameRecord, error)

	// ListGames returns the full catalog ordered by ascending ID.
	ListGames(ctx context.Context, db *gorm.DB) ([]domain.GameRecord, error)
}

// Recommendation is one scored catalog entry returned to the caller.
type Recommendation struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	SameSeries  bool     `json:"from_same_collection"`
	Genres      []string `json:"genres"`
	Themes      []string `json:"themes"`
	CoverURL    *string  `json:"cover_url,omitempty"`
	ReleaseYear *int     `json:"release_year,omitempty"`
	TotalRating *float64 `json:"total_rating,omitempty"`
}

// RecommendService computes similarity-based recommendations.
type RecommendService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo GameRepo

	// DefaultLimit applies when the caller passes a non-positive limit.
	DefaultLimit int

	cache *gocache.Cache
	group singleflight.Group
}

// NewRecommendService constructs a RecommendService. Cached results live for
// ttl; a non-positive ttl disables caching.
func NewRecommendService(db *gorm.DB, r GameRepo, ttl time.Duration) *RecommendService {
	s := &RecommendService{
		DB:           db,
		Repo:         r,
		DefaultLimit: 10,
	}
	if ttl > 0 {
		s.cache = gocache.New(ttl, 2*ttl)
	}
	return s
}

// Recommend returns up to limit games most similar to the named title,
// ordered by score descending with ties broken by ascending ID. When
// prioritizeSeries is set, entries sharing the target's collection form a
// leading group with the same internal ordering.
//
// The named title itself, non-base variants (DLC, expansions, bundles,
// updates) and records pointing at a parent or version parent are never
// returned. A limit of zero yields an empty result, not an error; a negative
// limit falls back to DefaultLimit.
func (s *RecommendService) Recommend(ctx context.Context, name string, limit int, prioritizeSeries bool) ([]Recommendation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGameNotFound
	}
	// A negative limit means "caller did not choose"; an explicit zero is a
	// valid request for an empty result.
	if limit < 0 {
		limit = s.DefaultLimit
	}

	key := fmt.Sprintf("%s|%d|%t", strings.ToLower(name), limit, prioritizeSeries)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.([]Recommendation), nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		recs, err := s.compute(ctx, name, limit, prioritizeSeries)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.SetDefault(key, recs)
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Recommendation), nil
}

func (s *RecommendService) compute(ctx context.Context, name string, limit int, prioritizeSeries bool) ([]Recommendation, error) {
	target, err := s.Repo.FindGameByName(ctx, s.DB, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	catalog, err := s.Repo.ListGames(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	targetSet := target.AttributeSet()

	var series, others []Recommendation
	for i := range catalog {
		c := &catalog[i]
		if c.ID == target.ID || !c.IsBaseGame() {
			continue
		}
		rec := Recommendation{
			ID:          c.ID,
			Name:        c.Name,
			Score:       roundScore(jaccard(targetSet, c.AttributeSet())),
			Genres:      c.Genres,
			Themes:      c.Themes,
			CoverURL:    c.CoverURL,
			ReleaseYear: c.ReleaseYear,
			TotalRating: c.TotalRating,
		}
		if prioritizeSeries && sameCollection(target, c) {
			rec.SameSeries = true
			series = append(series, rec)
			continue
		}
		others = append(others, rec)
	}

	sortRecommendations(series)
	sortRecommendations(others)

	out := append(series, others...)
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(a, b int) bool {
		if recs[a].Score != recs[b].Score {
			return recs[a].Score > recs[b].Score
		}
		return recs[a].ID < recs[b].ID
	})
}

func sameCollection(a, b *domain.GameRecord) bool {
	return a.CollectionID != nil && b.CollectionID != nil && *a.CollectionID == *b.CollectionID
}

// jaccard is |A ∩ B| / |A ∪ B| over the pooled attribute sets; zero when
// either set is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// roundScore keeps four decimal places, enough to compare visually without
// leaking float noise into responses.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
