// Package domain defines the persistence models for the game catalog and the
// search projection derived from it. These types are mapped with GORM and form
// the core data layer of the recommendation backend.
package domain

// Provider game-type taxonomy. The values mirror the upstream metadata
// source so ingested records can be stored without translation.
const (
	GameTypeMainGame            = 0
	GameTypeDLC                 = 1
	GameTypeExpansion           = 2
	GameTypeBundle              = 3
	GameTypeStandaloneExpansion = 4
	GameTypeMod                 = 5
	GameTypeEpisode             = 6
	GameTypeSeason              = 7
	GameTypeRemake              = 8
	GameTypeRemaster            = 9
	GameTypeExpandedGame        = 10
	GameTypePort                = 11
	GameTypeFork                = 12
	GameTypePack                = 13
	GameTypeUpdate              = 14
)

// IsAddOnType reports whether a game type marks a record as DLC, expansion,
// or bundle content. Such records never appear as recommendations or
// suggestions; only base titles do.
func IsAddOnType(gameType int) bool {
	switch gameType {
	case GameTypeDLC, GameTypeExpansion, GameTypeBundle, GameTypeUpdate:
		return true
	default:
		return false
	}
}

// GameRecord is one catalog entry per game, denormalized at ingestion time:
// raw genre/theme/keyword identifiers from the provider are already resolved
// to display names, and the cover reference is a full image URL.
//
// Fields:
//   - ID: stable integer identifier assigned by the provider; primary key.
//     Unique and stable across refresh cycles.
//   - ParentID / VersionParentID: optional back-references to a base game
//     (DLC/expansions) or base version (re-releases/ports). A record with a
//     non-nil ParentID is a variant of another record and is excluded from
//     suggestion and recommendation output.
//   - CollectionID: optional series grouping (sequels, spin-offs).
//   - GameType: provider taxonomy value, see the GameType constants.
//   - Genres / Themes / Keywords: resolved attribute name sets (unique,
//     order irrelevant) driving similarity scoring; stored as JSON.
//   - CoverURL: optional image reference.
//   - ReleaseYear: optional year derived from the provider release timestamp.
//   - TotalRating: optional aggregate rating in [0, 100].
type GameRecord struct {
	ID              int64    `json:"id"                gorm:"primaryKey;autoIncrement:false"`
	Name            string   `json:"name"              gorm:"type:varchar(512);not null;index:idx_games_name"`
	ParentID        *int64   `json:"parent_id,omitempty"`
	VersionParentID *int64   `json:"version_parent_id,omitempty"`
	CollectionID    *int64   `json:"collection_id,omitempty" gorm:"index:idx_games_collection"`
	GameType        int      `json:"game_type"         gorm:"not null;default:0"`
	Genres          []string `json:"genres"            gorm:"serializer:json"`
	Themes          []string `json:"themes"            gorm:"serializer:json"`
	Keywords        []string `json:"keywords"          gorm:"serializer:json"`
	CoverURL        *string  `json:"cover_url,omitempty"`
	ReleaseYear     *int     `json:"release_year,omitempty"`
	TotalRating     *float64 `json:"total_rating,omitempty"`
}

// TableName returns the database table name for GameRecord.
func (GameRecord) TableName() string { return "games" }

// IsBaseGame reports whether the record is a base title: no parent, no
// version parent, and not an add-on game type.
func (g *GameRecord) IsBaseGame() bool {
	return g.ParentID == nil && g.VersionParentID == nil && !IsAddOnType(g.GameType)
}

// AttributeSet returns the pooled, deduplicated union of the record's genres,
// themes, and keywords. Similarity between two games is the Jaccard index of
// their pooled sets, not a per-category average.
func (g *GameRecord) AttributeSet() map[string]struct{} {
	out := make(map[string]struct{}, len(g.Genres)+len(g.Themes)+len(g.Keywords))
	for _, lists := range [][]string{g.Genres, g.Themes, g.Keywords} {
		for _, v := range lists {
			out[v] = struct{}{}
		}
	}
	return out
}

// SearchEntry is the denormalized search-index projection of a GameRecord.
// It carries only the fields needed for live name suggestions and their
// post-filtering. Every SearchEntry.ID corresponds to exactly one
// GameRecord.ID; the table is rebuilt wholesale by ingestion and never
// mutated independently.
type SearchEntry struct {
	ID              int64   `json:"id"   gorm:"primaryKey;autoIncrement:false"`
	Name            string  `json:"name" gorm:"type:varchar(512);not null;index:idx_search_name"`
	ParentID        *int64  `json:"parent_id,omitempty"`
	VersionParentID *int64  `json:"version_parent_id,omitempty"`
	GameType        int     `json:"game_type" gorm:"not null;default:0"`
	CoverURL        *string `json:"cover_url,omitempty"`
	ReleaseYear     *int    `json:"release_year,omitempty"`
}

// TableName returns the database table name for SearchEntry.
func (SearchEntry) TableName() string { return "search_entries" }

// SearchProjection derives the SearchEntry for a catalog record.
func (g *GameRecord) SearchProjection() SearchEntry {
	return SearchEntry{
		ID:              g.ID,
		Name:            g.Name,
		ParentID:        g.ParentID,
		VersionParentID: g.VersionParentID,
		GameType:        g.GameType,
		CoverURL:        g.CoverURL,
		ReleaseYear:     g.ReleaseYear,
	}
}
