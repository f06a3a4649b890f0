package igdb

// Game is the raw game record as returned by the provider. Attribute fields
// (Genres, Themes, Keywords) are lists of foreign-key identifiers that the
// ingestion pipeline resolves against separately fetched lookup tables.
type Game struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Genres           []int64  `json:"genres"`
	Themes           []int64  `json:"themes"`
	Keywords         []int64  `json:"keywords"`
	Collection       *int64   `json:"collection"`
	ParentGame       *int64   `json:"parent_game"`
	VersionParent    *int64   `json:"version_parent"`
	GameType         *int     `json:"game_type"`
	Cover            *int64   `json:"cover"`
	FirstReleaseDate *int64   `json:"first_release_date"`
	TotalRating      *float64 `json:"total_rating"`
}

// Named is the common shape of the provider's lookup tables (genres, themes,
// keywords, collections): an identifier with a display name.
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Cover is a provider cover-art record. URL is a protocol-relative thumbnail
// path that the pipeline rewrites to a sized CDN URL.
type Cover struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}
