// Game HTTP handlers.
//
// This file exposes the public REST endpoints of the recommendation API:
//   - GET /search-games                     (typo-tolerant name suggestions)
//   - GET /recommendations/{game_name}      (similarity-based recommendations)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-gamerec-backend/internal/services"
	"github.com/tbourn/go-gamerec-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// Recommender defines the recommendation operation consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type Recommender interface {
	// Recommend returns up to limit games similar to the named title.
	Recommend(ctx context.Context, name string, limit int, prioritizeSeries bool) ([]services.Recommendation, error)
}

// Suggester defines the name-suggestion operation consumed by HTTP handlers.
type Suggester interface {
	// Suggest returns up to limit base-game suggestions for the query.
	Suggest(query string, limit int) []services.Suggestion
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for recommendations and suggestions.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	recSvc Recommender
	sugSvc Suggester
}

// New constructs a Handlers instance bound to the given services.
func New(recSvc Recommender, sugSvc Suggester) *Handlers {
	return &Handlers{recSvc: recSvc, sugSvc: sugSvc}
}

//
// DTOs
//

// SearchGamesResponse is the JSON payload returned by the search endpoint.
type SearchGamesResponse struct {
	Query string                `json:"query" example:"hollow kni"`
	Items []services.Suggestion `json:"items"`
}

// RecommendationsResponse is the JSON payload returned by the
// recommendations endpoint.
type RecommendationsResponse struct {
	Game  string                    `json:"game" example:"Hollow Knight"`
	Items []services.Recommendation `json:"items"`
}

// SearchGames handles GET /search-games.
//
// @Summary     Search games by name
// @Description Returns typo-tolerant name suggestions for the query. Only base titles are returned; DLC, bundles, and re-releases are filtered out. Queries below the minimum length yield an empty list.
// @Tags        Games
// @Produce     json
//
// @Param       query  query  string  true   "Partial or misspelled game name"  example(hollow kni)
// @Param       limit  query  int     false  "Maximum suggestions"              minimum(1) maximum(25) default(10)
//
// @Success     200  {object}  handlers.SearchGamesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /search-games [get]
func (h *Handlers) SearchGames(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter is required")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 10)

	items := h.sugSvc.Suggest(query, limit)
	if items == nil {
		items = []services.Suggestion{}
	}
	ok(c, http.StatusOK, SearchGamesResponse{Query: query, Items: items})
}

// Recommendations handles GET /recommendations/{game_name}.
//
// @Summary     Recommend similar games
// @Description Resolves the named title (case-insensitive, prefix-tolerant) and returns the most similar base games by shared genres, themes, and keywords. With prioritize_series, titles from the same series are ranked first.
// @Tags        Games
// @Produce     json
//
// @Param       game_name          path   string  true   "Game title"            example(Hollow Knight)
// @Param       top_n              query  int     false  "Maximum results"       minimum(0) default(10)
// @Param       prioritize_series  query  bool    false  "Rank same-series titles first"  default(false)
//
// @Success     200  {object}  handlers.RecommendationsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Game not found"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recommendations/{game_name} [get]
func (h *Handlers) Recommendations(c *gin.Context) {
	ctx := c.Request.Context()

	name := c.Param("game_name")
	// top_n is the documented parameter, limit an accepted alias. -1 lets the
	// service apply its default; an explicit top_n=0 is honored and yields an
	// empty list.
	limit := utils.AtoiDefault(c.Query("top_n"), -1)
	if limit < 0 {
		limit = utils.AtoiDefault(c.Query("limit"), -1)
	}
	prioritize := utils.BoolDefault(c.Query("prioritize_series"), false)

	items, err := h.recSvc.Recommend(ctx, name, limit, prioritize)
	switch {
	case errors.Is(err, services.ErrGameNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("game %q not found", name))
		return
	case errors.Is(err, services.ErrEmptyCatalog):
		fail(c, http.StatusServiceUnavailable, ErrCodeCatalogEmpty, "catalog has not been ingested yet")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeRecommendFailed, "could not compute recommendations")
		return
	}

	if items == nil {
		items = []services.Recommendation{}
	}
	ok(c, http.StatusOK, RecommendationsResponse{Game: name, Items: items})
}
