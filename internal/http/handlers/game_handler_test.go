package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-gamerec-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRecommender struct {
	items []services.Recommendation
	err   error

	gotName       string
	gotLimit      int
	gotPrioritize bool
}

func (f *fakeRecommender) Recommend(_ context.Context, name string, limit int, prioritizeSeries bool) ([]services.Recommendation, error) {
	f.gotName, f.gotLimit, f.gotPrioritize = name, limit, prioritizeSeries
	return f.items, f.err
}

type fakeSuggester struct {
	items    []services.Suggestion
	gotQuery string
	gotLimit int
}

func (f *fakeSuggester) Suggest(query string, limit int) []services.Suggestion {
	f.gotQuery, f.gotLimit = query, limit
	return f.items
}

func newTestRouter(rec Recommender, sug Suggester) *gin.Engine {
	r := gin.New()
	h := New(rec, sug)
	r.GET("/search-games", h.SearchGames)
	r.GET("/recommendations/:game_name", h.Recommendations)
	return r
}

func do(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSearchGames_RequiresQuery(t *testing.T) {
	r := newTestRouter(&fakeRecommender{}, &fakeSuggester{})
	w := do(r, "/search-games")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != ErrCodeBadRequest {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestSearchGames_ReturnsSuggestions(t *testing.T) {
	sug := &fakeSuggester{items: []services.Suggestion{
		{ID: 1, Name: "Hollow Knight", Score: 0.92},
	}}
	r := newTestRouter(&fakeRecommender{}, sug)

	w := do(r, "/search-games?query=hollow+kni&limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if sug.gotQuery != "hollow kni" || sug.gotLimit != 5 {
		t.Fatalf("service got %q/%d", sug.gotQuery, sug.gotLimit)
	}
	var resp SearchGamesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Hollow Knight" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSearchGames_EmptyResultIsArray(t *testing.T) {
	r := newTestRouter(&fakeRecommender{}, &fakeSuggester{})
	w := do(r, "/search-games?query=zzz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp["items"]) != "[]" {
		t.Fatalf("items should be [] not %s", resp["items"])
	}
}

func TestSearchGames_InvalidLimitFallsBack(t *testing.T) {
	sug := &fakeSuggester{}
	r := newTestRouter(&fakeRecommender{}, sug)
	if w := do(r, "/search-games?query=abc&limit=bogus"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if sug.gotLimit != 10 {
		t.Fatalf("limit fallback = %d, want 10", sug.gotLimit)
	}
}

func TestRecommendations_Success(t *testing.T) {
	rec := &fakeRecommender{items: []services.Recommendation{
		{ID: 2, Name: "Ori and the Blind Forest", Score: 0.61},
	}}
	r := newTestRouter(rec, &fakeSuggester{})

	w := do(r, "/recommendations/Hollow%20Knight?top_n=3&prioritize_series=true")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if rec.gotName != "Hollow Knight" || rec.gotLimit != 3 || !rec.gotPrioritize {
		t.Fatalf("service got %q/%d/%t", rec.gotName, rec.gotLimit, rec.gotPrioritize)
	}
	var resp RecommendationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Game != "Hollow Knight" || len(resp.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if !strings.Contains(w.Body.String(), `"from_same_collection"`) {
		t.Fatalf("series flag missing from wire format: %s", w.Body.String())
	}
}

func TestRecommendations_NotFound(t *testing.T) {
	rec := &fakeRecommender{err: services.ErrGameNotFound}
	r := newTestRouter(rec, &fakeSuggester{})

	w := do(r, "/recommendations/unknown")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != ErrCodeNotFound {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if !strings.Contains(resp.Message, "unknown") {
		t.Fatalf("message should echo the attempted name: %q", resp.Message)
	}
}

func TestRecommendations_TopNParameter(t *testing.T) {
	rec := &fakeRecommender{}
	r := newTestRouter(rec, &fakeSuggester{})

	cases := []struct {
		query string
		want  int
	}{
		{"", -1},          // absent: service applies its default
		{"?top_n=3", 3},   // documented parameter
		{"?top_n=0", 0},   // explicit zero passes through
		{"?limit=4", 4},   // accepted alias
		{"?top_n=bogus", -1},
	}
	for _, tc := range cases {
		if w := do(r, "/recommendations/anything"+tc.query); w.Code != http.StatusOK {
			t.Fatalf("%q: status = %d", tc.query, w.Code)
		}
		if rec.gotLimit != tc.want {
			t.Fatalf("%q: service received %d, want %d", tc.query, rec.gotLimit, tc.want)
		}
	}
}

func TestRecommendations_EmptyCatalog(t *testing.T) {
	rec := &fakeRecommender{err: services.ErrEmptyCatalog}
	r := newTestRouter(rec, &fakeSuggester{})

	w := do(r, "/recommendations/anything")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRecommendations_InternalError(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("db down")}
	r := newTestRouter(rec, &fakeSuggester{})

	w := do(r, "/recommendations/anything")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != ErrCodeRecommendFailed {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
