package igdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-gamerec-backend/internal/config"
)

// newTestClient wires a Client against httptest servers for the token
// endpoint and the API. The token server always issues "tok".
func newTestClient(t *testing.T, api http.HandlerFunc) *Client {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s", r.Method)
		}
		_ = r.ParseForm()
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600,"token_type":"bearer"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	return NewClient(config.ProviderConfig{
		ClientID:       "cid",
		ClientSecret:   "secret",
		BaseURL:        apiSrv.URL,
		TokenURL:       tokenSrv.URL,
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 1000, // effectively unpaced in tests
	})
}

func TestQuery_SetsAuthHeadersAndDecodes(t *testing.T) {
	var gotAuth, gotClientID, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("Client-ID")
		b := make([]byte, 1024)
		n, _ := r.Body.Read(b)
		gotBody = string(b[:n])
		_, _ = w.Write([]byte(`[{"id":1,"name":"Elden Ring"}]`))
	})

	var out []Named
	if err := c.Query(context.Background(), "games", "fields id, name;", &out); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotAuth != "Bearer tok" || gotClientID != "cid" {
		t.Fatalf("auth headers: Authorization=%q Client-ID=%q", gotAuth, gotClientID)
	}
	if !strings.Contains(gotBody, "fields id, name;") {
		t.Fatalf("body not forwarded: %q", gotBody)
	}
	if len(out) != 1 || out[0].ID != 1 || out[0].Name != "Elden Ring" {
		t.Fatalf("decoded: %+v", out)
	}
}

func TestQuery_TokenCachedAcrossCalls(t *testing.T) {
	tokenCalls := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	}))
	defer tokenSrv.Close()
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer apiSrv.Close()

	c := NewClient(config.ProviderConfig{
		BaseURL: apiSrv.URL, TokenURL: tokenSrv.URL,
		RequestTimeout: 5 * time.Second, RequestsPerSec: 1000,
	})
	var out []Named
	for i := 0; i < 3; i++ {
		if err := c.Query(context.Background(), "genres", "fields id, name;", &out); err != nil {
			t.Fatalf("Query %d: %v", i, err)
		}
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token fetch, got %d", tokenCalls)
	}
}

func TestQuery_RateLimitSignal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	var out []Game
	err := c.Query(context.Background(), "games", "fields id;", &out)
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected *RateLimitError, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("RetryAfter = %v", rl.RetryAfter)
	}
	if !IsRetryable(err) {
		t.Fatalf("rate-limit error must be retryable")
	}
	if RetryAfterHint(err) != 7*time.Second {
		t.Fatalf("RetryAfterHint = %v", RetryAfterHint(err))
	}
}

func TestQuery_ServerErrorIsTransient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	var out []Game
	err := c.Query(context.Background(), "games", "fields id;", &out)
	var tr *TransientError
	if !errors.As(err, &tr) {
		t.Fatalf("expected *TransientError, got %v", err)
	}
	if tr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", tr.Status)
	}
	if !IsRetryable(err) {
		t.Fatalf("transient error must be retryable")
	}
}

func TestQuery_ClientErrorIsFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`syntax error`))
	})

	var out []Game
	err := c.Query(context.Background(), "games", "fieldz;", &out)
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsRetryable(err) {
		t.Fatalf("4xx (non-429) must not be retryable: %v", err)
	}
}

func TestFetchGames_PaginationClause(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 2048)
		n, _ := r.Body.Read(b)
		gotBody = string(b[:n])
		_, _ = w.Write([]byte(`[{"id":5,"name":"x","genres":[1,2]}]`))
	})

	games, err := c.FetchGames(context.Background(), 100, 300)
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 || games[0].ID != 5 || len(games[0].Genres) != 2 {
		t.Fatalf("games: %+v", games)
	}
	for _, want := range []string{"limit 100;", "offset 300;", "sort id asc;"} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("body %q missing %q", gotBody, want)
		}
	}
}

func TestRetryAfter_MissingOrBadHeader(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if d := retryAfter(resp); d != 0 {
		t.Fatalf("missing header: %v", d)
	}
	resp.Header.Set("Retry-After", "soon")
	if d := retryAfter(resp); d != 0 {
		t.Fatalf("unparsable header: %v", d)
	}
}
