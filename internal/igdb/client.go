package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tbourn/go-gamerec-backend/internal/config"
)

// Client talks to the external metadata source. It handles OAuth
// client-credentials tokens (cached until near expiry), paces outbound
// requests below the provider's rate ceiling, and converts provider failures
// into the typed errors in this package.
//
// The client is safe for concurrent use, although the ingestion pipeline —
// its only writer-side consumer — issues requests strictly sequentially.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.ProviderConfig

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient constructs a Client from provider configuration.
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		cfg:        cfg,
	}
}

// tokenResponse is the OAuth token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// accessToken returns a valid bearer token, fetching a fresh one from the
// token endpoint when the cached token is missing or within a minute of
// expiring.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExp) > time.Minute {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 500 {
			return "", &TransientError{Status: resp.StatusCode, Err: err}
		}
		return "", err
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

// Query POSTs an Apicalypse body to the given endpoint and decodes the JSON
// array response into out. A 429 response becomes a *RateLimitError carrying
// the Retry-After hint; transport errors and 5xx responses become
// *TransientError.
func (c *Client) Query(ctx context.Context, endpoint, body string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/"+strings.TrimPrefix(endpoint, "/"), strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Client-ID", c.cfg.ClientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return &TransientError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("endpoint %q returned %d", endpoint, resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint %q returned %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %q response: %w", endpoint, err)
	}
	return nil
}

// retryAfter parses the Retry-After header (delta-seconds form) from a 429
// response, returning zero when absent or unparsable.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// pageBody renders the Apicalypse pagination clause shared by all paged
// fetches. Results are sorted by ascending id so offsets stay stable across
// pages within one run.
func pageBody(fields string, limit, offset int) string {
	return fmt.Sprintf("fields %s; limit %d; offset %d; sort id asc;", fields, limit, offset)
}

// FetchGames returns one page of raw game records at the given offset.
func (c *Client) FetchGames(ctx context.Context, limit, offset int) ([]Game, error) {
	const fields = "id, name, genres, themes, keywords, collection, parent_game, " +
		"version_parent, game_type, cover, first_release_date, total_rating"
	var out []Game
	if err := c.Query(ctx, "games", pageBody(fields, limit, offset), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchNamed returns one page of a lookup-table endpoint (genres, themes,
// keywords, collections).
func (c *Client) FetchNamed(ctx context.Context, endpoint string, limit, offset int) ([]Named, error) {
	var out []Named
	if err := c.Query(ctx, endpoint, pageBody("id, name", limit, offset), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCovers returns one page of cover-art records.
func (c *Client) FetchCovers(ctx context.Context, limit, offset int) ([]Cover, error) {
	var out []Cover
	if err := c.Query(ctx, "covers", pageBody("id, url", limit, offset), &out); err != nil {
		return nil, err
	}
	return out, nil
}
