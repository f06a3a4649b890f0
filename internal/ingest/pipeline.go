package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-gamerec-backend/internal/config"
	"github.com/tbourn/go-gamerec-backend/internal/domain"
	"github.com/tbourn/go-gamerec-backend/internal/igdb"
	"github.com/tbourn/go-gamerec-backend/internal/repo"
)

// Source is the provider surface the pipeline consumes. *igdb.Client
// implements it; tests substitute fakes.
type Source interface {
	FetchGames(ctx context.Context, limit, offset int) ([]igdb.Game, error)
	FetchNamed(ctx context.Context, endpoint string, limit, offset int) ([]igdb.Named, error)
	FetchCovers(ctx context.Context, limit, offset int) ([]igdb.Cover, error)
}

// State is the refresh pipeline's lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateClearing
	StateWriting
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClearing:
		return "clearing"
	case StateWriting:
		return "writing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// atomicState wraps an atomic State value.
type atomicState struct{ v atomic.Int32 }

func (a *atomicState) Load() State   { return State(a.v.Load()) }
func (a *atomicState) Store(s State) { a.v.Store(int32(s)) }

// coverCDNBase is the sized-image CDN prefix substituted for the provider's
// thumbnail path when building stored cover URLs.
const coverCDNBase = "https://images.igdb.com/igdb/image/upload/t_cover_big/"

// Pipeline rebuilds the catalog and search stores from the provider.
//
// A refresh is destructive: prior contents are dropped before the new
// snapshot is written. All provider fetching happens up front, so a fetch
// failure leaves the previous catalog untouched; only a failure between the
// clear and the final write leaves the stores empty or partial, and the
// pipeline reports StateFailed for that case.
//
// Pipeline is not safe for concurrent Refresh calls; run one refresh at a
// time. State() may be read concurrently.
type Pipeline struct {
	db     *gorm.DB
	src    Source
	cfg    config.IngestConfig
	policy Policy

	// sleep is the pause used between retries; injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error

	state atomicState
}

// New builds a Pipeline over the given store and provider source.
func New(db *gorm.DB, src Source, cfg config.IngestConfig) *Pipeline {
	return &Pipeline{
		db:  db,
		src: src,
		cfg: cfg,
		policy: Policy{
			MaxRetries: cfg.MaxRetries,
			Backoff:    cfg.RetryBackoff,
		},
		sleep: sleepCtx,
	}
}

// State returns the pipeline's current lifecycle state.
func (p *Pipeline) State() State { return p.state.Load() }

func (p *Pipeline) setState(s State) {
	p.state.Store(s)
	pipelineState.Set(float64(s))
}

// Refresh pulls the full catalog from the provider and rebuilds both stores.
// It returns the number of catalog records written.
func (p *Pipeline) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := p.refresh(ctx)
	refreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.setState(StateFailed)
		refreshRuns.WithLabelValues("failed").Inc()
		return 0, err
	}
	p.setState(StateComplete)
	refreshRuns.WithLabelValues("success").Inc()
	recordsWritten.Add(float64(n))
	log.Info().
		Int("games", n).
		Dur("elapsed", time.Since(start)).
		Msg("catalog refresh complete")
	return n, nil
}

func (p *Pipeline) refresh(ctx context.Context) (int, error) {
	p.setState(StateIdle)

	genres, err := p.fetchLookup(ctx, "genres")
	if err != nil {
		return 0, err
	}
	themes, err := p.fetchLookup(ctx, "themes")
	if err != nil {
		return 0, err
	}
	keywords, err := p.fetchLookup(ctx, "keywords")
	if err != nil {
		return 0, err
	}
	covers, err := p.fetchCovers(ctx)
	if err != nil {
		return 0, err
	}

	records, err := p.fetchCatalog(ctx, genres, themes, keywords, covers)
	if err != nil {
		return 0, err
	}

	p.setState(StateClearing)
	if err := repo.ClearCatalog(ctx, p.db); err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}

	p.setState(StateWriting)
	if err := repo.InsertGames(ctx, p.db, records); err != nil {
		return 0, fmt.Errorf("write games: %w", err)
	}
	entries := make([]domain.SearchEntry, 0, len(records))
	for i := range records {
		entries = append(entries, records[i].SearchProjection())
	}
	if err := repo.InsertSearchEntries(ctx, p.db, entries); err != nil {
		return 0, fmt.Errorf("write search entries: %w", err)
	}
	return len(records), nil
}

// fetchLookup pages one of the provider's name lookup tables into an
// id -> name map.
func (p *Pipeline) fetchLookup(ctx context.Context, endpoint string) (map[int64]string, error) {
	out := make(map[int64]string)
	for offset := 0; ; offset += p.cfg.PageSize {
		var page []igdb.Named
		err := p.fetchWithRetry(ctx, endpoint, offset, func() error {
			var ferr error
			page, ferr = p.src.FetchNamed(ctx, endpoint, p.cfg.PageSize, offset)
			return ferr
		})
		if err != nil {
			return nil, err
		}
		for _, n := range page {
			out[n.ID] = n.Name
		}
		if len(page) < p.cfg.PageSize {
			return out, nil
		}
	}
}

// fetchCovers pages cover records into an id -> sized CDN URL map.
func (p *Pipeline) fetchCovers(ctx context.Context) (map[int64]string, error) {
	out := make(map[int64]string)
	for offset := 0; ; offset += p.cfg.PageSize {
		var page []igdb.Cover
		err := p.fetchWithRetry(ctx, "covers", offset, func() error {
			var ferr error
			page, ferr = p.src.FetchCovers(ctx, p.cfg.PageSize, offset)
			return ferr
		})
		if err != nil {
			return nil, err
		}
		for _, c := range page {
			if url := coverImageURL(c.URL); url != "" {
				out[c.ID] = url
			}
		}
		if len(page) < p.cfg.PageSize {
			return out, nil
		}
	}
}

// fetchCatalog pages the games endpoint and materializes catalog records,
// resolving attribute identifiers against the lookup maps.
func (p *Pipeline) fetchCatalog(ctx context.Context, genres, themes, keywords, covers map[int64]string) ([]domain.GameRecord, error) {
	var (
		records []domain.GameRecord
		skipped int
		dropped int
	)
	for offset := 0; ; offset += p.cfg.PageSize {
		var page []igdb.Game
		err := p.fetchWithRetry(ctx, "games", offset, func() error {
			var ferr error
			page, ferr = p.src.FetchGames(ctx, p.cfg.PageSize, offset)
			return ferr
		})
		if err != nil {
			return nil, err
		}

		for _, g := range page {
			if strings.TrimSpace(g.Name) == "" {
				skipped++
				continue
			}
			records = append(records, buildRecord(g, genres, themes, keywords, covers, &dropped))
			if p.cfg.MaxGames > 0 && len(records) >= p.cfg.MaxGames {
				logCatalogAnomalies(skipped, dropped)
				return records, nil
			}
		}
		if len(page) < p.cfg.PageSize {
			logCatalogAnomalies(skipped, dropped)
			return records, nil
		}
	}
}

// fetchWithRetry runs one page fetch under the retry policy. The same page is
// re-requested on retryable failure; pagination never advances past a failed
// page.
func (p *Pipeline) fetchWithRetry(ctx context.Context, endpoint string, offset int, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			pagesFetched.WithLabelValues(endpoint).Inc()
			return nil
		}
		d := p.policy.Decide(attempt, err)
		if !d.Retry {
			return fmt.Errorf("fetch %s at offset %d (attempt %d): %w", endpoint, offset, attempt, err)
		}
		pageRetries.WithLabelValues(endpoint).Inc()
		log.Warn().
			Str("endpoint", endpoint).
			Int("offset", offset).
			Int("attempt", attempt).
			Dur("delay", d.Delay).
			Err(err).
			Msg("page fetch failed, retrying")
		if serr := p.sleep(ctx, d.Delay); serr != nil {
			return serr
		}
	}
}

// buildRecord converts one raw provider game into a catalog record. Attribute
// identifiers without a lookup entry are dropped and counted.
func buildRecord(g igdb.Game, genres, themes, keywords, covers map[int64]string, dropped *int) domain.GameRecord {
	rec := domain.GameRecord{
		ID:              g.ID,
		Name:            g.Name,
		ParentID:        g.ParentGame,
		VersionParentID: g.VersionParent,
		CollectionID:    g.Collection,
		Genres:          resolveNames(g.Genres, genres, dropped),
		Themes:          resolveNames(g.Themes, themes, dropped),
		Keywords:        resolveNames(g.Keywords, keywords, dropped),
		TotalRating:     g.TotalRating,
	}
	if g.GameType != nil {
		rec.GameType = *g.GameType
	}
	if g.Cover != nil {
		if url, ok := covers[*g.Cover]; ok {
			rec.CoverURL = &url
		}
	}
	if g.FirstReleaseDate != nil {
		// Negative timestamps are valid: some catalog entries predate 1970.
		year := time.Unix(*g.FirstReleaseDate, 0).UTC().Year()
		rec.ReleaseYear = &year
	}
	return rec
}

func resolveNames(ids []int64, lookup map[int64]string, dropped *int) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := lookup[id]
		if !ok {
			*dropped++
			continue
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func logCatalogAnomalies(skipped, dropped int) {
	if skipped > 0 {
		log.Warn().Int("count", skipped).Msg("skipped nameless provider records")
	}
	if dropped > 0 {
		log.Warn().Int("count", dropped).Msg("dropped unresolved attribute references")
	}
}

// coverImageURL rewrites the provider's protocol-relative thumbnail path to a
// sized CDN URL, keeping only the image filename.
func coverImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	file := raw
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		file = raw[i+1:]
	}
	if file == "" {
		return ""
	}
	return coverCDNBase + file
}

// sleepCtx pauses for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
