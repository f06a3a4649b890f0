// Package search provides a simple, deterministic, concurrency-safe in-memory
// suggestion index over the catalog's search entries. It is intentionally
// small and dependency-light, but engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Clear, documented types and functional options (Option pattern)
//   - Unicode-aware case folding and tokenization
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//   - Sensible defaults (result caps, minimum score)
//
// Matching combines three signals, strongest first: an exact folded-name
// match, a folded prefix match (weighted by how much of the name the query
// covers), and a character-trigram Jaccard similarity for typo tolerance:
// score = |Q ∩ N| / |Q ∪ N| over trigram sets.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-gamerec-backend/internal/domain"
)

// Result is a ranked search entry with its similarity score.
type Result struct {
	Entry domain.SearchEntry
	Score float64
}

// Index is the minimal interface implemented by the suggestion index.
type Index interface {
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	maxResults int
	minScore   float64
}

func defaultConfig() config {
	return config{
		maxResults: 50,
		minScore:   0.1,
	}
}

// WithMaxResults caps the number of results TopK may return regardless of k.
func WithMaxResults(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithMinScore drops candidates scoring below the threshold.
func WithMinScore(s float64) Option {
	return func(c *config) {
		if s >= 0 && s <= 1 {
			c.minScore = s
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

var folder = cases.Fold()

type doc struct {
	entry    domain.SearchEntry
	folded   string
	tokens   []string
	trigrams map[string]struct{}
	nameLen  int
}

type index struct {
	cfg  config
	docs []doc
}

// NewIndex builds an immutable Index from search entries. Entries with empty
// names are skipped. The index holds its own folded/tokenized copies, so the
// caller may discard or reuse the slice afterwards.
func NewIndex(entries []domain.SearchEntry, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	docs := make([]doc, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		folded := folder.String(name)
		docs = append(docs, doc{
			entry:    e,
			folded:   folded,
			tokens:   strings.Fields(folded),
			trigrams: trigrams(folded),
			nameLen:  utf8.RuneCountInString(name),
		})
	}
	return &index{cfg: cfg, docs: docs}
}

// TopK returns up to k best-matching entries for the query, ranked by score
// descending with deterministic tie-breaks (shorter name first, then
// ascending id).
func (i *index) TopK(query string, k int) []Result {
	q := folder.String(strings.TrimSpace(query))
	if q == "" || len(i.docs) == 0 || k <= 0 {
		return nil
	}
	if k > i.cfg.maxResults {
		k = i.cfg.maxResults
	}

	qTokens := strings.Fields(q)
	qTri := trigrams(q)

	buf := make([]Result, 0, min(k*4, len(i.docs)))
	for _, d := range i.docs {
		s := score(q, qTokens, qTri, d)
		if s < i.cfg.minScore {
			continue
		}
		buf = append(buf, Result{Entry: d.entry, Score: s})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		la := utf8.RuneCountInString(buf[a].Entry.Name)
		lb := utf8.RuneCountInString(buf[b].Entry.Name)
		if la != lb {
			return la < lb
		}
		return buf[a].Entry.ID < buf[b].Entry.ID
	})

	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

// score rates one document against the folded query.
func score(q string, qTokens []string, qTri map[string]struct{}, d doc) float64 {
	if d.folded == q {
		return 1.0
	}

	best := 0.0
	if strings.HasPrefix(d.folded, q) {
		// Weight by coverage so "zelda" prefers shorter full names.
		cov := float64(utf8.RuneCountInString(q)) / float64(utf8.RuneCountInString(d.folded))
		best = 0.5 + 0.45*cov
	}

	// Token-level prefix coverage: "legend zel" matches "the legend of zelda".
	if len(qTokens) > 0 {
		matched := 0
		for _, qt := range qTokens {
			for _, nt := range d.tokens {
				if strings.HasPrefix(nt, qt) {
					matched++
					break
				}
			}
		}
		if cov := 0.6 * float64(matched) / float64(len(qTokens)); cov > best {
			best = cov
		}
	}

	// Trigram Jaccard for typo tolerance.
	if tri := jaccard(qTri, d.trigrams); tri > best {
		best = tri
	}
	return best
}

// ----------------------------------------------------------------------------
// Helpers

// trigrams returns the set of 3-rune windows of s (whitespace collapsed).
// Strings shorter than three runes yield the string itself as a single gram.
func trigrams(s string) map[string]struct{} {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	out := make(map[string]struct{})
	if len(runes) == 0 {
		return out
	}
	if len(runes) < 3 {
		out[string(runes)] = struct{}{}
		return out
	}
	for i := 0; i+3 <= len(runes); i++ {
		out[string(runes[i:i+3])] = struct{}{}
	}
	return out
}

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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
