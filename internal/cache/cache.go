package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
)

// Cache stores seeded compositions. Only requests whose output is fully
// determined by (genre, seed, bars) are cacheable.
type Cache interface {
	Get(ctx context.Context, key string) (*composer.Composition, bool, error)
	Set(ctx context.Context, key string, c *composer.Composition) error
	Stats() Stats
}

// Stats are hit/miss counters since startup
type Stats struct {
	Backend string  `json:"backend"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

func newStats(backend string, hits, misses int64) Stats {
	s := Stats{Backend: backend, Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// Key derives the cache key for a seeded composition request
func Key(genreID string, seed int64, bars int) string {
	h := sha256.New()
	h.Write([]byte(fmt.Sprintf("%s|%d|%d", genreID, seed, bars)))
	return "composition:" + hex.EncodeToString(h.Sum(nil))
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*composer.Composition, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(context.Context, string, *composer.Composition) error {
	return nil
}

func (NoopCache) Stats() Stats {
	return Stats{Backend: "none"}
}
