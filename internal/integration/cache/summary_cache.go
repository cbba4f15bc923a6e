// Package cache implements adapter.SummaryCache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/aggregation"
	"github.com/spendwise/backend/internal/infra/observability"
)

const (
	historyKeyPrefix    = "summary:history:"
	generationKeyPrefix = "summary:gen:"
)

// bucketRecord is the stored form of aggregation.MonthBucket.
type bucketRecord struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// redisSummaryCache implements adapter.SummaryCache.
//
// History entries live under a key that embeds the owner's generation.
// Invalidate increments the generation, so entries written by readers that
// loaded before the increment are never read again and expire on their TTL.
// When the increment itself fails the owner is bypassed locally for one TTL,
// after which every entry that could be stale has expired.
type redisSummaryCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	now     func() time.Time

	mu       sync.Mutex
	bypassed map[uuid.UUID]time.Time
}

// NewRedisSummaryCache creates a Redis-backed summary cache. Entries expire
// after ttl. metrics may be nil.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration, metrics *observability.Metrics) adapter.SummaryCache {
	return &redisSummaryCache{
		client:   client,
		ttl:      ttl,
		metrics:  metrics,
		now:      time.Now,
		bypassed: map[uuid.UUID]time.Time{},
	}
}

func historyKey(ownerID uuid.UUID, gen int64) string {
	return historyKeyPrefix + ownerID.String() + ":" + strconv.FormatInt(gen, 10)
}

func generationKey(ownerID uuid.UUID) string {
	return generationKeyPrefix + ownerID.String()
}

// Generation returns the owner's current generation, seeding it on first use.
// A seed derived from the clock keeps a lost generation key from reviving
// entries written under an earlier counter.
func (c *redisSummaryCache) Generation(ctx context.Context, ownerID uuid.UUID) (int64, bool) {
	if c.isBypassed(ownerID) {
		c.metrics.IncrCacheMiss(observability.CacheSummaryHistory)
		return 0, false
	}

	key := generationKey(ownerID)
	gen, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		if err = c.client.SetNX(ctx, key, c.now().UnixNano(), 0).Err(); err == nil {
			gen, err = c.client.Get(ctx, key).Int64()
		}
	}
	if err != nil {
		slog.Warn("Summary cache generation read failed", "owner_id", ownerID, "error", err)
		c.metrics.IncrCacheMiss(observability.CacheSummaryHistory)
		return 0, false
	}
	return gen, true
}

// GetMonthlyHistory returns the history cached under gen. Errors are logged
// and reported as a miss.
func (c *redisSummaryCache) GetMonthlyHistory(ctx context.Context, ownerID uuid.UUID, gen int64) ([]aggregation.MonthBucket, bool) {
	raw, err := c.client.Get(ctx, historyKey(ownerID, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Summary cache read failed", "owner_id", ownerID, "error", err)
		}
		c.metrics.IncrCacheMiss(observability.CacheSummaryHistory)
		return nil, false
	}

	var records []bucketRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.Warn("Summary cache entry corrupt", "owner_id", ownerID, "error", err)
		c.metrics.IncrCacheMiss(observability.CacheSummaryHistory)
		return nil, false
	}

	history := make([]aggregation.MonthBucket, 0, len(records))
	for _, r := range records {
		history = append(history, aggregation.MonthBucket{
			Year:  r.Year,
			Month: time.Month(r.Month),
			Total: r.Total,
		})
	}

	c.metrics.IncrCacheHit(observability.CacheSummaryHistory)
	return history, true
}

// SetMonthlyHistory stores the owner's history under gen.
func (c *redisSummaryCache) SetMonthlyHistory(ctx context.Context, ownerID uuid.UUID, gen int64, history []aggregation.MonthBucket) {
	if c.isBypassed(ownerID) {
		return
	}

	records := make([]bucketRecord, 0, len(history))
	for _, b := range history {
		records = append(records, bucketRecord{Year: b.Year, Month: int(b.Month), Total: b.Total})
	}

	raw, err := json.Marshal(records)
	if err != nil {
		slog.Warn("Summary cache encode failed", "owner_id", ownerID, "error", err)
		return
	}

	if err := c.client.Set(ctx, historyKey(ownerID, gen), raw, c.ttl).Err(); err != nil {
		slog.Warn("Summary cache write failed", "owner_id", ownerID, "error", err)
	}
}

// Invalidate advances the owner's generation. On failure the owner is
// bypassed until every entry it may still have in Redis has expired.
func (c *redisSummaryCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if err := c.client.Incr(ctx, generationKey(ownerID)).Err(); err != nil {
		slog.Warn("Summary cache invalidation failed, bypassing owner",
			"owner_id", ownerID, "bypass", c.ttl, "error", err)
		c.mu.Lock()
		c.bypassed[ownerID] = c.now().Add(c.ttl)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	delete(c.bypassed, ownerID)
	c.mu.Unlock()
}

func (c *redisSummaryCache) isBypassed(ownerID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	until, ok := c.bypassed[ownerID]
	if !ok {
		return false
	}
	if !c.now().Before(until) {
		delete(c.bypassed, ownerID)
		return false
	}
	return true
}
