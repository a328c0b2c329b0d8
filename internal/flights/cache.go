package flights

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yegors/flightboard/pkg/logger"
)

// CacheKey is the single key the flight batch is stored under
const CacheKey = "flight_tracker_data"

// cacheSlots bounds the number of keys held at once
const cacheSlots = 8

// CachedBatch is the last produced flight batch. It is never mutated after
// being stored; refreshes replace it.
type CachedBatch struct {
	ID        uuid.UUID
	Flights   []FlightRecord
	Source    Source
	CreatedAt time.Time
}

// Expired reports whether the batch is older than ttl at now
func (b *CachedBatch) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(b.CreatedAt) > ttl
}

// Cache is a time-expiring store holding one CachedBatch per key
type Cache struct {
	entries *lru.Cache[string, *CachedBatch]
	ttl     time.Duration
	clock   Clock
	logger  *logger.Logger
}

// NewCache creates a cache whose entries expire after ttl
func NewCache(ttl time.Duration, clock Clock, logger *logger.Logger) (*Cache, error) {
	entries, err := lru.New[string, *CachedBatch](cacheSlots)
	if err != nil {
		return nil, fmt.Errorf("failed to create flight cache: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		entries: entries,
		ttl:     ttl,
		clock:   clock,
		logger:  logger.Named("flight-cache"),
	}, nil
}

// Get returns the batch stored under key if it has not expired.
// Expired batches stay in place until the next Store replaces them.
func (c *Cache) Get(key string) (*CachedBatch, bool) {
	batch, ok := c.entries.Peek(key)
	if !ok {
		return nil, false
	}

	if batch.Expired(c.clock(), c.ttl) {
		c.logger.Debug("Cached flight batch expired",
			logger.String("key", key),
			logger.String("batch_id", batch.ID.String()),
			logger.Time("created_at", batch.CreatedAt))
		return nil, false
	}

	return batch, true
}

// Store replaces whatever is held under key with a new batch
func (c *Cache) Store(key string, flights []FlightRecord, source Source) *CachedBatch {
	batch := &CachedBatch{
		ID:        uuid.New(),
		Flights:   flights,
		Source:    source,
		CreatedAt: c.clock(),
	}
	c.entries.Add(key, batch)

	c.logger.Debug("Flight batch cached",
		logger.String("key", key),
		logger.String("batch_id", batch.ID.String()),
		logger.String("source", string(source)),
		logger.Int("count", len(flights)),
		logger.Time("expires_at", batch.CreatedAt.Add(c.ttl)))

	return batch
}
