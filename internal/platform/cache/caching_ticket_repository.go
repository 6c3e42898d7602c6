// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"alumni_backend/internal/feature/tickets/domain/entity"
	"alumni_backend/internal/feature/tickets/usecase"
)

// CachingTicketRepository decorates a TicketRepository with Redis caching.
// It caches the admin listing and the row count, which are read far more often
// than they change, and invalidates the whole namespace on every write so that
// a fresh submission or status update is visible immediately.
type CachingTicketRepository struct {
	inner     usecase.TicketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TicketRepository = (*CachingTicketRepository)(nil)

// NewCachingTicketRepository decorates a TicketRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tickets".
func NewCachingTicketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TicketRepository, namespace string) *CachingTicketRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tickets"
	}
	return &CachingTicketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Insert persists a new application and invalidates the listing cache.
func (c *CachingTicketRepository) Insert(ctx context.Context, app *entity.TicketApplication) error {
	if err := c.inner.Insert(ctx, app); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID delegates to the inner repository. Single-row lookups are not cached.
func (c *CachingTicketRepository) FindByID(ctx context.Context, id uint) (*entity.TicketApplication, error) {
	return c.inner.FindByID(ctx, id)
}

// FindByApplicationID delegates to the inner repository.
func (c *CachingTicketRepository) FindByApplicationID(ctx context.Context, code string) (*entity.TicketApplication, error) {
	return c.inner.FindByApplicationID(ctx, code)
}

// List retrieves applications, checking cache first then falling back to the database.
func (c *CachingTicketRepository) List(ctx context.Context, filter usecase.ListFilter) ([]entity.TicketApplication, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.List(ctx, filter)
	}

	key := c.listKey(filter)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.TicketApplication
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// UpdateStatusByID updates the status and invalidates the listing cache.
func (c *CachingTicketRepository) UpdateStatusByID(ctx context.Context, id uint, status entity.Status) (*entity.TicketApplication, error) {
	app, err := c.inner.UpdateStatusByID(ctx, id, status)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return app, nil
}

// UpdateStatusByApplicationID updates the status and invalidates the listing cache.
func (c *CachingTicketRepository) UpdateStatusByApplicationID(ctx context.Context, code string, status entity.Status) (*entity.TicketApplication, error) {
	app, err := c.inner.UpdateStatusByApplicationID(ctx, code, status)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return app, nil
}

// Count retrieves the total row count, checking cache first.
func (c *CachingTicketRepository) Count(ctx context.Context) (int64, error) {
	if c.rdb == nil {
		return c.inner.Count(ctx)
	}

	key := c.namespace + ":count"
	if s, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var n int64
		if err := json.Unmarshal([]byte(s), &n); err == nil {
			return n, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	n, err := c.inner.Count(ctx)
	if err != nil {
		return 0, err
	}
	_ = c.rdb.Set(ctx, key, n, c.ttl).Err()
	return n, nil
}

// listKey generates a cache key for a specific listing query.
func (c *CachingTicketRepository) listKey(filter usecase.ListFilter) string {
	return fmt.Sprintf("%s:list:%s:%s", c.namespace, safe(filter.Status), safe(filter.Search))
}

// invalidate deletes every cache entry in the namespace (best effort).
func (c *CachingTicketRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTicketRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
