// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"user_service/internal/feature/users/domain/entity"
	"user_service/internal/feature/users/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Only by-id reads are cached; the
// credential lookups always go to the store so authentication never sees a
// stale password hash.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Save persists the user and invalidates cache entries touched by the write.
func (c *CachingUserRepository) Save(ctx context.Context, user *entity.User) (*entity.User, error) {
	saved, err := c.inner.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	if c.rdb == nil {
		return saved, nil
	}
	// Best effort: don't fail the write if cache invalidation fails
	_ = c.rdb.Del(ctx, c.userKey(saved.ID), c.listKey()).Err()
	return saved, nil
}

// FindByID retrieves a user, checking cache first then falling back to the database.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.userKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindAll retrieves all users, checking cache first then falling back to the database.
func (c *CachingUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindAll(ctx)
	}

	key := c.listKey()

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// DeleteByID removes the user and invalidates its cache entries.
func (c *CachingUserRepository) DeleteByID(ctx context.Context, id uint64) error {
	if err := c.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.userKey(id), c.listKey()).Err()
	return nil
}

// FindByEmail always hits the store; login must see the current password hash.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// ExistsByEmail always hits the store; the result guards registration.
func (c *CachingUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return c.inner.ExistsByEmail(ctx, email)
}

// ExistsByID always hits the store; the result guards deletion.
func (c *CachingUserRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return c.inner.ExistsByID(ctx, id)
}

// userKey generates the cache key for a single user.
func (c *CachingUserRepository) userKey(id uint64) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// listKey generates the cache key for the full user listing.
func (c *CachingUserRepository) listKey() string {
	return c.namespace + ":all"
}
