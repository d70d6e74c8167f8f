package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cacheport "github.com/KamcioRamcio/Ani-Tinder/internal/infrastructure/cache/port"
	users "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/domain"
	repository "github.com/KamcioRamcio/Ani-Tinder/internal/pkg/users/repository/port"
)

const userCacheTTL = 5 * time.Minute

// CachedUserRepository decorates a UserRepository with a read-through cache.
// The socket message path resolves sender and receiver on every frame, so
// lookups are served from cache after the first hit. Cache failures are
// treated as misses; the source of truth is always consulted on error.
type CachedUserRepository struct {
	next  repository.UserRepository
	cache cacheport.Cache
}

func NewCachedUserRepository(next repository.UserRepository, cache cacheport.Cache) *CachedUserRepository {
	return &CachedUserRepository{next: next, cache: cache}
}

var _ repository.UserRepository = (*CachedUserRepository)(nil)

func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (users.User, error) {
	key := userCacheKey(id)

	// Misses and transport errors both fall through to the repository.
	if raw, err := r.cache.Get(ctx, key); err == nil {
		var u users.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			return u, nil
		}
	}

	u, err := r.next.GetByID(ctx, id)
	if err != nil {
		return users.User{}, err
	}

	if raw, err := json.Marshal(u); err == nil {
		_ = r.cache.Set(ctx, key, string(raw), userCacheTTL)
	}
	return u, nil
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("users:id:%d", id)
}
