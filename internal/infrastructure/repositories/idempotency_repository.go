package repositories

import (
	"context"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/redis/go-redis/v9"
)

// IdempotencyRepositoryImpl implements domain.IdempotencyRepository with a
// per-user Redis set of recent message ids
type IdempotencyRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(client *redis.Client, ttl time.Duration) domain.IdempotencyRepository {
	return &IdempotencyRepositoryImpl{client: client, prefix: "recent:", ttl: ttl}
}

// AlreadySeen records messageID and reports whether it was recorded before.
// Messages without an id are never treated as duplicates.
func (r *IdempotencyRepositoryImpl) AlreadySeen(ctx context.Context, userID, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}

	key := r.prefix + userID
	pipe := r.client.TxPipeline()
	added := pipe.SAdd(ctx, key, messageID)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return added.Val() == 0, nil
}
