package repositories

import (
	"context"
	"sort"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/redis/go-redis/v9"
)

const digestSubscribersKey = "digest:subs"

// SubscriptionRepositoryImpl implements domain.SubscriptionRepository using a Redis set
type SubscriptionRepositoryImpl struct {
	client *redis.Client
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(client *redis.Client) domain.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{client: client}
}

func (r *SubscriptionRepositoryImpl) Subscribe(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrMissingUserID
	}
	return r.client.SAdd(ctx, digestSubscribersKey, userID).Err()
}

func (r *SubscriptionRepositoryImpl) Unsubscribe(ctx context.Context, userID string) error {
	return r.client.SRem(ctx, digestSubscribersKey, userID).Err()
}

func (r *SubscriptionRepositoryImpl) IsSubscribed(ctx context.Context, userID string) (bool, error) {
	return r.client.SIsMember(ctx, digestSubscribersKey, userID).Result()
}

// List returns subscribers in a stable order
func (r *SubscriptionRepositoryImpl) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, digestSubscribersKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
