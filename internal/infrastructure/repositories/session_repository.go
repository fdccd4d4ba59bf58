package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/redis/go-redis/v9"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "sess:",
		ttl:    ttl,
	}
}

// Find implements domain.SessionRepository
func (r *SessionRepositoryImpl) Find(ctx context.Context, userID string) (*domain.Profile, error) {
	data, err := r.client.Get(ctx, r.prefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		// A corrupt session is treated as absent
		r.client.Del(ctx, r.prefix+userID)
		return nil, domain.ErrSessionNotFound
	}
	profile.UserID = userID
	return &profile, nil
}

// Save implements domain.SessionRepository; every save refreshes the TTL
func (r *SessionRepositoryImpl) Save(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return domain.ErrMissingUserID
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.prefix+profile.UserID, data, r.ttl).Err()
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.prefix+userID).Err()
}
