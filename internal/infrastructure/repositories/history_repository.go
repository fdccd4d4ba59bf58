package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/redis/go-redis/v9"
)

// HistoryRepositoryImpl implements domain.MessageHistory with a Redis
// rolling buffer in front of the durable message table
type HistoryRepositoryImpl struct {
	client   *redis.Client
	messages domain.MessageRepository
	prefix   string
	maxLen   int64
	ttl      time.Duration
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(client *redis.Client, messages domain.MessageRepository, maxLen int, ttl time.Duration) domain.MessageHistory {
	return &HistoryRepositoryImpl{
		client:   client,
		messages: messages,
		prefix:   "buf:",
		maxLen:   int64(maxLen),
		ttl:      ttl,
	}
}

// AppendTurn implements domain.MessageHistory
func (r *HistoryRepositoryImpl) AppendTurn(ctx context.Context, userID, userText, botText string) error {
	if userID == "" {
		return domain.ErrMissingUserID
	}

	for _, e := range []domain.HistoryEntry{
		{Role: domain.RoleUser, Text: userText},
		{Role: domain.RoleAssistant, Text: botText},
	} {
		if e.Text == "" {
			continue
		}
		if err := r.push(ctx, userID, e); err != nil {
			return err
		}
		if r.messages != nil {
			if err := r.messages.Append(ctx, userID, e.Role, e.Text); err != nil {
				return fmt.Errorf("failed to store message: %w", err)
			}
		}
	}
	return nil
}

// FetchRecent implements domain.MessageHistory; entries come back oldest first
func (r *HistoryRepositoryImpl) FetchRecent(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	raw, err := r.client.LRange(ctx, r.prefix+userID, int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 && r.messages != nil {
		return r.messages.FetchLast(ctx, userID, limit)
	}

	out := make([]domain.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *HistoryRepositoryImpl) push(ctx context.Context, userID string, e domain.HistoryEntry) error {
	e.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	key := r.prefix + userID
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -r.maxLen, -1)
	pipe.Expire(ctx, key, r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}
