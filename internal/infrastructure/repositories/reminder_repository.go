package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const reminderKey = "reminders:zset"

// ReminderRepositoryImpl implements domain.ReminderQueue as a Redis sorted
// set scored by due time
type ReminderRepositoryImpl struct {
	client *redis.Client
}

// NewReminderRepository creates a new reminder queue
func NewReminderRepository(client *redis.Client) domain.ReminderQueue {
	return &ReminderRepositoryImpl{client: client}
}

// Enqueue implements domain.ReminderQueue
func (r *ReminderRepositoryImpl) Enqueue(ctx context.Context, userID, text string, dueUTC int64) error {
	if userID == "" {
		return domain.ErrMissingUserID
	}
	data, err := json.Marshal(domain.Reminder{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
		DueUTC: dueUTC,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}
	return r.client.ZAdd(ctx, reminderKey, redis.Z{Score: float64(dueUTC), Member: data}).Err()
}

// PopDue implements domain.ReminderQueue. A reminder is returned only to the
// caller whose ZREM removed it.
func (r *ReminderRepositoryImpl) PopDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	max := strconv.FormatInt(now.Unix(), 10)
	items, err := r.client.ZRangeByScore(ctx, reminderKey, &redis.ZRangeBy{Min: "0", Max: max}).Result()
	if err != nil {
		return nil, err
	}

	var due []domain.Reminder
	for _, raw := range items {
		removed, err := r.client.ZRem(ctx, reminderKey, raw).Result()
		if err != nil {
			return due, err
		}
		if removed == 0 {
			continue
		}
		var rem domain.Reminder
		if err := json.Unmarshal([]byte(raw), &rem); err != nil {
			continue
		}
		due = append(due, rem)
	}
	return due, nil
}
