package repositories

import (
	"context"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"gorm.io/gorm"
)

// MessageRepositoryImpl implements domain.MessageRepository using GORM
type MessageRepositoryImpl struct {
	db *gorm.DB
}

// DBMessage represents one stored chat message
type DBMessage struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"column:wa_id;index;size:64;not null"`
	Role      string    `gorm:"size:16;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBMessage) TableName() string {
	return "messages"
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) domain.MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

// Append implements domain.MessageRepository
func (r *MessageRepositoryImpl) Append(ctx context.Context, userID, role, text string) error {
	if userID == "" {
		return domain.ErrMissingUserID
	}
	return r.db.WithContext(ctx).Create(&DBMessage{UserID: userID, Role: role, Text: text}).Error
}

// FetchLast implements domain.MessageRepository; rows come back oldest first
func (r *MessageRepositoryImpl) FetchLast(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	var rows []DBMessage
	err := r.db.WithContext(ctx).
		Where("wa_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.HistoryEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, domain.HistoryEntry{
			Role:      rows[i].Role,
			Text:      rows[i].Text,
			CreatedAt: rows[i].CreatedAt,
		})
	}
	return out, nil
}
