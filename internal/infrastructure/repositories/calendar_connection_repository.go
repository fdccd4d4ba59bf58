package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CalendarConnectionRepositoryImpl implements domain.CalendarConnectionRepository using GORM
type CalendarConnectionRepositoryImpl struct {
	db *gorm.DB
}

// DBCalendarConnection links a user to the calendar tool server holding their account
type DBCalendarConnection struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"column:wa_id;uniqueIndex;size:64;not null"`
	ServerURL string `gorm:"size:512;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBCalendarConnection) TableName() string {
	return "calendar_connections"
}

// NewCalendarConnectionRepository creates a new calendar connection repository
func NewCalendarConnectionRepository(db *gorm.DB) domain.CalendarConnectionRepository {
	return &CalendarConnectionRepositoryImpl{db: db}
}

// FindServerURL implements domain.CalendarConnectionRepository
func (r *CalendarConnectionRepositoryImpl) FindServerURL(ctx context.Context, userID string) (string, error) {
	var row DBCalendarConnection
	err := r.db.WithContext(ctx).Where("wa_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrCalendarNotConnected
		}
		return "", err
	}
	return row.ServerURL, nil
}

// Save implements domain.CalendarConnectionRepository
func (r *CalendarConnectionRepositoryImpl) Save(ctx context.Context, userID, serverURL string) error {
	if userID == "" {
		return domain.ErrMissingUserID
	}
	row := &DBCalendarConnection{UserID: userID, ServerURL: serverURL}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wa_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"server_url", "updated_at"}),
	}).Create(row).Error
}

// Delete implements domain.CalendarConnectionRepository
func (r *CalendarConnectionRepositoryImpl) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("wa_id = ?", userID).Delete(&DBCalendarConnection{}).Error
}
