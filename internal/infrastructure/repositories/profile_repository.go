package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"gorm.io/gorm"
)

// ProfileRepositoryImpl implements domain.ProfileRepository using GORM
type ProfileRepositoryImpl struct {
	db *gorm.DB
}

// DBProfile represents the database model for a chat user
type DBProfile struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"column:wa_id;uniqueIndex;size:64;not null"`
	Name      string    `gorm:"size:120"`
	Email     string    `gorm:"size:190"`
	City      string    `gorm:"size:120"`
	Country   string    `gorm:"size:120"`
	Timezone  string    `gorm:"column:tz;size:120"`
	Language  string    `gorm:"column:lang;size:5"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBProfile) TableName() string {
	return "users"
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) domain.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// FindByUserID implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var row DBProfile
	err := r.db.WithContext(ctx).Where("wa_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&row), nil
}

// Upsert implements domain.ProfileRepository.
// Empty fields never overwrite stored values.
func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return domain.ErrMissingUserID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DBProfile
		err := tx.Where("wa_id = ?", profile.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(r.domainToDB(profile)).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		set := func(col, v string) {
			if v != "" {
				updates[col] = v
			}
		}
		set("name", profile.Name)
		set("email", profile.Email)
		set("city", profile.City)
		set("country", profile.Country)
		set("tz", profile.Timezone)
		set("lang", string(profile.Language))
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&existing).Updates(updates).Error
	})
}

// domainToDB converts domain profile to database profile
func (r *ProfileRepositoryImpl) domainToDB(p *domain.Profile) *DBProfile {
	return &DBProfile{
		UserID:   p.UserID,
		Name:     p.Name,
		Email:    p.Email,
		City:     p.City,
		Country:  p.Country,
		Timezone: p.Timezone,
		Language: string(p.Language),
	}
}

// dbToDomain converts database profile to domain profile
func (r *ProfileRepositoryImpl) dbToDomain(row *DBProfile) *domain.Profile {
	return &domain.Profile{
		UserID:   row.UserID,
		Name:     row.Name,
		Email:    row.Email,
		City:     row.City,
		Country:  row.Country,
		Timezone: row.Timezone,
		Language: domain.Language(row.Language),
	}
}
