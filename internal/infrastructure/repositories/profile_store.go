package repositories

import (
	"context"
	"errors"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// ProfileStoreImpl implements domain.ProfileStore on top of the session
// cache and the durable profile table
type ProfileStoreImpl struct {
	sessions domain.SessionRepository
	profiles domain.ProfileRepository
}

// NewProfileStore creates a new profile store
func NewProfileStore(sessions domain.SessionRepository, profiles domain.ProfileRepository) domain.ProfileStore {
	return &ProfileStoreImpl{sessions: sessions, profiles: profiles}
}

// Get implements domain.ProfileStore. Unknown users get an empty profile.
func (s *ProfileStoreImpl) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}

	session, err := s.sessions.Find(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}
	durable, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	switch {
	case session == nil && durable == nil:
		return &domain.Profile{UserID: userID}, nil
	case session == nil:
		return durable, nil
	case durable != nil:
		mergeDurable(session, durable)
	}
	return session, nil
}

// Set implements domain.ProfileStore. Durable fields are written once the
// profile is complete.
func (s *ProfileStoreImpl) Set(ctx context.Context, userID string, profile *domain.Profile) error {
	if userID == "" || profile == nil {
		return domain.ErrMissingUserID
	}
	profile.UserID = userID

	if err := s.sessions.Save(ctx, profile); err != nil {
		return err
	}
	if profile.IsComplete() {
		return s.profiles.Upsert(ctx, profile.Durable())
	}
	return nil
}

func mergeDurable(dst, src *domain.Profile) {
	fill := func(d *string, v string) {
		if *d == "" {
			*d = v
		}
	}
	fill(&dst.Name, src.Name)
	fill(&dst.Email, src.Email)
	fill(&dst.City, src.City)
	fill(&dst.Country, src.Country)
	fill(&dst.Timezone, src.Timezone)
	if dst.Language == "" {
		dst.Language = src.Language
	}
}
