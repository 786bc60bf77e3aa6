package services

import (
	"context"
	"database/sql"
	"time"

	"warung-pos/internal/domain/profile"
	warungredis "warung-pos/internal/redis"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"
	"warung-pos/pkg/events"

	"github.com/google/uuid"
)

// EventsChannel is the pub/sub channel all delta events flow through.
const EventsChannel = "warung:events"

type ProfileService struct {
	profileRepo repository.ProfileRepository
	cache       *warungredis.ProfileCache
	publisher   events.Publisher
}

func NewProfileService(profileRepo repository.ProfileRepository, cache *warungredis.ProfileCache, publisher events.Publisher) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		cache:       cache,
		publisher:   publisher,
	}
}

type UpdateProfileInput struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]profile.Profile, error) {
	return s.profileRepo.List(ctx)
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error) {
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	if in.FullName != nil {
		if *in.FullName == "" {
			return profile.Profile{}, warung_errors.ErrInvalidInput
		}
		p.FullName = *in.FullName
	}
	if in.Phone != nil {
		p.Phone = toNullString(*in.Phone)
	}
	if in.AvatarURL != nil {
		p.AvatarURL = toNullString(*in.AvatarURL)
	}
	p.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, p); err != nil {
		return profile.Profile{}, err
	}

	// Drop the cached snapshot so every instance re-reads the new name and
	// avatar on next render.
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
	s.publishProfileUpdated(ctx, p)

	return p, nil
}

// SetRole changes a user's role. Only admins reach this path; the handler
// enforces that.
func (s *ProfileService) SetRole(ctx context.Context, userID uuid.UUID, role string) (profile.Profile, error) {
	switch role {
	case profile.RoleAdmin, profile.RoleCashier, profile.RoleDeliverer:
	default:
		return profile.Profile{}, warung_errors.ErrInvalidInput
	}

	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}
	p.Role = role
	p.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, p); err != nil {
		return profile.Profile{}, err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
	s.publishProfileUpdated(ctx, p)

	return p, nil
}

// Snapshots returns cached display snapshots for the given users, fetching
// misses from the database in one batched query.
func (s *ProfileService) Snapshots(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]warungredis.CachedProfile, error) {
	result := make(map[uuid.UUID]warungredis.CachedProfile, len(userIDs))
	var misses []uuid.UUID

	for _, id := range userIDs {
		if _, seen := result[id]; seen {
			continue
		}
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, id)
			if err == nil && cached != nil {
				result[id] = *cached
				continue
			}
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return result, nil
	}

	profiles, err := s.profileRepo.GetByUserIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		snapshot := warungredis.CachedProfile{
			UserID:   p.UserID,
			FullName: p.FullName,
			Role:     p.Role,
		}
		if p.AvatarURL.Valid {
			snapshot.AvatarURL = p.AvatarURL.String
		}
		result[p.UserID] = snapshot
		if s.cache != nil {
			_ = s.cache.Set(ctx, snapshot)
		}
	}
	return result, nil
}

func (s *ProfileService) publishProfileUpdated(ctx context.Context, p profile.Profile) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(events.EventProfileUpdated, nil, map[string]interface{}{
		"user_id":    p.UserID,
		"full_name":  p.FullName,
		"avatar_url": nullStringValue(p.AvatarURL),
		"role":       p.Role,
	})
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, EventsChannel, event)
}

func nullStringValue(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
