package services

import (
	"context"
	"time"

	warungredis "warung-pos/internal/redis"
	"warung-pos/internal/repository"
	"warung-pos/pkg/events"

	"github.com/google/uuid"
)

// PresenceService keeps the fast Redis view and the durable profiles columns
// in step, and announces changes as delta events.
type PresenceService struct {
	profileRepo repository.ProfileRepository
	presence    *warungredis.PresenceStore
	publisher   events.Publisher
}

func NewPresenceService(profileRepo repository.ProfileRepository, presence *warungredis.PresenceStore, publisher events.Publisher) *PresenceService {
	return &PresenceService{
		profileRepo: profileRepo,
		presence:    presence,
		publisher:   publisher,
	}
}

// SetOnline is called when a user's first websocket connection registers.
func (s *PresenceService) SetOnline(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	if err := s.presence.SetOnline(ctx, userID.String()); err != nil {
		return err
	}
	if err := s.profileRepo.SetOnlineStatus(ctx, userID, true, now); err != nil {
		return err
	}
	s.publishChange(ctx, userID, true, now)
	return nil
}

// SetOffline is called when a user's last websocket connection unregisters.
func (s *PresenceService) SetOffline(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	if err := s.presence.SetOffline(ctx, userID.String()); err != nil {
		return err
	}
	if err := s.profileRepo.SetOnlineStatus(ctx, userID, false, now); err != nil {
		return err
	}
	s.publishChange(ctx, userID, false, now)
	return nil
}

func (s *PresenceService) GetPresence(ctx context.Context, userID uuid.UUID) (*warungredis.PresenceStatus, error) {
	return s.presence.GetPresence(ctx, userID.String())
}

func (s *PresenceService) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.presence.GetOnlineUsers(ctx)
}

func (s *PresenceService) publishChange(ctx context.Context, userID uuid.UUID, online bool, at time.Time) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(events.EventPresenceChanged, nil, map[string]interface{}{
		"user_id":   userID,
		"is_online": online,
		"last_seen": at.UTC(),
	})
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, EventsChannel, event)
}
