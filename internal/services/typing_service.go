package services

import (
	"context"
	"errors"

	warungredis "warung-pos/internal/redis"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"
	"warung-pos/pkg/events"

	"github.com/google/uuid"
)

// TypingService mirrors typing flags into Redis for fast reads and into the
// typing_indicators table for clients that poll, then fans the change out as
// an event. Senders are expected to clear their flag after a 2 second
// debounce; the Redis TTL covers clients that vanish mid-keystroke.
type TypingService struct {
	chatRepo  repository.ChatRepository
	presence  *warungredis.PresenceStore
	publisher events.Publisher
}

func NewTypingService(chatRepo repository.ChatRepository, presence *warungredis.PresenceStore, publisher events.Publisher) *TypingService {
	return &TypingService{
		chatRepo:  chatRepo,
		presence:  presence,
		publisher: publisher,
	}
}

func (s *TypingService) SetTyping(ctx context.Context, chatID, userID uuid.UUID, isTyping bool) error {
	if _, err := s.chatRepo.GetParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return warung_errors.ErrForbidden
		}
		return err
	}

	if _, err := s.chatRepo.UpsertTypingIndicator(ctx, chatID, userID, isTyping); err != nil {
		return err
	}
	if s.presence != nil {
		if err := s.presence.TrackTyping(ctx, chatID.String(), userID.String(), isTyping); err != nil {
			return err
		}
	}

	if s.publisher != nil {
		event, err := events.NewEvent(events.EventTypingChanged, &chatID, map[string]interface{}{
			"chat_id":   chatID,
			"user_id":   userID,
			"is_typing": isTyping,
		})
		if err == nil {
			_ = s.publisher.Publish(ctx, EventsChannel, event)
		}
	}
	return nil
}

// TypingUsers returns the user IDs currently typing in a chat, from Redis.
func (s *TypingService) TypingUsers(ctx context.Context, chatID uuid.UUID) ([]string, error) {
	return s.presence.GetTypingUsers(ctx, chatID.String())
}
