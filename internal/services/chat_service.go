package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"warung-pos/internal/domain/chat"
	"warung-pos/internal/domain/message"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"
	"warung-pos/pkg/events"

	"github.com/google/uuid"
)

type ChatService struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
	profiles    *ProfileService
	publisher   events.Publisher
}

func NewChatService(chatRepo repository.ChatRepository, messageRepo repository.MessageRepository, profiles *ProfileService, publisher events.Publisher) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		profiles:    profiles,
		publisher:   publisher,
	}
}

// ChatSummary is one row of the chat list: the chat plus everything the list
// view renders without further queries.
type ChatSummary struct {
	Chat        chat.Chat         `json:"chat"`
	DisplayName string            `json:"display_name"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	LastMessage *message.Message  `json:"last_message,omitempty"`
	UnreadCount int64             `json:"unread_count"`
	Members     []ParticipantView `json:"members"`
}

type ParticipantView struct {
	UserID     uuid.UUID  `json:"user_id"`
	FullName   string     `json:"full_name"`
	AvatarURL  string     `json:"avatar_url,omitempty"`
	Role       string     `json:"role"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

// GetOrCreateDirectChat returns the existing direct chat between the two
// users, creating one atomically if none exists yet.
func (s *ChatService) GetOrCreateDirectChat(ctx context.Context, userID, otherUserID uuid.UUID) (chat.Chat, error) {
	if userID == otherUserID {
		return chat.Chat{}, warung_errors.ErrInvalidInput
	}

	existing, err := s.chatRepo.FindDirectChat(ctx, userID, otherUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, warung_errors.ErrNotFound) {
		return chat.Chat{}, err
	}

	now := time.Now()
	newChat := &chat.Chat{
		ID:        uuid.New(),
		ChatType:  chat.TypeDirect,
		DirectKey: sql.NullString{String: chat.DirectKey(userID, otherUserID), Valid: true},
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chatRepo.CreateChat(ctx, newChat); err != nil {
		// Lost the insert race on the pair key: a concurrent request created
		// the chat between our find and create. Adopt the winner's row.
		if errors.Is(err, warung_errors.ErrAlreadyExists) {
			return s.chatRepo.FindDirectChat(ctx, userID, otherUserID)
		}
		return chat.Chat{}, err
	}
	for _, uid := range []uuid.UUID{userID, otherUserID} {
		p := &chat.Participant{
			ID:       uuid.New(),
			ChatID:   newChat.ID,
			UserID:   uid,
			Role:     "member",
			JoinedAt: now,
		}
		if err := s.chatRepo.AddParticipant(ctx, p); err != nil {
			return chat.Chat{}, err
		}
	}

	s.publishChatEvent(ctx, events.EventChatCreated, *newChat)
	return *newChat, nil
}

// CreateGroupChat creates a named group with the creator as admin.
func (s *ChatService) CreateGroupChat(ctx context.Context, creatorID uuid.UUID, name, description string, memberIDs []uuid.UUID) (chat.Chat, error) {
	if strings.TrimSpace(name) == "" {
		return chat.Chat{}, warung_errors.ErrInvalidInput
	}

	now := time.Now()
	newChat := &chat.Chat{
		ID:          uuid.New(),
		Name:        name,
		Description: toNullString(description),
		ChatType:    chat.TypeGroup,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.chatRepo.CreateChat(ctx, newChat); err != nil {
		return chat.Chat{}, err
	}

	role := "admin"
	seen := map[uuid.UUID]bool{}
	for _, uid := range append([]uuid.UUID{creatorID}, memberIDs...) {
		if seen[uid] {
			continue
		}
		seen[uid] = true
		p := &chat.Participant{
			ID:       uuid.New(),
			ChatID:   newChat.ID,
			UserID:   uid,
			Role:     role,
			JoinedAt: now,
		}
		if err := s.chatRepo.AddParticipant(ctx, p); err != nil {
			return chat.Chat{}, err
		}
		role = "member"
	}

	s.publishChatEvent(ctx, events.EventChatCreated, *newChat)
	return *newChat, nil
}

// GetUserChats builds the chat list for a user: last message, unread count
// and member snapshots per chat, with profiles fetched in one batch across
// all chats.
func (s *ChatService) GetUserChats(ctx context.Context, userID uuid.UUID) ([]ChatSummary, error) {
	chats, err := s.chatRepo.GetUserChats(ctx, userID)
	if err != nil {
		return nil, err
	}

	type chatData struct {
		participants []chat.Participant
		lastMessage  *message.Message
	}
	data := make(map[uuid.UUID]chatData, len(chats))
	var allUserIDs []uuid.UUID

	for _, c := range chats {
		participants, err := s.chatRepo.GetParticipants(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		var last *message.Message
		latest, err := s.messageRepo.GetLatestMessage(ctx, c.ID)
		if err == nil {
			last = &latest
		} else if !errors.Is(err, warung_errors.ErrNotFound) {
			return nil, err
		}
		data[c.ID] = chatData{participants: participants, lastMessage: last}
		for _, p := range participants {
			allUserIDs = append(allUserIDs, p.UserID)
		}
	}

	snapshots, err := s.profiles.Snapshots(ctx, allUserIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		d := data[c.ID]
		summary := ChatSummary{Chat: c, LastMessage: d.lastMessage}

		for _, p := range d.participants {
			view := ParticipantView{UserID: p.UserID, Role: p.Role}
			if snap, ok := snapshots[p.UserID]; ok {
				view.FullName = snap.FullName
				view.AvatarURL = snap.AvatarURL
			}
			if p.LastReadAt.Valid {
				t := p.LastReadAt.Time
				view.LastReadAt = &t
			}
			summary.Members = append(summary.Members, view)

			// A participant who has never opened the chat has no read marker
			// and no unread badge yet.
			if p.UserID == userID && p.LastReadAt.Valid {
				count, err := s.messageRepo.CountUnread(ctx, c.ID, userID, p.LastReadAt.Time)
				if err != nil {
					return nil, err
				}
				summary.UnreadCount = count
			}
		}

		summary.DisplayName = c.Name
		if c.ChatType == chat.TypeDirect {
			for _, p := range d.participants {
				if p.UserID == userID {
					continue
				}
				if snap, ok := snapshots[p.UserID]; ok {
					summary.DisplayName = snap.FullName
					summary.AvatarURL = snap.AvatarURL
				}
				break
			}
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// OpenChat marks the chat read for the user and returns its history. The
// read marker is advanced before messages load, so the unread badge clears
// even if the history fetch fails.
func (s *ChatService) OpenChat(ctx context.Context, chatID, userID uuid.UUID) ([]message.Message, error) {
	if _, err := s.chatRepo.GetParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return nil, warung_errors.ErrForbidden
		}
		return nil, err
	}

	if err := s.chatRepo.UpdateLastReadAt(ctx, chatID, userID, time.Now()); err != nil {
		return nil, err
	}
	s.publishParticipantUpdated(ctx, chatID, userID)

	return s.messageRepo.GetChatMessages(ctx, chatID)
}

// MarkRead advances the read marker without loading history.
func (s *ChatService) MarkRead(ctx context.Context, chatID, userID uuid.UUID) error {
	if _, err := s.chatRepo.GetParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return warung_errors.ErrForbidden
		}
		return err
	}
	if err := s.chatRepo.UpdateLastReadAt(ctx, chatID, userID, time.Now()); err != nil {
		return err
	}
	s.publishParticipantUpdated(ctx, chatID, userID)
	return nil
}

func (s *ChatService) GetChat(ctx context.Context, chatID, userID uuid.UUID) (chat.Chat, error) {
	if _, err := s.chatRepo.GetParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return chat.Chat{}, warung_errors.ErrForbidden
		}
		return chat.Chat{}, err
	}
	return s.chatRepo.GetChat(ctx, chatID)
}

func (s *ChatService) GetParticipants(ctx context.Context, chatID uuid.UUID) ([]chat.Participant, error) {
	return s.chatRepo.GetParticipants(ctx, chatID)
}

// IsParticipant reports whether the user belongs to the chat. The hub uses
// this to scope event fan-out.
func (s *ChatService) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) bool {
	_, err := s.chatRepo.GetParticipant(ctx, chatID, userID)
	return err == nil
}

func (s *ChatService) publishChatEvent(ctx context.Context, eventType events.EventType, c chat.Chat) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(eventType, &c.ID, c)
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, EventsChannel, event)
}

func (s *ChatService) publishParticipantUpdated(ctx context.Context, chatID, userID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(events.EventParticipantUpdated, &chatID, map[string]interface{}{
		"chat_id":      chatID,
		"user_id":      userID,
		"last_read_at": time.Now().UTC(),
	})
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, EventsChannel, event)
}
