package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"warung-pos/internal/domain/message"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"
	"warung-pos/pkg/events"

	"github.com/google/uuid"
)

const maxMessageLength = 4000

type MessageService struct {
	messageRepo repository.MessageRepository
	chatRepo    repository.ChatRepository
	profiles    *ProfileService
	publisher   events.Publisher
}

func NewMessageService(messageRepo repository.MessageRepository, chatRepo repository.ChatRepository, profiles *ProfileService, publisher events.Publisher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		profiles:    profiles,
		publisher:   publisher,
	}
}

type SendMessageInput struct {
	ChatID      uuid.UUID
	SenderID    uuid.UUID
	Content     string
	MessageType string
	FileURL     string
	FileName    string
	IsImage     bool
	ReplyTo     *uuid.UUID
}

// MessageView is a message joined with its sender's display snapshot.
type MessageView struct {
	Message message.Message `json:"message"`
	Sender  SenderView      `json:"sender"`
}

type SenderView struct {
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// Send persists a message and fans it out. File and voice messages get a
// caption derived from the attachment when no content was given.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (message.Message, error) {
	if _, err := s.chatRepo.GetParticipant(ctx, in.ChatID, in.SenderID); err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return message.Message{}, warung_errors.ErrForbidden
		}
		return message.Message{}, err
	}

	content := strings.TrimSpace(in.Content)
	messageType := in.MessageType
	if messageType == "" {
		messageType = message.TypeText
	}

	switch messageType {
	case message.TypeText:
		if content == "" {
			return message.Message{}, warung_errors.ErrInvalidInput
		}
	case message.TypeFile:
		if in.FileURL == "" {
			return message.Message{}, warung_errors.ErrNotUploaded
		}
		if content == "" {
			content = fileCaption(in.FileName, in.IsImage)
		}
	case message.TypeVoice:
		if in.FileURL == "" {
			return message.Message{}, warung_errors.ErrNotUploaded
		}
		if content == "" {
			content = "🎤 Voice Message"
		}
	default:
		return message.Message{}, warung_errors.ErrInvalidInput
	}

	if len(content) > maxMessageLength {
		return message.Message{}, warung_errors.ErrTooLarge
	}

	if in.ReplyTo != nil {
		parent, err := s.messageRepo.GetByID(ctx, *in.ReplyTo)
		if err != nil {
			return message.Message{}, err
		}
		if parent.ChatID != in.ChatID {
			return message.Message{}, warung_errors.ErrInvalidInput
		}
	}

	now := time.Now()
	msg := &message.Message{
		ID:          uuid.New(),
		ChatID:      in.ChatID,
		SenderID:    in.SenderID,
		Content:     content,
		MessageType: messageType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.FileURL != "" {
		msg.FileURL = sql.NullString{String: in.FileURL, Valid: true}
	}
	if in.ReplyTo != nil {
		msg.ReplyTo = uuid.NullUUID{UUID: *in.ReplyTo, Valid: true}
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return message.Message{}, err
	}

	// Bump the chat so it sorts to the top of everyone's list.
	_ = s.chatRepo.TouchChat(ctx, in.ChatID, now)

	s.publishMessageEvent(ctx, events.EventMessageCreated, *msg)
	return *msg, nil
}

// Edit replaces a message's content. Only the sender may edit, and only text
// messages.
func (s *MessageService) Edit(ctx context.Context, messageID, userID uuid.UUID, content string) (message.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxMessageLength {
		return message.Message{}, warung_errors.ErrInvalidInput
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return message.Message{}, err
	}
	if msg.SenderID != userID {
		return message.Message{}, warung_errors.ErrForbidden
	}
	if msg.MessageType != message.TypeText {
		return message.Message{}, warung_errors.ErrInvalidInput
	}

	now := time.Now()
	if err := s.messageRepo.UpdateContent(ctx, messageID, content, now); err != nil {
		return message.Message{}, err
	}

	msg.Content = content
	msg.EditedAt = sql.NullTime{Time: now, Valid: true}
	msg.UpdatedAt = now

	s.publishMessageEvent(ctx, events.EventMessageUpdated, msg)
	return msg, nil
}

// History returns a chat's messages oldest-first, with sender snapshots
// resolved in one batch.
func (s *MessageService) History(ctx context.Context, chatID, userID uuid.UUID) ([]MessageView, error) {
	if _, err := s.chatRepo.GetParticipant(ctx, chatID, userID); err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return nil, warung_errors.ErrForbidden
		}
		return nil, err
	}

	messages, err := s.messageRepo.GetChatMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.withSenders(ctx, messages)
}

func (s *MessageService) withSenders(ctx context.Context, messages []message.Message) ([]MessageView, error) {
	senderIDs := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		senderIDs = append(senderIDs, m.SenderID)
	}
	snapshots, err := s.profiles.Snapshots(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		view := MessageView{Message: m, Sender: SenderView{UserID: m.SenderID}}
		if snap, ok := snapshots[m.SenderID]; ok {
			view.Sender.FullName = snap.FullName
			view.Sender.AvatarURL = snap.AvatarURL
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *MessageService) publishMessageEvent(ctx context.Context, eventType events.EventType, msg message.Message) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(eventType, &msg.ChatID, msg)
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, EventsChannel, event)
}

func fileCaption(fileName string, isImage bool) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "File"
	}
	if isImage {
		return "📷 " + name
	}
	return "📎 " + name
}
