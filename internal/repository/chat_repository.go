package repository

import (
	"context"
	"errors"
	"time"

	"warung-pos/internal/domain/chat"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) CreateChat(ctx context.Context, c *chat.Chat) error {
	res := r.db.WithContext(ctx).Create(c)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresChatRepository) GetChat(ctx context.Context, id uuid.UUID) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Chat{}, warung_errors.ErrNotFound
		}
		return chat.Chat{}, err
	}
	return c, nil
}

func (r *PostgresChatRepository) TouchChat(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&chat.Chat{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}

func (r *PostgresChatRepository) GetUserChats(ctx context.Context, userID uuid.UUID) ([]chat.Chat, error) {
	var chats []chat.Chat
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_participants ON chat_participants.chat_id = chats.id AND chat_participants.user_id = ?", userID).
		Order("chats.updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *PostgresChatRepository) AddParticipant(ctx context.Context, p *chat.Participant) error {
	res := r.db.WithContext(ctx).Create(p)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresChatRepository) GetParticipant(ctx context.Context, chatID, userID uuid.UUID) (chat.Participant, error) {
	var p chat.Participant
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Participant{}, warung_errors.ErrNotFound
		}
		return chat.Participant{}, err
	}
	return p, nil
}

func (r *PostgresChatRepository) GetParticipants(ctx context.Context, chatID uuid.UUID) ([]chat.Participant, error) {
	var participants []chat.Participant
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresChatRepository) UpdateLastReadAt(ctx context.Context, chatID, userID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Participant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("last_read_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}

// FindDirectChat returns the existing two-person chat between userA and
// userB, looked up by the normalized pair key so the winner of a concurrent
// create is found even before its participant rows land.
func (r *PostgresChatRepository) FindDirectChat(ctx context.Context, userA, userB uuid.UUID) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.WithContext(ctx).
		Where("direct_key = ?", chat.DirectKey(userA, userB)).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Chat{}, warung_errors.ErrNotFound
		}
		return chat.Chat{}, err
	}
	return c, nil
}

// UpsertTypingIndicator flips the (chat, user) typing flag, creating the row
// on first use. Concurrent writers are resolved last-write-wins.
func (r *PostgresChatRepository) UpsertTypingIndicator(ctx context.Context, chatID, userID uuid.UUID, isTyping bool) (chat.TypingIndicator, error) {
	now := time.Now()

	res := r.db.WithContext(ctx).
		Model(&chat.TypingIndicator{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Updates(map[string]interface{}{
			"is_typing":  isTyping,
			"updated_at": now,
		})
	if res.Error != nil {
		return chat.TypingIndicator{}, res.Error
	}

	if res.RowsAffected == 0 {
		indicator := chat.TypingIndicator{
			ID:        uuid.New(),
			ChatID:    chatID,
			UserID:    userID,
			IsTyping:  isTyping,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.db.WithContext(ctx).Create(&indicator).Error; err != nil {
			return chat.TypingIndicator{}, err
		}
		return indicator, nil
	}

	var indicator chat.TypingIndicator
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&indicator).Error
	if err != nil {
		return chat.TypingIndicator{}, err
	}
	return indicator, nil
}

func (r *PostgresChatRepository) GetTypingIndicators(ctx context.Context, chatID uuid.UUID) ([]chat.TypingIndicator, error) {
	var indicators []chat.TypingIndicator
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND is_typing = ?", chatID, true).
		Find(&indicators).Error
	if err != nil {
		return nil, err
	}
	return indicators, nil
}
