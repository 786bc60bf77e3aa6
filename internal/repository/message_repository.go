package repository

import (
	"context"
	"errors"
	"time"

	"warung-pos/internal/domain/message"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, warung_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

// GetChatMessages returns the full history for a chat, oldest first.
func (r *PostgresMessageRepository) GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) GetLatestMessage(ctx context.Context, chatID uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, warung_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

// CountUnread counts messages from other senders newer than the reader's
// last-read mark.
func (r *PostgresMessageRepository) CountUnread(ctx context.Context, chatID, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("chat_id = ? AND sender_id != ? AND created_at > ?", chatID, userID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string, editedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"edited_at":  editedAt,
			"updated_at": editedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}
