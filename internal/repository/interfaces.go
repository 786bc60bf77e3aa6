package repository

import (
	"context"
	"time"

	"warung-pos/internal/domain/catalog"
	"warung-pos/internal/domain/chat"
	"warung-pos/internal/domain/customer"
	"warung-pos/internal/domain/message"
	"warung-pos/internal/domain/profile"
	"warung-pos/internal/domain/sales"
	"warung-pos/internal/domain/store"
	"warung-pos/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	CreateSession(ctx context.Context, s *user.UserSession) error
	GetSession(ctx context.Context, id uuid.UUID) (user.UserSession, error)
	RevokeSession(ctx context.Context, id uuid.UUID) error
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, p *profile.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]profile.Profile, error)
	List(ctx context.Context) ([]profile.Profile, error)
	Update(ctx context.Context, p profile.Profile) error
	SetOnlineStatus(ctx context.Context, userID uuid.UUID, online bool, lastSeen time.Time) error
}

type ChatRepository interface {
	CreateChat(ctx context.Context, c *chat.Chat) error
	GetChat(ctx context.Context, id uuid.UUID) (chat.Chat, error)
	TouchChat(ctx context.Context, id uuid.UUID, at time.Time) error
	GetUserChats(ctx context.Context, userID uuid.UUID) ([]chat.Chat, error)
	AddParticipant(ctx context.Context, p *chat.Participant) error
	GetParticipant(ctx context.Context, chatID, userID uuid.UUID) (chat.Participant, error)
	GetParticipants(ctx context.Context, chatID uuid.UUID) ([]chat.Participant, error)
	UpdateLastReadAt(ctx context.Context, chatID, userID uuid.UUID, at time.Time) error
	FindDirectChat(ctx context.Context, userA, userB uuid.UUID) (chat.Chat, error)
	UpsertTypingIndicator(ctx context.Context, chatID, userID uuid.UUID, isTyping bool) (chat.TypingIndicator, error)
	GetTypingIndicators(ctx context.Context, chatID uuid.UUID) ([]chat.TypingIndicator, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]message.Message, error)
	GetLatestMessage(ctx context.Context, chatID uuid.UUID) (message.Message, error)
	CountUnread(ctx context.Context, chatID, userID uuid.UUID, since time.Time) (int64, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string, editedAt time.Time) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *catalog.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	List(ctx context.Context, activeOnly bool) ([]catalog.Product, error)
	Search(ctx context.Context, query string) ([]catalog.Product, error)
	Update(ctx context.Context, p catalog.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	LowStock(ctx context.Context) ([]catalog.Product, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (customer.Customer, error)
	List(ctx context.Context) ([]customer.Customer, error)
	Update(ctx context.Context, c customer.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *sales.Transaction) error
	CreateItems(ctx context.Context, items []sales.TransactionItem) error
	GetByID(ctx context.Context, id uuid.UUID) (sales.Transaction, error)
	GetByNumber(ctx context.Context, number string) (sales.Transaction, error)
	GetItems(ctx context.Context, transactionID uuid.UUID) ([]sales.TransactionItem, error)
	List(ctx context.Context, limit int) ([]sales.Transaction, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]sales.Transaction, error)
	ListItemsByDateRange(ctx context.Context, from, to time.Time) ([]sales.TransactionItem, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidAmount float64) error
}

type ReportRepository interface {
	Upsert(ctx context.Context, r *sales.DailyReport) error
	GetByDate(ctx context.Context, reportDate string) (sales.DailyReport, error)
	ListRecent(ctx context.Context, limit int) ([]sales.DailyReport, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (store.Settings, error)
	Upsert(ctx context.Context, s *store.Settings) error
}
