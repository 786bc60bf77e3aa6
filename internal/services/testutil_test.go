package services

import (
	"testing"

	"warung-pos/internal/domain/catalog"
	"warung-pos/internal/domain/chat"
	"warung-pos/internal/domain/customer"
	"warung-pos/internal/domain/message"
	"warung-pos/internal/domain/profile"
	"warung-pos/internal/domain/sales"
	"warung-pos/internal/domain/store"
	"warung-pos/internal/domain/user"
	warungredis "warung-pos/internal/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&user.UserSession{},
		&profile.Profile{},
		&chat.Chat{},
		&chat.Participant{},
		&chat.TypingIndicator{},
		&message.Message{},
		&catalog.Product{},
		&customer.Customer{},
		&sales.Transaction{},
		&sales.TransactionItem{},
		&sales.DailyReport{},
		&store.Settings{},
	))
	return db
}

func newTestRedis(t *testing.T) *goredis.Client {
	t.Helper()

	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func newTestProfileCache(t *testing.T) *warungredis.ProfileCache {
	t.Helper()
	return warungredis.NewProfileCache(newTestRedis(t), 0)
}
