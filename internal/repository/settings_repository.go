package repository

import (
	"context"
	"errors"
	"time"

	"warung-pos/internal/domain/store"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresSettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context) (store.Settings, error) {
	var s store.Settings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.Settings{}, warung_errors.ErrNotFound
		}
		return store.Settings{}, err
	}
	return s, nil
}

// Upsert keeps a single settings row, creating it on first save.
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, s *store.Settings) error {
	existing, err := r.Get(ctx)
	if errors.Is(err, warung_errors.ErrNotFound) {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.CreatedAt = time.Now()
		s.UpdatedAt = s.CreatedAt
		return r.db.WithContext(ctx).Create(s).Error
	}
	if err != nil {
		return err
	}

	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(s).Error
}
