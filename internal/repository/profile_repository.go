package repository

import (
	"context"
	"errors"
	"time"

	"warung-pos/internal/domain/profile"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	res := r.db.WithContext(ctx).Create(p)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	var p profile.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return profile.Profile{}, warung_errors.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]profile.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []profile.Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	var profiles []profile.Profile
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) error {
	res := r.db.WithContext(ctx).Save(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) SetOnlineStatus(ctx context.Context, userID uuid.UUID, online bool, lastSeen time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&profile.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_online":  online,
			"last_seen":  lastSeen,
			"updated_at": lastSeen,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}
