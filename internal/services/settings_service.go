package services

import (
	"context"
	"errors"
	"strings"

	"warung-pos/internal/domain/store"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
)

type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

type SettingsInput struct {
	StoreName     string
	StoreAddress  string
	StorePhone    string
	StoreLogo     string
	ReceiptFooter string
	TaxRate       float64
}

// Get returns the store settings, falling back to defaults when no row
// exists yet.
func (s *SettingsService) Get(ctx context.Context) (store.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if errors.Is(err, warung_errors.ErrNotFound) {
		return store.Settings{StoreName: "Warung"}, nil
	}
	if err != nil {
		return store.Settings{}, err
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, updatedBy uuid.UUID, in SettingsInput) (store.Settings, error) {
	if strings.TrimSpace(in.StoreName) == "" {
		return store.Settings{}, warung_errors.ErrInvalidInput
	}
	if in.TaxRate < 0 || in.TaxRate > 100 {
		return store.Settings{}, warung_errors.ErrInvalidInput
	}

	settings := &store.Settings{
		StoreName:     strings.TrimSpace(in.StoreName),
		StoreAddress:  toNullString(in.StoreAddress),
		StorePhone:    toNullString(in.StorePhone),
		StoreLogo:     toNullString(in.StoreLogo),
		ReceiptFooter: toNullString(in.ReceiptFooter),
		TaxRate:       in.TaxRate,
		UpdatedBy:     updatedBy,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return store.Settings{}, err
	}
	return *settings, nil
}
