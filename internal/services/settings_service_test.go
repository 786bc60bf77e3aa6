package services

import (
	"context"
	"testing"

	"warung-pos/internal/domain/store"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSettingsService(t *testing.T) (*SettingsService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewSettingsService(repository.NewSettingsRepository(db)), db
}

func TestSettingsDefaultBeforeFirstSave(t *testing.T) {
	svc, _ := newSettingsService(t)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Warung", settings.StoreName)
	assert.Equal(t, float64(0), settings.TaxRate)
}

func TestSettingsUpdateKeepsSingleRow(t *testing.T) {
	svc, db := newSettingsService(t)
	ctx := context.Background()
	admin := uuid.New()

	_, err := svc.Update(ctx, admin, SettingsInput{
		StoreName:     "Warung Bu Darmi",
		StoreAddress:  "Jl. Melati 3",
		ReceiptFooter: "Terima kasih!",
		TaxRate:       10,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, SettingsInput{StoreName: "Warung Darmi Jaya", TaxRate: 11})
	require.NoError(t, err)
	assert.Equal(t, "Warung Darmi Jaya", updated.StoreName)

	var count int64
	require.NoError(t, db.Model(&store.Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Warung Darmi Jaya", got.StoreName)
	assert.Equal(t, float64(11), got.TaxRate)
}

func TestSettingsUpdateValidation(t *testing.T) {
	svc, _ := newSettingsService(t)
	ctx := context.Background()
	admin := uuid.New()

	_, err := svc.Update(ctx, admin, SettingsInput{StoreName: "  "})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)

	_, err = svc.Update(ctx, admin, SettingsInput{StoreName: "Warung", TaxRate: 150})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}
