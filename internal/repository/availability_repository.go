package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/model"
)

type AvailabilityRepository interface {
	// ListByProvider возвращает еженедельные правила провайдера.
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.AvailabilityEntry, error)
	// Replace атомарно заменяет весь набор правил провайдера.
	Replace(ctx context.Context, providerID uuid.UUID, entries []model.AvailabilityEntry) error
}

type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.AvailabilityEntry, error) {
	var entries []model.AvailabilityEntry
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("weekday ASC, start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormAvailabilityRepository) Replace(ctx context.Context, providerID uuid.UUID, entries []model.AvailabilityEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).
			Delete(&model.AvailabilityEntry{}).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].ProviderID = providerID
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}
