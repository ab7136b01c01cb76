package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/model"
)

type BlockedRepository interface {
	// Блокировки провайдера, пересекающиеся с диапазоном дат [from, to].
	ListOverlapping(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]model.BlockedInterval, error)
	// Создать блокировку.
	Create(ctx context.Context, interval *model.BlockedInterval) error
	// Удалить блокировку.
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormBlockedRepository struct {
	db *gorm.DB
}

func NewGormBlockedRepository(db *gorm.DB) *GormBlockedRepository {
	return &GormBlockedRepository{db: db}
}

func (r *GormBlockedRepository) ListOverlapping(
	ctx context.Context,
	providerID uuid.UUID,
	from, to time.Time,
) ([]model.BlockedInterval, error) {
	var intervals []model.BlockedInterval
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("from_date <= ? AND to_date >= ?", datatypes.Date(to), datatypes.Date(from)).
		Order("from_date ASC, start_time ASC").
		Find(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

func (r *GormBlockedRepository) Create(ctx context.Context, interval *model.BlockedInterval) error {
	return r.db.WithContext(ctx).Create(interval).Error
}

func (r *GormBlockedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.BlockedInterval{}, "id = ?", id).Error
}
