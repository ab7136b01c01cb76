package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/model"
)

type ProviderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	Create(ctx context.Context, provider *model.Provider) error
}

type GormProviderRepository struct {
	db *gorm.DB
}

func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

func (r *GormProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	var p model.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProviderRepository) Create(ctx context.Context, provider *model.Provider) error {
	return r.db.WithContext(ctx).Create(provider).Error
}

// FindProvider реализует calendar.ProviderStore поверх БД.
// Отсутствующая строка — это nil без ошибки, интерпретация за валидатором.
func (r *GormProviderRepository) FindProvider(ctx context.Context, id uuid.UUID) (*calendar.ProviderInfo, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &calendar.ProviderInfo{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Active:      p.IsActive,
	}, nil
}
