package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Ошибки валидации провайдера.
var (
	ErrInvalidProviderID = errors.New("invalid provider id")
	ErrProviderNotFound  = errors.New("provider not found")
	ErrProviderInactive  = errors.New("provider is inactive")
)

// Доменное представление провайдера для проверки на границе.
type ProviderInfo struct {
	ID          uuid.UUID
	DisplayName string
	Active      bool
}

// Источник данных о провайдерах.
// В реале это обёртка над БД, в тестах — мок.
type ProviderStore interface {
	FindProvider(ctx context.Context, id uuid.UUID) (*ProviderInfo, error)
}

// ValidateProvider:
//   - проверяет корректность идентификатора;
//   - вытаскивает провайдера из хранилища;
//   - проверяет, что провайдер активен;
//   - возвращает нормализованный результат или ошибку.
func ValidateProvider(
	ctx context.Context,
	store ProviderStore,
	id uuid.UUID,
) (*ProviderInfo, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidProviderID
	}

	p, err := store.FindProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProviderNotFound
	}

	if !p.Active {
		return nil, ErrProviderInactive
	}

	return p, nil
}
