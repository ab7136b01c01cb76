package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/model"
)

type BookingRepository interface {
	// CreateConfirmed вставляет подтверждённое бронирование одной
	// атомарной операцией. Конфликт по (provider_id, date, start_time)
	// среди confirmed-строк возвращается как gorm.ErrDuplicatedKey.
	CreateConfirmed(ctx context.Context, booking *model.Booking) error
	// Получить бронирование по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Получить бронирование по токену отмены.
	GetByToken(ctx context.Context, token uuid.UUID) (*model.Booking, error)
	// Cancel переводит confirmed -> cancelled. Возвращает false, если
	// строка уже не confirmed (повторная отмена).
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// Подтверждённые бронирования провайдера за включительный диапазон дат.
	ListConfirmedByProviderRange(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]model.Booking, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) CreateConfirmed(ctx context.Context, booking *model.Booking) error {
	booking.Status = model.BookingStatusConfirmed
	if booking.CancellationToken == uuid.Nil {
		booking.CancellationToken = uuid.New()
	}
	// Вставка без предварительного чтения: read-then-write под
	// конкурентной нагрузкой — ровно тот дабл-букинг, который
	// закрывает частичный уникальный индекс.
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByToken(ctx context.Context, token uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "cancellation_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, model.BookingStatusConfirmed).
		Updates(map[string]any{
			"status":       model.BookingStatusCancelled,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormBookingRepository) ListConfirmedByProviderRange(
	ctx context.Context,
	providerID uuid.UUID,
	from, to time.Time,
) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("status = ?", model.BookingStatusConfirmed).
		Where("date >= ? AND date <= ?", datatypes.Date(from), datatypes.Date(to)).
		Order("date ASC, start_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
