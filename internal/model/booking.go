package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/calendar"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookings
//
// Естественный ключ уникальности — (provider_id, date, start_time) среди
// confirmed-строк; частичный уникальный индекс создаётся в миграции,
// см. migrate.go. Переход confirmed -> cancelled односторонний.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ProviderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceID  *uuid.UUID `gorm:"type:uuid;index"`

	Date      datatypes.Date     `gorm:"type:date;not null;index"`
	StartTime calendar.TimeOfDay `gorm:"type:varchar(5);not null"`
	EndTime   calendar.TimeOfDay `gorm:"type:varchar(5);not null"`

	Status BookingStatus `gorm:"type:varchar(32);not null;index"`

	// Токен для отмены, уходит клиенту в письме.
	CancellationToken uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	CancelledAt *time.Time `gorm:"type:timestamp with time zone"`
	Comment     string     `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Service  *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Span переводит бронирование в представление движка.
func (b Booking) Span() calendar.BookingSpan {
	return calendar.BookingSpan{
		Ref:       b.ID,
		Date:      time.Time(b.Date),
		Start:     b.StartTime,
		End:       b.EndTime,
		Cancelled: b.Status == BookingStatusCancelled,
	}
}

// AppointmentAt — момент начала приёма в бизнес-таймзоне.
func (b Booking) AppointmentAt(loc *time.Location) time.Time {
	d := time.Time(b.Date)
	y, m, day := d.Date()
	return b.StartTime.At(time.Date(y, m, day, 0, 0, 0, 0, loc))
}
