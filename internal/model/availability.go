package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/calendar"
)

// availability_entries — еженедельные рабочие часы провайдера.
// Несколько записей на один день недели допустимы и независимы.
// Инвариант StartTime < EndTime проверяется на границе записи.
type AvailabilityEntry struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ProviderID uuid.UUID `gorm:"type:uuid;not null;index"`

	// День недели 0-6, 0 — воскресенье (совпадает с time.Weekday).
	Weekday int `gorm:"not null"`

	StartTime calendar.TimeOfDay `gorm:"type:varchar(5);not null"`
	EndTime   calendar.TimeOfDay `gorm:"type:varchar(5);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (e *AvailabilityEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Rule переводит запись в правило движка.
func (e AvailabilityEntry) Rule() calendar.AvailabilityRule {
	return calendar.AvailabilityRule{
		Weekday: time.Weekday(e.Weekday),
		Start:   e.StartTime,
		End:     e.EndTime,
	}
}
