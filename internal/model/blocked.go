package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/calendar"
)

// blocked_intervals — объявленная провайдером недоступность,
// перекрывающая еженедельные правила. FromDate == ToDate для одного дня.
type BlockedInterval struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ProviderID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Чистые даты без времени, диапазон включительный.
	FromDate datatypes.Date `gorm:"type:date;not null;index"`
	ToDate   datatypes.Date `gorm:"type:date;not null;index"`

	StartTime calendar.TimeOfDay `gorm:"type:varchar(5);not null"`
	EndTime   calendar.TimeOfDay `gorm:"type:varchar(5);not null"`

	// Отпуск, личное и т.п. — только для календаря провайдера.
	Reason string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (b *BlockedInterval) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Span переводит интервал в представление движка.
func (b BlockedInterval) Span() calendar.BlockedSpan {
	return calendar.BlockedSpan{
		From:  time.Time(b.FromDate),
		To:    time.Time(b.ToDate),
		Start: b.StartTime,
		End:   b.EndTime,
	}
}
