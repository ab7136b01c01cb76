package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider — поставщик услуг (врач, консультант и т.п.).
type Provider struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Имя/отображаемое название в интерфейсе.
	DisplayName string `gorm:"type:varchar(255);not null"`

	// Краткое описание, специализация и т.п.
	Description string `gorm:"type:text"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля для GORM (опционально, но удобно для Preload).
	Services []Service `gorm:"many2many:provider_services;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Availability []AvailabilityEntry `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Blocked      []BlockedInterval   `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Bookings     []Booking           `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (p *Provider) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
