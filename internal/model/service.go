package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/calendar"
)

// services
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	// Параметры нарезки окон для этого типа услуги.
	// nil означает дефолт (60/30/2).
	SessionMinutes *int `gorm:"type:bigint"`
	BreakMinutes   *int `gorm:"type:bigint"`
	MaxSlotsPerDay *int `gorm:"type:bigint"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигация many2many
	Providers []Provider `gorm:"many2many:provider_services;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (s *Service) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// OfferingPolicy собирает политику услуги, подставляя дефолты
// вместо незаполненных полей.
func (s *Service) OfferingPolicy() calendar.OfferingPolicy {
	policy := calendar.DefaultOfferingPolicy()
	if s == nil {
		return policy
	}
	if s.SessionMinutes != nil && *s.SessionMinutes > 0 {
		policy.SessionMinutes = *s.SessionMinutes
	}
	if s.BreakMinutes != nil && *s.BreakMinutes >= 0 {
		policy.BreakMinutes = *s.BreakMinutes
	}
	if s.MaxSlotsPerDay != nil && *s.MaxSlotsPerDay > 0 {
		policy.MaxSlotsPerDay = *s.MaxSlotsPerDay
	}
	return policy
}

// provider_services — кастомная join-таблица многие-ко-многим.
type ProviderService struct {
	ProviderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID  uuid.UUID `gorm:"type:uuid;primaryKey"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service  *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
