package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей календарного ядра.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Provider{},
		&Service{},
		&ProviderService{},
		&AvailabilityEntry{},
		&BlockedInterval{},
		&Booking{},
		&Event{},
	); err != nil {
		return err
	}

	// Гарантия "не больше одного confirmed-бронирования на
	// (провайдер, дата, время)" живёт на уровне хранилища: частичный
	// уникальный индекс + условная вставка. Отменённые строки под
	// индекс не попадают, слот после отмены можно бронировать снова.
	// Синтаксис WHERE поддерживают и Postgres, и SQLite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_confirmed_booking
		 ON bookings (provider_id, date, start_time)
		 WHERE status = 'confirmed'`,
	).Error
}
