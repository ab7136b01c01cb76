package calendar

import (
	"errors"
	"time"
)

var (
	// Бронирование уже отменено: явный сигнал идемпотентности,
	// а не тихий повторный успех.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	// До приёма осталось меньше требуемого окна предупреждения.
	ErrNoticeWindow = errors.New("notice window violation")
)

// CancellationPolicy — правило отмены: до начала приёма должно оставаться
// не меньше Notice.
type CancellationPolicy struct {
	Notice time.Duration
}

// Дефолтное окно предупреждения — 24 часа.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{Notice: 24 * time.Hour}
}

// Allow решает, можно ли отменить бронирование в момент now.
// Порядок проверок фиксирован: повторная отмена всегда даёт
// ErrAlreadyCancelled, независимо от времени приёма.
func (p CancellationPolicy) Allow(appointmentAt, now time.Time, alreadyCancelled bool) error {
	if alreadyCancelled {
		return ErrAlreadyCancelled
	}
	if appointmentAt.Sub(now) < p.Notice {
		return ErrNoticeWindow
	}
	return nil
}
