package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clinicbook/appointment-platform/internal/cache"
	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/model"
	"github.com/clinicbook/appointment-platform/internal/notify"
	"github.com/clinicbook/appointment-platform/internal/repository"
)

var (
	// Запрошенный слот больше не свободен. Ожидаемая ошибка: вызывающая
	// сторона перезапрашивает доступность и предлагает другой слот,
	// автоматических ретраев нет.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// Попытка бронирования на уже прошедшее время.
	ErrPastSlot = errors.New("slot is in the past")
)

// ReserveRequest — запрос на бронирование. EndTime клиенту не доверяется:
// конец сессии всегда считается из политики услуги.
type ReserveRequest struct {
	ProviderID uuid.UUID
	ServiceID  *uuid.UUID
	Date       time.Time // полночь бизнес-таймзоны
	StartTime  calendar.TimeOfDay
	Comment    string
}

// BookingService — создание и отмена бронирований.
type BookingService struct {
	schedule     *ScheduleService
	bookingRepo  repository.BookingRepository
	eventRepo    repository.EventRepository
	cancellation calendar.CancellationPolicy
	publisher    notify.EventPublisher
	slotCache    *cache.SlotCache // nil, если кэш выключен

	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewBookingService(
	schedule *ScheduleService,
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	cancellation calendar.CancellationPolicy,
	publisher notify.EventPublisher,
	slotCache *cache.SlotCache,
	logger *zap.Logger,
	loc *time.Location,
	now func() time.Time,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = notify.NoopPublisher{}
	}
	return &BookingService{
		schedule:     schedule,
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		cancellation: cancellation,
		publisher:    publisher,
		slotCache:    slotCache,
		logger:       logger,
		loc:          loc,
		now:          now,
	}
}

// Reserve атомарно резервирует слот. Валидация (время не в прошлом,
// слот действительно предлагается) идёт до гарда; сам гард — это
// условная вставка под частичным уникальным индексом, конфликт
// приходит как gorm.ErrDuplicatedKey и наружу уходит ErrSlotUnavailable.
func (s *BookingService) Reserve(ctx context.Context, req ReserveRequest) (*model.Booking, error) {
	date := calendar.DateOnly(req.Date.In(s.loc))
	if !req.StartTime.Valid() {
		return nil, calendar.ErrInvalidTimeOfDay
	}

	appointmentAt := req.StartTime.At(date)
	if !appointmentAt.After(s.now().In(s.loc)) {
		return nil, ErrPastSlot
	}

	// Запрошенное время должно совпадать с предлагаемым available-окном:
	// это закрывает блокировки, чужие бронирования, дневной лимит и
	// произвольные времена мимо сетки.
	slots, err := s.schedule.GetSlots(ctx, req.ProviderID, req.ServiceID, date, date)
	if err != nil {
		return nil, err
	}
	var offered *calendar.TimeSlot
	for i := range slots {
		if slots[i].SessionStart == req.StartTime && slots[i].Status == calendar.SlotStatusAvailable {
			offered = &slots[i]
			break
		}
	}
	if offered == nil {
		return nil, ErrSlotUnavailable
	}

	booking := &model.Booking{
		ProviderID:        req.ProviderID,
		ServiceID:         req.ServiceID,
		Date:              datatypes.Date(date),
		StartTime:         offered.SessionStart,
		EndTime:           offered.SessionEnd,
		CancellationToken: uuid.New(),
		Comment:           req.Comment,
	}

	if err := s.bookingRepo.CreateConfirmed(ctx, booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if s.slotCache != nil {
		s.slotCache.Invalidate(req.ProviderID)
	}
	s.recordEvent(ctx, model.EventTypeBookingCreated, booking)

	s.logger.Info("booking.created",
		zap.String("bookingId", booking.ID.String()),
		zap.String("providerId", booking.ProviderID.String()),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("startTime", booking.StartTime.String()),
	)
	return booking, nil
}

// Cancel отменяет бронирование по токену. Повторная отмена детерминированно
// возвращает calendar.ErrAlreadyCancelled, нарушение окна предупреждения —
// calendar.ErrNoticeWindow. Переход статуса односторонний.
func (s *BookingService) Cancel(ctx context.Context, token uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	alreadyCancelled := booking.Status == model.BookingStatusCancelled
	if err := s.cancellation.Allow(booking.AppointmentAt(s.loc), now, alreadyCancelled); err != nil {
		return nil, err
	}

	ok, err := s.bookingRepo.Cancel(ctx, booking.ID, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !ok {
		// Гонка двух отмен: статус успел смениться после чтения.
		return nil, calendar.ErrAlreadyCancelled
	}

	booking.Status = model.BookingStatusCancelled
	cancelledAt := now.UTC()
	booking.CancelledAt = &cancelledAt

	if s.slotCache != nil {
		s.slotCache.Invalidate(booking.ProviderID)
	}
	s.recordEvent(ctx, model.EventTypeBookingCancelled, booking)

	s.logger.Info("booking.cancelled",
		zap.String("bookingId", booking.ID.String()),
		zap.String("providerId", booking.ProviderID.String()),
	)
	return booking, nil
}

// GetByToken возвращает бронирование по токену отмены.
func (s *BookingService) GetByToken(ctx context.Context, token uuid.UUID) (*model.Booking, error) {
	return s.bookingRepo.GetByToken(ctx, token)
}

// recordEvent пишет аудит и публикует событие наружу. Оба действия
// best-effort: бронирование уже состоялось, сбой коллаборатора его
// не откатывает.
func (s *BookingService) recordEvent(ctx context.Context, eventType model.EventType, booking *model.Booking) {
	details, _ := json.Marshal(map[string]string{
		"date":      time.Time(booking.Date).Format("2006-01-02"),
		"startTime": booking.StartTime.String(),
		"endTime":   booking.EndTime.String(),
	})

	event := &model.Event{
		EventType:  eventType,
		ProviderID: &booking.ProviderID,
		BookingID:  &booking.ID,
		Details:    details,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Warn("booking.event.store_failed",
			zap.String("bookingId", booking.ID.String()),
			zap.Error(err),
		)
	}

	err := s.publisher.PublishBookingEvent(ctx, notify.BookingEvent{
		Type:       string(eventType),
		BookingID:  booking.ID.String(),
		ProviderID: booking.ProviderID.String(),
		Date:       time.Time(booking.Date).Format("2006-01-02"),
		StartTime:  booking.StartTime.String(),
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("booking.event.publish_failed",
			zap.String("bookingId", booking.ID.String()),
			zap.Error(err),
		)
	}
}
