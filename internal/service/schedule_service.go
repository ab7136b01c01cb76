package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicbook/appointment-platform/internal/cache"
	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/model"
	"github.com/clinicbook/appointment-platform/internal/repository"
)

// ScheduleService считает предлагаемые окна провайдера по запросу.
// Вычисление чистое, весь стейт приходит из репозиториев; "сегодня"
// берётся из инжектированных часов, не из wall-clock напрямую.
type ScheduleService struct {
	providerStore    calendar.ProviderStore
	availabilityRepo repository.AvailabilityRepository
	blockedRepo      repository.BlockedRepository
	bookingRepo      repository.BookingRepository
	serviceRepo      repository.ServiceRepository

	slotCache *cache.SlotCache // nil, если кэш выключен

	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewScheduleService(
	providerStore calendar.ProviderStore,
	availabilityRepo repository.AvailabilityRepository,
	blockedRepo repository.BlockedRepository,
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	slotCache *cache.SlotCache,
	logger *zap.Logger,
	loc *time.Location,
	now func() time.Time,
) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		providerStore:    providerStore,
		availabilityRepo: availabilityRepo,
		blockedRepo:      blockedRepo,
		bookingRepo:      bookingRepo,
		serviceRepo:      serviceRepo,
		slotCache:        slotCache,
		logger:           logger,
		loc:              loc,
		now:              now,
	}
}

// Today — начало текущего календарного дня в бизнес-таймзоне.
func (s *ScheduleService) Today() time.Time {
	return calendar.DateOnly(s.now().In(s.loc))
}

// Location — бизнес-таймзона сервиса.
func (s *ScheduleService) Location() *time.Location {
	return s.loc
}

// ResolvePolicy возвращает политику нарезки: услуги или дефолтную.
func (s *ScheduleService) ResolvePolicy(ctx context.Context, serviceID *uuid.UUID) (calendar.OfferingPolicy, error) {
	if serviceID == nil || *serviceID == uuid.Nil {
		return calendar.DefaultOfferingPolicy(), nil
	}
	svc, err := s.serviceRepo.GetByID(ctx, *serviceID)
	if err != nil {
		return calendar.OfferingPolicy{}, fmt.Errorf("resolve offering policy: %w", err)
	}
	return svc.OfferingPolicy(), nil
}

// GetSlots возвращает окна провайдера за включительный диапазон дат
// [from, to] в порядке дата-затем-время. from и to — полночь в
// бизнес-таймзоне; формат и порядок границ валидирует вызывающая
// сторона, здесь только финальная проверка from <= to.
func (s *ScheduleService) GetSlots(
	ctx context.Context,
	providerID uuid.UUID,
	serviceID *uuid.UUID,
	from, to time.Time,
) ([]calendar.TimeSlot, error) {
	from = calendar.DateOnly(from.In(s.loc))
	to = calendar.DateOnly(to.In(s.loc))
	if from.After(to) {
		return nil, calendar.ErrInvalidDateRange
	}

	if _, err := calendar.ValidateProvider(ctx, s.providerStore, providerID); err != nil {
		return nil, err
	}

	policy, err := s.ResolvePolicy(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	today := s.Today()

	if s.slotCache != nil {
		if slots, ok := s.slotCache.Get(providerID, from, to, today, policy); ok {
			return slots, nil
		}
	}

	input, err := s.loadInput(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}

	slots := calendar.ComputeRange(input, from, to, policy, today)

	if s.slotCache != nil {
		s.slotCache.Store(providerID, from, to, today, policy, slots)
	}

	s.logger.Debug("slots.computed",
		zap.String("providerId", providerID.String()),
		zap.Int("slotsCount", len(slots)),
	)
	return slots, nil
}

func (s *ScheduleService) loadInput(
	ctx context.Context,
	providerID uuid.UUID,
	from, to time.Time,
) (calendar.ScheduleInput, error) {
	entries, err := s.availabilityRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return calendar.ScheduleInput{}, fmt.Errorf("list availability: %w", err)
	}

	blocked, err := s.blockedRepo.ListOverlapping(ctx, providerID, from, to)
	if err != nil {
		return calendar.ScheduleInput{}, fmt.Errorf("list blocked intervals: %w", err)
	}

	bookings, err := s.bookingRepo.ListConfirmedByProviderRange(ctx, providerID, from, to)
	if err != nil {
		return calendar.ScheduleInput{}, fmt.Errorf("list bookings: %w", err)
	}

	input := calendar.ScheduleInput{
		Rules:    make([]calendar.AvailabilityRule, 0, len(entries)),
		Blocks:   make([]calendar.BlockedSpan, 0, len(blocked)),
		Bookings: make([]calendar.BookingSpan, 0, len(bookings)),
	}
	for _, e := range entries {
		input.Rules = append(input.Rules, e.Rule())
	}
	for _, b := range blocked {
		input.Blocks = append(input.Blocks, b.Span())
	}
	for _, b := range bookings {
		input.Bookings = append(input.Bookings, b.Span())
	}
	return input, nil
}

// UpdateAvailability заменяет еженедельные правила провайдера.
// Инварианты записей (weekday 0-6, start < end) проверяются здесь,
// до какой-либо записи в хранилище.
func (s *ScheduleService) UpdateAvailability(
	ctx context.Context,
	providerID uuid.UUID,
	entries []model.AvailabilityEntry,
) error {
	if _, err := calendar.ValidateProvider(ctx, s.providerStore, providerID); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			return fmt.Errorf("%w: weekday %d", calendar.ErrInvalidTimeRange, e.Weekday)
		}
		if !e.StartTime.Valid() || !e.EndTime.Valid() || e.StartTime >= e.EndTime {
			return fmt.Errorf("%w: %s-%s", calendar.ErrInvalidTimeRange, e.StartTime, e.EndTime)
		}
	}
	if err := s.availabilityRepo.Replace(ctx, providerID, entries); err != nil {
		return err
	}
	if s.slotCache != nil {
		s.slotCache.Invalidate(providerID)
	}
	return nil
}

// AddBlockedInterval добавляет блокировку провайдера.
func (s *ScheduleService) AddBlockedInterval(ctx context.Context, interval *model.BlockedInterval) error {
	if _, err := calendar.ValidateProvider(ctx, s.providerStore, interval.ProviderID); err != nil {
		return err
	}
	if !interval.StartTime.Valid() || !interval.EndTime.Valid() || interval.StartTime >= interval.EndTime {
		return fmt.Errorf("%w: %s-%s", calendar.ErrInvalidTimeRange, interval.StartTime, interval.EndTime)
	}
	if time.Time(interval.FromDate).After(time.Time(interval.ToDate)) {
		return calendar.ErrInvalidDateRange
	}
	if err := s.blockedRepo.Create(ctx, interval); err != nil {
		return err
	}
	if s.slotCache != nil {
		s.slotCache.Invalidate(interval.ProviderID)
	}
	return nil
}
