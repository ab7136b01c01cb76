package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinicbook/appointment-platform/internal/cache"
	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/model"
	"github.com/clinicbook/appointment-platform/internal/notify"
	"github.com/clinicbook/appointment-platform/internal/repository"
)

// Схема для тестов пишется руками: продакшен-DDL содержит
// постгресовые дефолты, которых SQLite не знает.
var testSchema = []string{
	`CREATE TABLE providers (
		id           text PRIMARY KEY,
		display_name text NOT NULL,
		description  text,
		is_active    integer NOT NULL DEFAULT 1,
		created_at   datetime,
		updated_at   datetime
	)`,
	`CREATE TABLE services (
		id                text PRIMARY KEY,
		name              text NOT NULL,
		description       text,
		session_minutes   integer,
		break_minutes     integer,
		max_slots_per_day integer,
		is_active         integer NOT NULL DEFAULT 1,
		created_at        datetime,
		updated_at        datetime
	)`,
	`CREATE TABLE provider_services (
		provider_id text NOT NULL,
		service_id  text NOT NULL,
		created_at  datetime,
		updated_at  datetime,
		PRIMARY KEY (provider_id, service_id)
	)`,
	`CREATE TABLE availability_entries (
		id          text PRIMARY KEY,
		provider_id text NOT NULL,
		weekday     integer NOT NULL,
		start_time  text NOT NULL,
		end_time    text NOT NULL,
		created_at  datetime,
		updated_at  datetime
	)`,
	`CREATE TABLE blocked_intervals (
		id          text PRIMARY KEY,
		provider_id text NOT NULL,
		from_date   date NOT NULL,
		to_date     date NOT NULL,
		start_time  text NOT NULL,
		end_time    text NOT NULL,
		reason      text,
		created_at  datetime,
		updated_at  datetime
	)`,
	`CREATE TABLE bookings (
		id                 text PRIMARY KEY,
		provider_id        text NOT NULL,
		service_id         text,
		date               date NOT NULL,
		start_time         text NOT NULL,
		end_time           text NOT NULL,
		status             text NOT NULL,
		cancellation_token text NOT NULL UNIQUE,
		cancelled_at       datetime,
		comment            text,
		created_at         datetime,
		updated_at         datetime
	)`,
	`CREATE TABLE events (
		id          text PRIMARY KEY,
		event_type  text NOT NULL,
		created_at  datetime,
		provider_id text,
		booking_id  text,
		details     text
	)`,
	`CREATE UNIQUE INDEX uniq_confirmed_booking
	 ON bookings (provider_id, date, start_time)
	 WHERE status = 'confirmed'`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	// У ":memory:" каждая коннекция пула — отдельная пустая база,
	// поэтому пул ужимается до одной коннекции.
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return db
}

// Фиксированные часы: понедельник 2025-12-01 10:00 UTC.
func fixedClock() time.Time {
	return time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tod(t *testing.T, s string) calendar.TimeOfDay {
	t.Helper()
	v, err := calendar.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

type testEnv struct {
	db *gorm.DB

	providerRepo     *repository.GormProviderRepository
	serviceRepo      *repository.GormServiceRepository
	availabilityRepo *repository.GormAvailabilityRepository
	blockedRepo      *repository.GormBlockedRepository
	bookingRepo      *repository.GormBookingRepository
	eventRepo        *repository.GormEventRepository

	schedule *ScheduleService
	bookings *BookingService

	// Активный провайдер с правилом: понедельник 09:00-17:00.
	provider *model.Provider
}

func newTestEnv(t *testing.T, slotCache *cache.SlotCache) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:               db,
		providerRepo:     repository.NewGormProviderRepository(db),
		serviceRepo:      repository.NewGormServiceRepository(db),
		availabilityRepo: repository.NewGormAvailabilityRepository(db),
		blockedRepo:      repository.NewGormBlockedRepository(db),
		bookingRepo:      repository.NewGormBookingRepository(db),
		eventRepo:        repository.NewGormEventRepository(db),
	}

	logger := zap.NewNop()
	env.schedule = NewScheduleService(
		env.providerRepo,
		env.availabilityRepo,
		env.blockedRepo,
		env.bookingRepo,
		env.serviceRepo,
		slotCache,
		logger,
		time.UTC,
		fixedClock,
	)
	env.bookings = NewBookingService(
		env.schedule,
		env.bookingRepo,
		env.eventRepo,
		calendar.DefaultCancellationPolicy(),
		notify.NoopPublisher{},
		slotCache,
		logger,
		time.UTC,
		fixedClock,
	)

	ctx := context.Background()
	env.provider = &model.Provider{DisplayName: "Dr. Ivanova", IsActive: true}
	if err := env.providerRepo.Create(ctx, env.provider); err != nil {
		t.Fatalf("create provider: %v", err)
	}
	entry := model.AvailabilityEntry{
		ProviderID: env.provider.ID,
		Weekday:    int(time.Monday),
		StartTime:  tod(t, "09:00"),
		EndTime:    tod(t, "17:00"),
	}
	if err := env.db.Create(&entry).Error; err != nil {
		t.Fatalf("create availability: %v", err)
	}

	return env
}

// addService заводит услугу с заданной нарезкой окон.
func (env *testEnv) addService(t *testing.T, session, brk, maxPerDay int) *model.Service {
	t.Helper()
	svc := &model.Service{
		Name:           "Consultation",
		SessionMinutes: &session,
		BreakMinutes:   &brk,
		MaxSlotsPerDay: &maxPerDay,
		IsActive:       true,
	}
	if err := env.serviceRepo.Create(context.Background(), svc); err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc
}

// addProvider заводит дополнительного провайдера без правил.
func (env *testEnv) addProvider(t *testing.T, name string, active bool) *model.Provider {
	t.Helper()
	p := &model.Provider{DisplayName: name, IsActive: active}
	if err := env.providerRepo.Create(context.Background(), p); err != nil {
		t.Fatalf("create provider: %v", err)
	}
	return p
}

// insertConfirmed пишет подтверждённое бронирование напрямую, минуя
// проверки сервиса (нужно для прошлых дат и тесных окон отмены).
func (env *testEnv) insertConfirmed(t *testing.T, providerID uuid.UUID, date time.Time, start, end string) *model.Booking {
	t.Helper()
	b := &model.Booking{
		ProviderID: providerID,
		Date:       datatypes.Date(date),
		StartTime:  tod(t, start),
		EndTime:    tod(t, end),
	}
	if err := env.bookingRepo.CreateConfirmed(context.Background(), b); err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	return b
}

func blockedInterval(t *testing.T, providerID uuid.UUID, from, to time.Time, start, end string) *model.BlockedInterval {
	t.Helper()
	return &model.BlockedInterval{
		ProviderID: providerID,
		FromDate:   datatypes.Date(from),
		ToDate:     datatypes.Date(to),
		StartTime:  tod(t, start),
		EndTime:    tod(t, end),
	}
}

func slotByStart(t *testing.T, slots []calendar.TimeSlot, start string) calendar.TimeSlot {
	t.Helper()
	want := tod(t, start)
	for _, s := range slots {
		if s.SessionStart == want {
			return s
		}
	}
	t.Fatalf("no slot with start %s among %d slots", start, len(slots))
	return calendar.TimeSlot{}
}
