package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinicbook/appointment-platform/internal/cache"
	"github.com/clinicbook/appointment-platform/internal/calendar"
	"github.com/clinicbook/appointment-platform/internal/config"
	"github.com/clinicbook/appointment-platform/internal/db"
	"github.com/clinicbook/appointment-platform/internal/handler"
	"github.com/clinicbook/appointment-platform/internal/model"
	"github.com/clinicbook/appointment-platform/internal/notify"
	"github.com/clinicbook/appointment-platform/internal/repository"
	"github.com/clinicbook/appointment-platform/internal/service"
)

func main() {
	// 1. Конфиг из env.
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	// 2. Логгер.
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}

	// 4. Миграции моделей и индекс гарда бронирований.
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 5. Репозитории (реализации на GORM).
	providerRepo := repository.NewGormProviderRepository(gormDB)
	serviceRepo := repository.NewGormServiceRepository(gormDB)
	availabilityRepo := repository.NewGormAvailabilityRepository(gormDB)
	blockedRepo := repository.NewGormBlockedRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	// 6. Кэш слотов (опционально).
	var slotCache *cache.SlotCache
	if cfg.Cache.Enabled {
		slotCache, err = cache.NewSlotCache(cfg.Cache.Size, logger.Named("cache"))
		if err != nil {
			logger.Fatal("init slot cache", zap.Error(err))
		}
	}

	// 7. Публикация событий бронирования (опционально).
	var publisher notify.EventPublisher = notify.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		amqpPublisher, err := notify.NewAmqpPublisher(cfg, logger.Named("notify"))
		if err != nil {
			logger.Fatal("init amqp publisher", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	// 8. Сервисы.
	scheduleSvc := service.NewScheduleService(
		providerRepo,
		availabilityRepo,
		blockedRepo,
		bookingRepo,
		serviceRepo,
		slotCache,
		logger.Named("schedule"),
		loc,
		time.Now,
	)
	bookingSvc := service.NewBookingService(
		scheduleSvc,
		bookingRepo,
		eventRepo,
		calendar.CancellationPolicy{Notice: cfg.NoticeWindow()},
		publisher,
		slotCache,
		logger.Named("booking"),
		loc,
		time.Now,
	)

	// 9. HTTP-сервер.
	router := handler.NewRouter(
		cfg,
		handler.NewScheduleHandler(scheduleSvc, logger.Named("http")),
		handler.NewBookingHandler(bookingSvc, loc, logger.Named("http")),
	)

	addr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	logger.Info("core http server listening", zap.String("addr", addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	// 10. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsLocal() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
