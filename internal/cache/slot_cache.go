package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/clinicbook/appointment-platform/internal/calendar"
)

// SlotCache — LRU-кэш вычисленных слотов по провайдеру.
//
// Запись помнит диапазон, политику и "сегодня", под которыми считалась:
// запрос попадает в кэш, только если его диапазон целиком внутри
// кэшированного, политика та же и календарный день не сменился
// (от "сегодня" зависит подавление прошлого). Любая мутация
// бронирований провайдера инвалидирует запись.
type SlotCache struct {
	mu     sync.RWMutex
	cache  *lru.Cache[uuid.UUID, *cacheEntry]
	logger *zap.Logger
}

type cacheEntry struct {
	slots  []calendar.TimeSlot
	start  time.Time
	end    time.Time
	today  time.Time
	policy calendar.OfferingPolicy
}

func NewSlotCache(size int, logger *zap.Logger) (*SlotCache, error) {
	c, err := lru.New[uuid.UUID, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &SlotCache{cache: c, logger: logger}, nil
}

func (c *SlotCache) Get(
	providerID uuid.UUID,
	start, end, today time.Time,
	policy calendar.OfferingPolicy,
) ([]calendar.TimeSlot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache.Get(providerID)
	if !exists {
		return nil, false
	}
	if entry.policy != policy || !calendar.SameDate(entry.today, today) {
		return nil, false
	}
	if start.Before(entry.start) || end.After(entry.end) {
		c.logger.Debug("cache.get.date_range_mismatch",
			zap.String("providerId", providerID.String()),
			zap.Time("requestedStart", start),
			zap.Time("requestedEnd", end),
		)
		return nil, false
	}

	out := make([]calendar.TimeSlot, 0, len(entry.slots))
	for _, s := range entry.slots {
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		out = append(out, s)
	}

	c.logger.Debug("cache.get.hit",
		zap.String("providerId", providerID.String()),
		zap.Int("slotsCount", len(out)),
	)
	return out, true
}

func (c *SlotCache) Store(
	providerID uuid.UUID,
	start, end, today time.Time,
	policy calendar.OfferingPolicy,
	slots []calendar.TimeSlot,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(providerID, &cacheEntry{
		slots:  slots,
		start:  start,
		end:    end,
		today:  today,
		policy: policy,
	})
}

func (c *SlotCache) Invalidate(providerID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(providerID)
}
