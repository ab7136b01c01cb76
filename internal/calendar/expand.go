package calendar

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Статус окна в расписании. Закрытое множество значений,
// чтобы обработка проверялась компилятором, а не строками.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusBlocked   SlotStatus = "blocked"
)

// OfferingPolicy — параметры нарезки окон для типа услуги.
// Каждое окно имеет размер SessionMinutes+BreakMinutes.
type OfferingPolicy struct {
	SessionMinutes int
	BreakMinutes   int
	MaxSlotsPerDay int
}

// Дефолтная политика: сессия 60 минут, перерыв 30, не больше 2 окон в день.
func DefaultOfferingPolicy() OfferingPolicy {
	return OfferingPolicy{
		SessionMinutes: 60,
		BreakMinutes:   30,
		MaxSlotsPerDay: 2,
	}
}

// Step — полный шаг окна (сессия + перерыв) в минутах.
func (p OfferingPolicy) Step() int {
	return p.SessionMinutes + p.BreakMinutes
}

// AvailabilityRule — еженедельное правило рабочих часов для одного дня недели.
// Инвариант Start < End проверяется на границе (при сохранении правила).
type AvailabilityRule struct {
	Weekday time.Weekday
	Start   TimeOfDay
	End     TimeOfDay
}

// BlockedSpan — объявленная провайдером недоступность: диапазон дат
// (включительно, From==To для одного дня) плюс интервал времени суток.
type BlockedSpan struct {
	From  time.Time
	To    time.Time
	Start TimeOfDay
	End   TimeOfDay
}

// Covers — попадает ли дата в диапазон [From, To] (по календарным дням).
func (b BlockedSpan) Covers(date time.Time) bool {
	k := dateKey(date)
	return k >= dateKey(b.From) && k <= dateKey(b.To)
}

// BookingSpan — существующее бронирование в терминах движка.
type BookingSpan struct {
	Ref       uuid.UUID
	Date      time.Time
	Start     TimeOfDay
	End       TimeOfDay
	Cancelled bool
}

// TimeSlot — вычисленное окно. Никогда не персистится: результат
// строится заново на каждый запрос.
type TimeSlot struct {
	Date         time.Time  `json:"date"`
	SessionStart TimeOfDay  `json:"sessionStart"`
	SessionEnd   TimeOfDay  `json:"sessionEnd"`
	BreakStart   TimeOfDay  `json:"breakStart"`
	BreakEnd     TimeOfDay  `json:"breakEnd"`
	Status       SlotStatus `json:"status"`
	BookingRef   *uuid.UUID `json:"bookingRef,omitempty"`
}

// ExpandRule разворачивает одно правило на конкретную дату в упорядоченную
// последовательность окон-кандидатов. Курсор двигается шагом
// сессия+перерыв; окно попадает в результат, только если целиком
// (вместе с перерывом) помещается в объявленные часы. Так провайдер,
// открытый 09:00-18:00 при нарезке 60/30, получает старты
// 09:00,10:30,...,16:30 и не получает 17:30 (17:30+90 > 18:00).
func ExpandRule(rule AvailabilityRule, date time.Time, policy OfferingPolicy) []TimeSlot {
	if date.Weekday() != rule.Weekday {
		return nil
	}
	step := policy.Step()
	if step <= 0 || rule.Start >= rule.End {
		return nil
	}

	var out []TimeSlot
	for cursor := rule.Start; cursor.Add(step) <= rule.End; cursor = cursor.Add(step) {
		sessionEnd := cursor.Add(policy.SessionMinutes)
		out = append(out, TimeSlot{
			Date:         DateOnly(date),
			SessionStart: cursor,
			SessionEnd:   sessionEnd,
			BreakStart:   sessionEnd,
			BreakEnd:     cursor.Add(step),
			Status:       SlotStatusAvailable,
		})
	}
	return out
}

// ExpandDay разворачивает все правила, чей день недели совпадает с датой.
// Несколько правил на один день допустимы и независимы: их кандидаты
// конкатенируются и сортируются по началу сессии. Пересекающиеся правила
// дают пересекающихся кандидатов — их разрешают классификатор и дневной
// лимит. День без правил — пустой результат, не ошибка.
func ExpandDay(rules []AvailabilityRule, date time.Time, policy OfferingPolicy) []TimeSlot {
	var out []TimeSlot
	for _, rule := range rules {
		out = append(out, ExpandRule(rule, date, policy)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SessionStart < out[j].SessionStart
	})
	return out
}
