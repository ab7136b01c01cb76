package calendar

import "time"

// ScheduleInput — входные данные движка для одного провайдера.
// Все срезы приходят из внешних хранилищ и внутри не мутируются.
type ScheduleInput struct {
	Rules    []AvailabilityRule
	Blocks   []BlockedSpan
	Bookings []BookingSpan
}

// ComputeRange прогоняет конвейер ExpandDay -> Classify -> ApplyDailyCap
// по каждой дате включительного диапазона [start, end] и склеивает
// результат в порядке дата-затем-время.
//
// Для дат строго раньше today available-окна подавляются: прошлое не
// предлагается, но booked (и blocked) окна остаются видимыми для
// календаря провайдера. Сама today разворачивается как обычно; уже
// прошедшее время внутри today здесь не фильтруется — такая попытка
// бронирования отклоняется позже, на создании.
//
// Корректность диапазона (start <= end, формат дат) — забота вызывающей
// стороны; при start > end цикл просто не даёт ни одной даты.
//
// Функция чистая: одинаковый вход (включая today) даёт одинаковый выход.
func ComputeRange(in ScheduleInput, start, end time.Time, policy OfferingPolicy, today time.Time) []TimeSlot {
	start = DateOnly(start)
	end = DateOnly(end)
	today = DateOnly(today)

	var out []TimeSlot
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		slots := ExpandDay(in.Rules, date, policy)
		if len(slots) == 0 {
			continue
		}
		slots = Classify(slots, in.Blocks, in.Bookings)

		if dateKey(date) < dateKey(today) {
			slots = dropAvailable(slots)
		}
		slots = ApplyDailyCap(slots, policy.MaxSlotsPerDay)

		out = append(out, slots...)
	}
	return out
}

func dropAvailable(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Status == SlotStatusAvailable {
			continue
		}
		out = append(out, s)
	}
	return out
}
