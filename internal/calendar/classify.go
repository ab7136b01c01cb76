package calendar

// Classify присваивает каждому кандидату статус по данным о блокировках
// и подтверждённых бронированиях этой даты.
//
// Блокировка сравнивается с полным окном [SessionStart, BreakEnd):
// провайдерская недоступность накрывает и перерыв. Бронирование — только
// с [SessionStart, SessionEnd): перерыв — буфер провайдера, а не время
// пациента, и законно может совпасть с буфером соседнего бронирования.
//
// Приоритет: blocked > booked. Отменённые бронирования в проверке
// не участвуют вовсе.
func Classify(candidates []TimeSlot, blocks []BlockedSpan, bookings []BookingSpan) []TimeSlot {
	out := make([]TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, classifyOne(c, blocks, bookings))
	}
	return out
}

func classifyOne(c TimeSlot, blocks []BlockedSpan, bookings []BookingSpan) TimeSlot {
	for _, b := range blocks {
		if b.Covers(c.Date) && overlaps(b.Start, b.End, c.SessionStart, c.BreakEnd) {
			c.Status = SlotStatusBlocked
			c.BookingRef = nil
			return c
		}
	}

	for _, bk := range bookings {
		if bk.Cancelled {
			continue
		}
		if !SameDate(bk.Date, c.Date) {
			continue
		}
		if overlaps(bk.Start, bk.End, c.SessionStart, c.SessionEnd) {
			ref := bk.Ref
			c.Status = SlotStatusBooked
			c.BookingRef = &ref
			return c
		}
	}

	c.Status = SlotStatusAvailable
	c.BookingRef = nil
	return c
}
