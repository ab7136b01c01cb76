package calendar

// ApplyDailyCap обрезает available-окна одной даты до дневного лимита:
// в хронологическом порядке остаются первые maxPerDay, лишние просто
// выпадают из результата (не перекрашиваются). booked и blocked окна
// лимитом не трогаются — они отражают состояние расписания провайдера
// независимо от квоты предложений.
//
// maxPerDay <= 0 означает отсутствие лимита.
func ApplyDailyCap(slots []TimeSlot, maxPerDay int) []TimeSlot {
	if maxPerDay <= 0 {
		return slots
	}

	out := make([]TimeSlot, 0, len(slots))
	kept := 0
	for _, s := range slots {
		if s.Status == SlotStatusAvailable {
			if kept >= maxPerDay {
				continue
			}
			kept++
		}
		out = append(out, s)
	}
	return out
}
