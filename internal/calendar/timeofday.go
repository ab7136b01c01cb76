package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// TimeOfDay — время суток в минутах от полуночи ("HH:MM" на границе API).
// Вся слотовая арифметика считается в минутах локального бизнес-времени,
// без привязки к конкретной дате.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay разбирает строку строго вида "09:30".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid — значение лежит в пределах одних суток.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= minutesPerDay
}

// Add возвращает время, сдвинутое на m минут.
func (t TimeOfDay) Add(m int) TimeOfDay {
	return t + TimeOfDay(m)
}

// At собирает полный момент времени: дата + время суток в локации даты.
func (t TimeOfDay) At(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Value/Scan — хранение в БД строкой "HH:MM".
func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeOfDay, int(t))
	}
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeOfDay, src)
	}
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, data)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// overlaps — пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
func overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// DateOnly обнуляет компонент времени, сохраняя локацию.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate разбирает дату "2006-01-02" в указанной локации.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}
	return d, nil
}

// SameDate — совпадение календарных дат (без учёта времени).
func SameDate(a, b time.Time) bool {
	return dateKey(a) == dateKey(b)
}

// dateKey — сортируемый ключ календарной даты, не зависящий от локации.
// Даты из БД приходят в UTC, движок итерирует в бизнес-таймзоне;
// сравнивать моменты напрямую нельзя.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
