package domain

import (
	"strconv"
	"strings"
	"time"
)

const clockLayoutDate = "2006-01-02"

// DayHours - часы работы в один день недели
type DayHours struct {
	Open   string `json:"open,omitempty" bson:"open,omitempty"`
	Close  string `json:"close,omitempty" bson:"close,omitempty"`
	Closed bool   `json:"closed" bson:"closed"`
}

// WeeklyHours - расписание по дням недели; nil означает отсутствие записи на день
type WeeklyHours struct {
	Sunday    *DayHours `json:"sunday,omitempty" bson:"sunday,omitempty"`
	Monday    *DayHours `json:"monday,omitempty" bson:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty" bson:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty" bson:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty" bson:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty" bson:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty" bson:"saturday,omitempty"`
}

// ForWeekday возвращает запись для дня недели (0 = воскресенье .. 6 = суббота)
func (w WeeklyHours) ForWeekday(day time.Weekday) *DayHours {
	switch day {
	case time.Sunday:
		return w.Sunday
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	}
	return nil
}

// Days возвращает записи в порядке time.Weekday
func (w WeeklyHours) Days() [7]*DayHours {
	return [7]*DayHours{w.Sunday, w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday}
}

// SpecialHours - переопределение расписания на конкретную дату (YYYY-MM-DD)
type SpecialHours struct {
	Date   string `json:"date" bson:"date"`
	Open   string `json:"open,omitempty" bson:"open,omitempty"`
	Close  string `json:"close,omitempty" bson:"close,omitempty"`
	Closed bool   `json:"closed" bson:"closed"`
	Note   string `json:"note,omitempty" bson:"note,omitempty"`
}

// IsOpenNow решает, открыто ли заведение в момент now.
// Время суток и день недели берутся из локации now, поэтому now должен быть
// уже переведен в часовой пояс записи.
func IsOpenNow(hours WeeklyHours, special []SpecialHours, is24Hours bool, now time.Time) bool {
	if is24Hours {
		return true
	}

	current := now.Hour()*60 + now.Minute()

	date := now.Format(clockLayoutDate)
	for _, sh := range special {
		if sh.Date != date {
			continue
		}
		if sh.Closed {
			return false
		}
		return withinWindow(sh.Open, sh.Close, current)
	}

	day := hours.ForWeekday(now.Weekday())
	if day == nil || day.Closed {
		return false
	}

	return withinWindow(day.Open, day.Close, current)
}

// IsOpenAt - расписание записи в момент now (в часовом поясе loc)
func (s *Service) IsOpenAt(now time.Time, loc *time.Location) bool {
	if loc != nil {
		now = now.In(loc)
	}
	return IsOpenNow(s.Hours, s.SpecialHours, s.Is24Hours, now)
}

// withinWindow: open <= current <= close включительно.
// Интервал через полночь (close < open) открыт, если current >= open или current <= close.
func withinWindow(opensAt, closesAt string, current int) bool {
	openMin, ok := ParseClock(opensAt)
	if !ok {
		return false
	}
	closeMin, ok := ParseClock(closesAt)
	if !ok {
		return false
	}

	if closeMin < openMin {
		return current >= openMin || current <= closeMin
	}
	return openMin <= current && current <= closeMin
}

// ParseClock разбирает "HH:MM" в минуты от начала суток
func ParseClock(value string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found || len(hh) != 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ValidDate - строка в формате YYYY-MM-DD
func ValidDate(value string) bool {
	_, err := time.Parse(clockLayoutDate, value)
	return err == nil
}
