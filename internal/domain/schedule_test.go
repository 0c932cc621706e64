package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-01-01 - понедельник
func monday(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func TestIsOpenNow_MondayWindowBoundaries(t *testing.T) {
	hours := WeeklyHours{
		Monday: &DayHours{Open: "08:00", Close: "22:00"},
	}

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{"one minute before opening", monday(7, 59), false},
		{"at opening", monday(8, 0), true},
		{"midday", monday(13, 30), true},
		{"at closing", monday(22, 0), true},
		{"one minute after closing", monday(22, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOpenNow(hours, nil, false, tt.now))
		})
	}
}

func TestIsOpenNow_24HoursIgnoresTable(t *testing.T) {
	// Понедельника в расписании нет, но флаг 24 часа важнее
	hours := WeeklyHours{Friday: &DayHours{Closed: true}}

	assert.True(t, IsOpenNow(hours, nil, true, monday(3, 0)))
	assert.True(t, IsOpenNow(WeeklyHours{}, nil, true, monday(23, 59)))
	assert.True(t, IsOpenNow(hours, []SpecialHours{{Date: "2024-01-01", Closed: true}}, true, monday(12, 0)))
}

func TestIsOpenNow_MissingOrClosedDay(t *testing.T) {
	assert.False(t, IsOpenNow(WeeklyHours{}, nil, false, monday(12, 0)))

	closed := WeeklyHours{Monday: &DayHours{Open: "08:00", Close: "22:00", Closed: true}}
	assert.False(t, IsOpenNow(closed, nil, false, monday(12, 0)))
}

func TestIsOpenNow_MalformedTimesAreClosed(t *testing.T) {
	tests := []DayHours{
		{Open: "8:00", Close: "22:00"},
		{Open: "08:00", Close: "25:00"},
		{Open: "", Close: "22:00"},
		{Open: "08:00", Close: "late"},
	}

	for _, day := range tests {
		d := day
		assert.False(t, IsOpenNow(WeeklyHours{Monday: &d}, nil, false, monday(12, 0)))
	}
}

func TestIsOpenNow_CrossMidnight(t *testing.T) {
	hours := WeeklyHours{Monday: &DayHours{Open: "20:00", Close: "02:00"}}

	assert.True(t, IsOpenNow(hours, nil, false, monday(20, 0)))
	assert.True(t, IsOpenNow(hours, nil, false, monday(23, 30)))
	assert.True(t, IsOpenNow(hours, nil, false, monday(1, 15)))
	assert.True(t, IsOpenNow(hours, nil, false, monday(2, 0)))
	assert.False(t, IsOpenNow(hours, nil, false, monday(2, 1)))
	assert.False(t, IsOpenNow(hours, nil, false, monday(12, 0)))
}

func TestIsOpenNow_SpecialHoursTakePrecedence(t *testing.T) {
	hours := WeeklyHours{Monday: &DayHours{Open: "08:00", Close: "22:00"}}

	holiday := []SpecialHours{{Date: "2024-01-01", Closed: true, Note: "New year"}}
	assert.False(t, IsOpenNow(hours, holiday, false, monday(12, 0)))

	shortDay := []SpecialHours{
		{Date: "2023-12-31", Closed: true},
		{Date: "2024-01-01", Open: "10:00", Close: "14:00"},
		{Date: "2024-01-01", Closed: true},
	}
	assert.True(t, IsOpenNow(hours, shortDay, false, monday(13, 0)))
	assert.False(t, IsOpenNow(hours, shortDay, false, monday(15, 0)))

	// Даты не совпадают - используется обычное расписание
	other := []SpecialHours{{Date: "2024-01-02", Closed: true}}
	assert.True(t, IsOpenNow(hours, other, false, monday(12, 0)))
}

func TestService_IsOpenAt_UsesRecordTimezone(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)
	svc := &Service{Hours: WeeklyHours{Monday: &DayHours{Open: "08:00", Close: "22:00"}}}

	// 06:30 UTC = 08:30 по Каиру
	now := monday(6, 30)

	assert.False(t, svc.IsOpenAt(now, nil))
	assert.True(t, svc.IsOpenAt(now, cairo))
}

func TestWeeklyHours_ForWeekday(t *testing.T) {
	sunday := &DayHours{Open: "09:00", Close: "17:00"}
	saturday := &DayHours{Closed: true}
	hours := WeeklyHours{Sunday: sunday, Saturday: saturday}

	assert.Same(t, sunday, hours.ForWeekday(time.Sunday))
	assert.Same(t, saturday, hours.ForWeekday(time.Saturday))
	assert.Nil(t, hours.ForWeekday(time.Wednesday))
	assert.Same(t, sunday, hours.Days()[0])
}

func TestParseClock(t *testing.T) {
	minutes, ok := ParseClock("22:01")
	assert.True(t, ok)
	assert.Equal(t, 22*60+1, minutes)

	_, ok = ParseClock("24:00")
	assert.False(t, ok)
	_, ok = ParseClock("7:5")
	assert.False(t, ok)

	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2024-13-01"))
}
