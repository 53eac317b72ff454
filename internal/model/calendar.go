package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the ISO calendar-day format used for ledger dates.
const DayLayout = "2006-01-02"

const DefaultStartTime = "08:00"

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the weekdays Monday first, the order used for weekly reports.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) IsValid() bool {
	return d.Index() >= 0
}

// Index is the Monday-first position of d in the week, or -1.
func (d Weekday) Index() int {
	for i, w := range Week {
		if w == d {
			return i
		}
	}
	return -1
}

// Time maps d onto the standard library numbering (Sunday = 0).
func (d Weekday) Time() time.Weekday {
	switch d {
	case Sunday:
		return time.Sunday
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	default:
		return time.Monday
	}
}

func (d Weekday) Short() string {
	if !d.IsValid() {
		return string(d)
	}
	return string(d)[:3]
}

func WeekdayOf(t time.Time) Weekday {
	return Week[(int(t.Weekday())+6)%7]
}

func ParseWeekday(raw string) (Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, w := range Week {
		full := strings.ToLower(string(w))
		if s == full || (len(s) >= 3 && strings.HasPrefix(full, s)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
}

type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses a 24h "HH:mm" value.
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses an ISO day in loc.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, strings.TrimSpace(raw), loc)
}

// StartOfDay truncates t to local midnight without crossing DST by duration math.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateRange is an inclusive range of ISO days. ISO days order lexically, so
// the store compares them as strings.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) Contains(day string) bool {
	return day >= r.Start && day <= r.End
}

func SingleDay(t time.Time) DateRange {
	d := DayOf(t)
	return DateRange{Start: d, End: d}
}

// WeekOf returns the Monday..Sunday range containing t.
func WeekOf(t time.Time) DateRange {
	monday := StartOfDay(t).AddDate(0, 0, -WeekdayOf(t).Index())
	return DateRange{Start: DayOf(monday), End: DayOf(monday.AddDate(0, 0, 6))}
}

// WeeksBack returns the range from weeks before t up to t, inclusive.
func WeeksBack(t time.Time, weeks int) DateRange {
	return DateRange{Start: DayOf(t.AddDate(0, 0, -7*weeks)), End: DayOf(t)}
}
