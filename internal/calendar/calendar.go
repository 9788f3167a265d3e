package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical wire form for calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the canonical wire form for times of day.
	TimeLayout = "15:04"
)

var (
	// ErrUnparseableDate is returned for date input matching no known shape.
	ErrUnparseableDate = errors.New("unparseable date")
	// ErrUnparseableTime is returned for time input matching no known shape.
	ErrUnparseableTime = errors.New("unparseable time")
)

// Clock resolves "now" in a configured timezone. All other date arithmetic
// in this package is pure: once a date string exists, the timezone no
// longer matters.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock builds a Clock for an IANA timezone name. Empty or "Local"
// selects the system timezone.
func NewClock(timezone string) (*Clock, error) {
	if timezone == "" || strings.EqualFold(timezone, "local") {
		return &Clock{loc: time.Local, now: time.Now}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock pins the current instant, for tests.
func NewFixedClock(now time.Time) *Clock {
	return &Clock{loc: now.Location(), now: func() time.Time { return now }}
}

// Now returns the current instant in the configured timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current calendar date.
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// Tomorrow returns the calendar date one day out.
func (c *Clock) Tomorrow() string {
	return c.DaysFromNow(1)
}

// DaysFromNow returns the calendar date n days from today. Negative n
// yields a past date.
func (c *Clock) DaysFromNow(n int) string {
	return AddDays(c.Today(), n)
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ParseDate turns human date input into canonical YYYY-MM-DD form.
// Accepted, case-insensitively: "today", "tomorrow", weekday names
// (next occurrence strictly after today), "next <weekday>" (one week
// further), relative offsets "+Nd"/"+Nw", ISO dates, US "M/D" and
// "M/D/YYYY", and "<month> D[, YYYY]".
func (c *Clock) ParseDate(input string) (string, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnparseableDate)
	}

	switch in {
	case "today":
		return c.Today(), nil
	case "tomorrow":
		return c.Tomorrow(), nil
	}

	if wd, ok := weekdayNames[in]; ok {
		return c.nextWeekday(wd, 0), nil
	}
	if rest, ok := strings.CutPrefix(in, "next "); ok {
		if wd, ok := weekdayNames[strings.TrimSpace(rest)]; ok {
			return c.nextWeekday(wd, 7), nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, input)
	}

	if strings.HasPrefix(in, "+") {
		return c.parseOffset(in)
	}

	if t, err := time.Parse(DateLayout, in); err == nil {
		return t.Format(DateLayout), nil
	}

	if strings.Contains(in, "/") {
		return c.parseSlashDate(in)
	}

	if date, ok := c.parseMonthName(in); ok {
		return date, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnparseableDate, input)
}

// nextWeekday resolves the next calendar date falling on wd, strictly
// after today, shifted by extra additional days.
func (c *Clock) nextWeekday(wd time.Weekday, extra int) string {
	now := c.Now()
	ahead := (int(wd) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return c.DaysFromNow(ahead + extra)
}

func (c *Clock) parseOffset(in string) (string, error) {
	body := strings.TrimPrefix(in, "+")
	if len(body) < 2 {
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, in)
	}
	unit := body[len(body)-1]
	n, err := strconv.Atoi(body[:len(body)-1])
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, in)
	}
	switch unit {
	case 'd':
		return c.DaysFromNow(n), nil
	case 'w':
		return c.DaysFromNow(n * 7), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, in)
	}
}

func (c *Clock) parseSlashDate(in string) (string, error) {
	parts := strings.Split(in, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, in)
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, in)
	}
	year := c.Now().Year()
	if len(parts) == 3 {
		if year, err1 = strconv.Atoi(parts[2]); err1 != nil {
			return "", fmt.Errorf("%w: %q", ErrUnparseableDate, in)
		}
	}
	return buildDate(year, time.Month(month), day)
}

func (c *Clock) parseMonthName(in string) (string, bool) {
	fields := strings.Fields(strings.ReplaceAll(in, ",", " "))
	if len(fields) != 2 && len(fields) != 3 {
		return "", false
	}
	month, ok := monthNames[fields[0]]
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", false
	}
	year := c.Now().Year()
	if len(fields) == 3 {
		if year, err = strconv.Atoi(fields[2]); err != nil {
			return "", false
		}
	}
	date, err := buildDate(year, month, day)
	return date, err == nil
}

// buildDate validates the components instead of letting time.Date
// normalize an overflow like Feb 30 into March.
func buildDate(year int, month time.Month, day int) (string, error) {
	if month < time.January || month > time.December || day < 1 {
		return "", fmt.Errorf("%w: %d-%d-%d", ErrUnparseableDate, year, month, day)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return "", fmt.Errorf("%w: %d-%d-%d", ErrUnparseableDate, year, month, day)
	}
	return t.Format(DateLayout), nil
}

// ParseTime turns "H:MM"/"HH:MM" (24-hour) or "H[:MM](am|pm)" input into
// canonical HH:MM form. "12am" maps to 00:00, "12pm" stays 12:00.
func ParseTime(input string) (string, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnparseableTime)
	}

	meridiem := ""
	if suffix, ok := strings.CutSuffix(in, "am"); ok {
		meridiem, in = "am", strings.TrimSpace(suffix)
	} else if suffix, ok := strings.CutSuffix(in, "pm"); ok {
		meridiem, in = "pm", strings.TrimSpace(suffix)
	}

	hourStr, minuteStr, hasMinute := strings.Cut(in, ":")
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
	}
	minute := 0
	if hasMinute {
		if minute, err = strconv.Atoi(minuteStr); err != nil || len(minuteStr) != 2 {
			return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
		}
	} else if meridiem == "" {
		// Bare "15" without am/pm is ambiguous, reject it.
		return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
	}
	if minute < 0 || minute > 59 {
		return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return "", fmt.Errorf("%w: %q", ErrUnparseableTime, input)
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// FormatDate renders a canonical date for display, special-casing today
// and tomorrow. Dates outside the current year keep the year.
func (c *Clock) FormatDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	switch date {
	case c.Today():
		return "Today"
	case c.Tomorrow():
		return "Tomorrow"
	}
	if t.Year() == c.Now().Year() {
		return t.Format("Mon, Jan 2")
	}
	return t.Format("Mon, Jan 2, 2006")
}

// FormatTime renders a canonical HH:MM for display in 12-hour form.
func FormatTime(hhmm string) string {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return strings.ToLower(t.Format("3:04pm"))
}

// AddDays shifts a canonical date by n days, calendar-correct across
// month and year boundaries.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// DaysBetween returns the signed whole-day distance from a to b.
func DaysBetween(a, b string) int {
	ta, errA := time.Parse(DateLayout, a)
	tb, errB := time.Parse(DateLayout, b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// Weekday returns the weekday of a canonical date.
func Weekday(date string) time.Weekday {
	t, _ := time.Parse(DateLayout, date)
	return t.Weekday()
}

// DayOfMonth returns the day component of a canonical date.
func DayOfMonth(date string) int {
	t, _ := time.Parse(DateLayout, date)
	return t.Day()
}

// YearMonth returns the year and month components of a canonical date.
func YearMonth(date string) (int, time.Month) {
	t, _ := time.Parse(DateLayout, date)
	return t.Year(), t.Month()
}

// EnumerateRange lists count consecutive dates starting at start.
func EnumerateRange(start string, count int) []string {
	if count <= 0 {
		return nil
	}
	t, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil
	}
	dates := make([]string, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, t.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}
