// Package recur decides when a recurrence template produces an occurrence.
package recur

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
)

// ErrBadDescriptor is returned for recurrence input matching no known unit.
var ErrBadDescriptor = errors.New("invalid recurrence")

var weekdayCodes = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Matches reports whether tpl is due on date. Pure: no clock, no storage.
func Matches(date string, tpl *model.Template) bool {
	if date < tpl.StartDate {
		return false
	}
	if tpl.EndDate != nil && date > *tpl.EndDate {
		return false
	}

	interval := tpl.RecurInterval
	if interval < 1 {
		interval = 1
	}

	switch tpl.RecurType {
	case model.RecurDaily:
		return calendar.DaysBetween(tpl.StartDate, date)%interval == 0
	case model.RecurWeekly:
		return matchesWeekly(date, tpl, interval)
	case model.RecurMonthly:
		return matchesMonthly(date, tpl, interval)
	case model.RecurYearly:
		return matchesYearly(date, tpl, interval)
	default:
		return false
	}
}

func matchesWeekly(date string, tpl *model.Template, interval int) bool {
	if tpl.RecurDays != nil && *tpl.RecurDays != "" {
		days, err := ParseWeekdays(*tpl.RecurDays)
		if err != nil {
			return false
		}
		if _, ok := days[calendar.Weekday(date)]; !ok {
			return false
		}
	}
	if interval > 1 {
		weeks := calendar.DaysBetween(tpl.StartDate, date) / 7
		return weeks%interval == 0
	}
	return true
}

func matchesMonthly(date string, tpl *model.Template, interval int) bool {
	target := calendar.DayOfMonth(tpl.StartDate)
	if tpl.RecurDayOfMonth != nil {
		target = *tpl.RecurDayOfMonth
	}
	// Months without the target day simply skip: day 31 never fires in
	// April, and never rolls to the 30th or May 1st.
	if calendar.DayOfMonth(date) != target {
		return false
	}
	if interval > 1 {
		startYear, startMonth := calendar.YearMonth(tpl.StartDate)
		year, month := calendar.YearMonth(date)
		months := (year-startYear)*12 + int(month) - int(startMonth)
		return months%interval == 0
	}
	return true
}

func matchesYearly(date string, tpl *model.Template, interval int) bool {
	startYear, startMonth := calendar.YearMonth(tpl.StartDate)
	year, month := calendar.YearMonth(date)
	if month != startMonth || calendar.DayOfMonth(date) != calendar.DayOfMonth(tpl.StartDate) {
		return false
	}
	return (year-startYear)%interval == 0
}

// ParseDescriptor parses the operator-facing recurrence grammar
// "[<integer> ]<unit>[s]", e.g. "day", "2 weeks", "3 Months".
// An omitted integer means 1.
func ParseDescriptor(input string) (recurType string, interval int, err error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	var unit string
	switch len(fields) {
	case 1:
		interval, unit = 1, fields[0]
	case 2:
		interval, err = strconv.Atoi(fields[0])
		if err != nil || interval < 1 {
			return "", 0, fmt.Errorf("%w: bad interval in %q", ErrBadDescriptor, input)
		}
		unit = fields[1]
	default:
		return "", 0, fmt.Errorf("%w: %q", ErrBadDescriptor, input)
	}

	switch strings.TrimSuffix(unit, "s") {
	case "day":
		recurType = model.RecurDaily
	case "week":
		recurType = model.RecurWeekly
	case "month":
		recurType = model.RecurMonthly
	case "year":
		recurType = model.RecurYearly
	default:
		return "", 0, fmt.Errorf("%w: unknown unit %q", ErrBadDescriptor, unit)
	}
	return recurType, interval, nil
}

// ParseWeekdays parses comma-joined 3-letter weekday codes into a set.
func ParseWeekdays(raw string) (map[time.Weekday]struct{}, error) {
	days := make(map[time.Weekday]struct{})
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		wd, ok := weekdayCodes[code]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrBadDescriptor, code)
		}
		days[wd] = struct{}{}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no weekdays in %q", ErrBadDescriptor, raw)
	}
	return days, nil
}

// NormalizeWeekdays canonicalizes a weekday list into stored form
// (lowercase 3-letter codes, Sunday first).
func NormalizeWeekdays(raw string) (string, error) {
	days, err := ParseWeekdays(raw)
	if err != nil {
		return "", err
	}
	order := []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	codes := []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
	var kept []string
	for i, wd := range order {
		if _, ok := days[wd]; ok {
			kept = append(kept, codes[i])
		}
	}
	return strings.Join(kept, ","), nil
}
