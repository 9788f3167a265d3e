package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestMatchesBounds(t *testing.T) {
	tpl := &model.Template{
		RecurType:     model.RecurDaily,
		RecurInterval: 1,
		StartDate:     "2026-03-01",
		EndDate:       strPtr("2026-03-10"),
	}

	assert.False(t, Matches("2026-02-28", tpl), "before start")
	assert.True(t, Matches("2026-03-01", tpl), "start is inclusive")
	assert.True(t, Matches("2026-03-10", tpl), "end is inclusive")
	assert.False(t, Matches("2026-03-11", tpl), "after end")
}

func TestMatchesDaily(t *testing.T) {
	tpl := &model.Template{
		RecurType:     model.RecurDaily,
		RecurInterval: 3,
		StartDate:     "2026-03-01",
	}

	assert.True(t, Matches("2026-03-01", tpl))
	assert.False(t, Matches("2026-03-02", tpl))
	assert.False(t, Matches("2026-03-03", tpl))
	assert.True(t, Matches("2026-03-04", tpl))
	// Interval counting stays anchored across month boundaries.
	assert.True(t, Matches("2026-04-03", tpl)) // 33 days out
	assert.False(t, Matches("2026-04-04", tpl))
}

func TestMatchesWeeklyDayFilter(t *testing.T) {
	// 2026-03-02 is a Monday.
	tpl := &model.Template{
		RecurType:     model.RecurWeekly,
		RecurInterval: 1,
		RecurDays:     strPtr("mon,wed,fri"),
		StartDate:     "2026-03-02",
	}

	week := map[string]bool{
		"2026-03-02": true,  // Mon
		"2026-03-03": false, // Tue
		"2026-03-04": true,  // Wed
		"2026-03-05": false, // Thu
		"2026-03-06": true,  // Fri
		"2026-03-07": false, // Sat
		"2026-03-08": false, // Sun
	}
	for date, want := range week {
		assert.Equal(t, want, Matches(date, tpl), date)
	}
}

func TestMatchesWeeklyInterval(t *testing.T) {
	tpl := &model.Template{
		RecurType:     model.RecurWeekly,
		RecurInterval: 2,
		RecurDays:     strPtr("mon"),
		StartDate:     "2026-03-02",
	}

	assert.True(t, Matches("2026-03-02", tpl))
	assert.False(t, Matches("2026-03-09", tpl), "off week")
	assert.True(t, Matches("2026-03-16", tpl))
	assert.False(t, Matches("2026-03-23", tpl))
}

func TestMatchesWeeklyNoDayFilter(t *testing.T) {
	// Without a weekday filter every date passing the interval check matches.
	tpl := &model.Template{
		RecurType:     model.RecurWeekly,
		RecurInterval: 2,
		StartDate:     "2026-03-02",
	}

	assert.True(t, Matches("2026-03-02", tpl))
	assert.True(t, Matches("2026-03-05", tpl), "same week")
	assert.False(t, Matches("2026-03-09", tpl), "off week")
	assert.True(t, Matches("2026-03-18", tpl))
}

func TestMatchesMonthly(t *testing.T) {
	tpl := &model.Template{
		RecurType:       model.RecurMonthly,
		RecurInterval:   1,
		RecurDayOfMonth: intPtr(15),
		StartDate:       "2026-01-15",
	}

	assert.True(t, Matches("2026-01-15", tpl))
	assert.True(t, Matches("2026-02-15", tpl))
	assert.False(t, Matches("2026-02-14", tpl))
	assert.False(t, Matches("2026-02-16", tpl))
}

func TestMatchesMonthlyDefaultsToStartDay(t *testing.T) {
	tpl := &model.Template{
		RecurType:     model.RecurMonthly,
		RecurInterval: 1,
		StartDate:     "2026-01-07",
	}

	assert.True(t, Matches("2026-02-07", tpl))
	assert.False(t, Matches("2026-02-08", tpl))
}

func TestMatchesMonthlyShortMonthSkips(t *testing.T) {
	tpl := &model.Template{
		RecurType:       model.RecurMonthly,
		RecurInterval:   1,
		RecurDayOfMonth: intPtr(31),
		StartDate:       "2026-01-31",
	}

	assert.True(t, Matches("2026-01-31", tpl))
	assert.True(t, Matches("2026-03-31", tpl))
	// February and April have no 31st: the month is skipped entirely,
	// with no roll to month-end or to the 1st.
	for _, date := range []string{"2026-02-28", "2026-03-01", "2026-04-30", "2026-05-01"} {
		assert.False(t, Matches(date, tpl), date)
	}
}

func TestMatchesMonthlyInterval(t *testing.T) {
	tpl := &model.Template{
		RecurType:       model.RecurMonthly,
		RecurInterval:   2,
		RecurDayOfMonth: intPtr(15),
		StartDate:       "2025-11-15",
	}

	assert.True(t, Matches("2025-11-15", tpl))
	assert.False(t, Matches("2025-12-15", tpl))
	// Month distance keeps counting across the year boundary.
	assert.True(t, Matches("2026-01-15", tpl))
	assert.False(t, Matches("2026-02-15", tpl))
	assert.True(t, Matches("2026-03-15", tpl))
}

func TestMatchesYearly(t *testing.T) {
	tpl := &model.Template{
		RecurType:     model.RecurYearly,
		RecurInterval: 1,
		StartDate:     "2026-06-10",
	}

	assert.True(t, Matches("2026-06-10", tpl))
	assert.True(t, Matches("2027-06-10", tpl))
	assert.False(t, Matches("2027-06-11", tpl))
	assert.False(t, Matches("2027-07-10", tpl))
}

func TestMatchesYearlyInterval(t *testing.T) {
	tpl := &model.Template{
		RecurType:     model.RecurYearly,
		RecurInterval: 2,
		StartDate:     "2026-06-10",
	}

	assert.True(t, Matches("2026-06-10", tpl))
	assert.False(t, Matches("2027-06-10", tpl))
	assert.True(t, Matches("2028-06-10", tpl))
}

func TestMatchesZeroIntervalTreatedAsOne(t *testing.T) {
	tpl := &model.Template{
		RecurType: model.RecurDaily,
		StartDate: "2026-03-01",
	}
	assert.True(t, Matches("2026-03-05", tpl))
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		input        string
		wantType     string
		wantInterval int
	}{
		{"day", model.RecurDaily, 1},
		{"days", model.RecurDaily, 1},
		{"week", model.RecurWeekly, 1},
		{"2 weeks", model.RecurWeekly, 2},
		{"3 Months", model.RecurMonthly, 3},
		{"  YEAR  ", model.RecurYearly, 1},
		{"10 days", model.RecurDaily, 10},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			recurType, interval, err := ParseDescriptor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, recurType)
			assert.Equal(t, tt.wantInterval, interval)
		})
	}
}

func TestParseDescriptorRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "fortnight", "0 days", "-1 week", "2", "two weeks", "1 2 days"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseDescriptor(input)
			require.ErrorIs(t, err, ErrBadDescriptor)
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("Mon, wed,FRI")
	require.NoError(t, err)
	assert.Len(t, days, 3)
	_, hasMon := days[time.Monday]
	_, hasWed := days[time.Wednesday]
	_, hasFri := days[time.Friday]
	assert.True(t, hasMon && hasWed && hasFri)

	_, err = ParseWeekdays("mon,funday")
	require.ErrorIs(t, err, ErrBadDescriptor)
	_, err = ParseWeekdays("")
	require.ErrorIs(t, err, ErrBadDescriptor)
}

func TestNormalizeWeekdays(t *testing.T) {
	got, err := NormalizeWeekdays("fri,MON,wed,mon")
	require.NoError(t, err)
	assert.Equal(t, "mon,wed,fri", got)
}
