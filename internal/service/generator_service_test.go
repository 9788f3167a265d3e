package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
)

func TestGenerateDailyFillsHorizon(t *testing.T) {
	env := newTestEnv(t, sunday)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{
		Title: "Stretch",
		Every: "day",
	})
	require.NoError(t, err)

	created, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	require.Len(t, created, 14)

	want := calendar.EnumerateRange("2026-02-15", 14)
	for i, task := range created {
		require.NotNil(t, task.DueDate)
		assert.Equal(t, want[i], *task.DueDate)
		assert.Equal(t, "Stretch", task.Title)
		require.NotNil(t, task.TemplateID)
		assert.Equal(t, tpl.ID, *task.TemplateID)
		assert.Equal(t, model.PlacementDated, task.Placement)
	}
}

func TestGenerateWeeklyDayFilter(t *testing.T) {
	env := newTestEnv(t, monday)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{
		Title: "Workout",
		Every: "week",
		Days:  "mon,wed,fri",
	})
	require.NoError(t, err)

	created, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	require.Len(t, created, 6, "3 per week over 2 weeks")

	for _, task := range created {
		wd := calendar.Weekday(*task.DueDate)
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, wd, *task.DueDate)
	}
}

func TestGenerateMonthlyShortMonthProducesNothing(t *testing.T) {
	// April has 30 days; a day-31 rule fires never inside it.
	env := newTestEnv(t, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{
		Title:      "Pay rent",
		Every:      "month",
		DayOfMonth: intPtr(31),
		Start:      "2026-01-31",
	})
	require.NoError(t, err)

	created, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 30)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGenerateMonthlyHitsLongMonth(t *testing.T) {
	env := newTestEnv(t, time.Date(2026, 3, 25, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{
		Title:      "Pay rent",
		Every:      "month",
		DayOfMonth: intPtr(31),
		Start:      "2026-01-31",
	})
	require.NoError(t, err)

	created, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "2026-03-31", *created[0].DueDate)
}

func TestGenerateTwiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t, sunday)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{
		Title: "Stretch",
		Every: "day",
	})
	require.NoError(t, err)

	first, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	require.Len(t, first, 14)

	second, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	assert.Empty(t, second)

	total, _, _, err := env.taskRepo.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(first), total)
}

func TestGenerateRespectsEndDate(t *testing.T) {
	env := newTestEnv(t, sunday)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{
		Title: "Course homework",
		Every: "day",
		End:   "2026-02-18",
	})
	require.NoError(t, err)

	created, err := env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	require.Len(t, created, 4, "today through the inclusive end date")
	for _, task := range created {
		assert.LessOrEqual(t, *task.DueDate, "2026-02-18")
		assert.GreaterOrEqual(t, *task.DueDate, tpl.StartDate)
	}
}

func TestGenerateUnknownOrDisabledIsNoop(t *testing.T) {
	env := newTestEnv(t, sunday)
	ctx := context.Background()

	created, err := env.generator.GenerateForTemplate(ctx, 42, 14)
	require.NoError(t, err)
	assert.Empty(t, created)

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{Title: "Paused", Every: "day"})
	require.NoError(t, err)
	_, err = env.templates.SetEnabled(ctx, tpl.ID, false)
	require.NoError(t, err)

	created, err = env.generator.GenerateForTemplate(ctx, tpl.ID, 14)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGenerateUpdatesAdvisoryMarker(t *testing.T) {
	env := newTestEnv(t, sunday)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, TemplateInput{Title: "Stretch", Every: "day"})
	require.NoError(t, err)

	_, err = env.generator.GenerateForTemplate(ctx, tpl.ID, 5)
	require.NoError(t, err)

	stored, err := env.tplRepo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastGenerated)
	assert.Equal(t, "2026-02-19", *stored.LastGenerated)

	// A second pass creates nothing and leaves the marker untouched.
	_, err = env.generator.GenerateForTemplate(ctx, tpl.ID, 5)
	require.NoError(t, err)
	stored, err = env.tplRepo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-19", *stored.LastGenerated)
}

func TestGenerateAllAggregatesReport(t *testing.T) {
	env := newTestEnv(t, monday)
	ctx := context.Background()

	_, err := env.templates.CreateTemplate(ctx, TemplateInput{Title: "Stretch", Every: "day"})
	require.NoError(t, err)
	_, err = env.templates.CreateTemplate(ctx, TemplateInput{
		Title: "Workout", Every: "week", Days: "mon,wed,fri",
	})
	require.NoError(t, err)
	paused, err := env.templates.CreateTemplate(ctx, TemplateInput{Title: "Paused", Every: "day"})
	require.NoError(t, err)
	_, err = env.templates.SetEnabled(ctx, paused.ID, false)
	require.NoError(t, err)

	report, err := env.generator.GenerateAll(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TemplatesProcessed, "disabled template is not processed")
	assert.Equal(t, 14+6, report.TasksCreated)

	// Re-running the whole horizon is idempotent.
	report, err = env.generator.GenerateAll(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TemplatesProcessed)
	assert.Equal(t, 0, report.TasksCreated)
}
