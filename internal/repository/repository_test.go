package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskdeck/internal/model"
)

// newTestDB opens a per-test in-memory database. The shared cache keeps
// the database alive for the lifetime of the connection pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestTaskCreateAndFind(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	task := &model.Task{Title: "Water plants", Placement: model.PlacementInbox}
	require.NoError(t, repo.Create(ctx, task))
	require.NotZero(t, task.ID)

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Water plants", found.Title)
	assert.False(t, found.IsCompleted())
}

func TestTaskFindMissingReturnsNil(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))

	found, err := repo.FindByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCreateFromTemplateTolerantOfConflict(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	tplID := uint(7)
	date := "2026-03-01"

	first := &model.Task{Title: "Standup", DueDate: &date, TemplateID: &tplID, Placement: model.PlacementDated}
	inserted, err := repo.CreateFromTemplate(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	// A racing process inserting the same (template, date) key loses
	// silently instead of duplicating the occurrence.
	second := &model.Task{Title: "Standup", DueDate: &date, TemplateID: &tplID, Placement: model.PlacementDated}
	inserted, err = repo.CreateFromTemplate(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	total, _, _, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCreateFromTemplateDistinctDates(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	tplID := uint(7)
	for _, date := range []string{"2026-03-01", "2026-03-02"} {
		d := date
		inserted, err := repo.CreateFromTemplate(ctx, &model.Task{
			Title: "Standup", DueDate: &d, TemplateID: &tplID, Placement: model.PlacementDated,
		})
		require.NoError(t, err)
		assert.True(t, inserted, date)
	}
}

func TestTaskCompleteAndReopen(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	task := &model.Task{Title: "File taxes", Placement: model.PlacementInbox}
	require.NoError(t, repo.Create(ctx, task))

	done := time.Date(2026, 2, 15, 18, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkCompleted(ctx, task, done))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	completed, err := repo.ListCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].IsCompleted())

	require.NoError(t, repo.Reopen(ctx, task))
	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Nil(t, active[0].CompletedAt)
}

func TestTemplateCRUD(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t))
	ctx := context.Background()

	tpl := &model.Template{
		Title:         "Weekly review",
		RecurType:     model.RecurWeekly,
		RecurInterval: 1,
		StartDate:     "2026-02-15",
		Enabled:       true,
	}
	require.NoError(t, repo.Create(ctx, tpl))
	require.NotZero(t, tpl.ID)

	found, err := repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Enabled)

	require.NoError(t, repo.SetEnabled(ctx, tpl, false))
	enabled, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.SetLastGenerated(ctx, tpl, "2026-02-28"))
	found, err = repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastGenerated)
	assert.Equal(t, "2026-02-28", *found.LastGenerated)

	require.NoError(t, repo.Delete(ctx, tpl.ID))
	found, err = repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTemplateDeleteLeavesOccurrences(t *testing.T) {
	db := newTestDB(t)
	tplRepo := NewTemplateRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	tpl := &model.Template{
		Title: "Gym", RecurType: model.RecurDaily, RecurInterval: 1,
		StartDate: "2026-02-15", Enabled: true,
	}
	require.NoError(t, tplRepo.Create(ctx, tpl))

	date := "2026-02-16"
	_, err := taskRepo.CreateFromTemplate(ctx, &model.Task{
		Title: "Gym", DueDate: &date, TemplateID: &tpl.ID, Placement: model.PlacementDated,
	})
	require.NoError(t, err)

	require.NoError(t, tplRepo.Delete(ctx, tpl.ID))

	// The occurrence survives with a dangling template reference.
	active, err := taskRepo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].TemplateID)
	assert.Equal(t, tpl.ID, *active[0].TemplateID)
}
