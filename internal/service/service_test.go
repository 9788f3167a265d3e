package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/calendar"
	"taskdeck/internal/repository"
)

// testEnv wires the full service stack over an in-memory database with a
// pinned clock.
type testEnv struct {
	clock     *calendar.Clock
	taskRepo  *repository.TaskRepository
	tplRepo   *repository.TemplateRepository
	tasks     *TaskService
	templates *TemplateService
	generator *GeneratorService
	buckets   *BucketService
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := calendar.NewFixedClock(now)
	taskRepo := repository.NewTaskRepository(db)
	tplRepo := repository.NewTemplateRepository(db)

	return &testEnv{
		clock:     clock,
		taskRepo:  taskRepo,
		tplRepo:   tplRepo,
		tasks:     NewTaskService(taskRepo, clock),
		templates: NewTemplateService(tplRepo, clock),
		generator: NewGeneratorService(tplRepo, taskRepo, clock),
		buckets:   NewBucketService(taskRepo, clock),
	}
}

// 2026-02-15 is a Sunday; 2026-03-02 is a Monday.
var (
	sunday = time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
