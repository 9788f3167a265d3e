package service

import (
	"context"
	"sort"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
	"taskdeck/internal/repository"
)

// Buckets is the total, disjoint partition of active tasks.
type Buckets struct {
	Overdue []model.Task            `json:"overdue"`
	Today   []model.Task            `json:"today"`
	Future  map[string][]model.Task `json:"future"` // keyed by due date
	Soon    []model.Task            `json:"soon"`
	Someday []model.Task            `json:"someday"`
	Inbox   []model.Task            `json:"inbox"`
}

// Stats exposes aggregate counts over the whole store.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Soon      int `json:"soon"`
	Someday   int `json:"someday"`
	Inbox     int `json:"inbox"`
}

// BucketService derives display groupings from the live task set.
type BucketService struct {
	taskRepo *repository.TaskRepository
	clock    *calendar.Clock
}

func NewBucketService(taskRepo *repository.TaskRepository, clock *calendar.Clock) *BucketService {
	return &BucketService{taskRepo: taskRepo, clock: clock}
}

// Buckets partitions every active task into exactly one bucket relative
// to today.
func (s *BucketService) Buckets(ctx context.Context) (*Buckets, error) {
	tasks, err := s.taskRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.classify(tasks, s.clock.Today()), nil
}

func (s *BucketService) classify(tasks []model.Task, today string) *Buckets {
	b := &Buckets{Future: make(map[string][]model.Task)}

	for _, task := range tasks {
		switch {
		case task.DueDate != nil && *task.DueDate < today:
			b.Overdue = append(b.Overdue, task)
		case task.DueDate != nil && *task.DueDate == today:
			b.Today = append(b.Today, task)
		case task.DueDate != nil:
			b.Future[*task.DueDate] = append(b.Future[*task.DueDate], task)
		case task.Placement == model.PlacementSoon:
			b.Soon = append(b.Soon, task)
		case task.Placement == model.PlacementSomeday:
			b.Someday = append(b.Someday, task)
		default:
			// Inbox absorbs every undated task without a reserved
			// placement, keeping the partition total.
			b.Inbox = append(b.Inbox, task)
		}
	}

	sortDated(b.Overdue)
	sortDated(b.Today)
	for date := range b.Future {
		sortDated(b.Future[date])
	}
	sortUndated(b.Soon, false)
	sortUndated(b.Someday, false)
	sortUndated(b.Inbox, true)

	return b
}

// ForDate returns the active tasks due on one specific date, sorted.
func (s *BucketService) ForDate(ctx context.Context, date string) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var due []model.Task
	for _, task := range tasks {
		if task.DueDate != nil && *task.DueDate == date {
			due = append(due, task)
		}
	}
	sortDated(due)
	return due, nil
}

// Completed returns closed tasks, most recently completed first.
func (s *BucketService) Completed(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.ListCompleted(ctx)
}

// Stats aggregates counts over all tasks and per-bucket sizes.
func (s *BucketService) Stats(ctx context.Context) (*Stats, error) {
	total, active, completed, err := s.taskRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	buckets, err := s.Buckets(ctx)
	if err != nil {
		return nil, err
	}

	upcoming := 0
	for _, tasks := range buckets.Future {
		upcoming += len(tasks)
	}

	return &Stats{
		Total:     int(total),
		Active:    int(active),
		Completed: int(completed),
		Overdue:   len(buckets.Overdue),
		Today:     len(buckets.Today),
		Upcoming:  upcoming,
		Soon:      len(buckets.Soon),
		Someday:   len(buckets.Someday),
		Inbox:     len(buckets.Inbox),
	}, nil
}

// sortDated orders date-bearing tasks by due date, then due time (tasks
// without a time last), then priority descending, then creation time.
func sortDated(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ad, bd := dateOf(a), dateOf(b); ad != bd {
			return ad < bd
		}
		switch {
		case a.DueTime == nil && b.DueTime != nil:
			return false
		case a.DueTime != nil && b.DueTime == nil:
			return true
		case a.DueTime != nil && b.DueTime != nil && *a.DueTime != *b.DueTime:
			return *a.DueTime < *b.DueTime
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// sortUndated orders by priority descending, then creation time. The
// inbox shows newest first; soon and someday keep oldest first.
func sortUndated(tasks []model.Task, newestFirst bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if newestFirst {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func dateOf(t model.Task) string {
	if t.DueDate == nil {
		return "9999-99-99" // undated sorts after any real date
	}
	return *t.DueDate
}
