package model

import (
	"strings"
	"time"
)

// Priority levels for tasks and templates.
const (
	PriorityNormal = 0
	PriorityHigh   = 1
	PriorityUrgent = 2
)

// Placement says which bucket an undated task lives in. Tasks carrying a
// due date are always PlacementDated; the other three are mutually
// exclusive and only meaningful while the due date is empty.
const (
	PlacementDated   = "dated"
	PlacementSoon    = "soon"
	PlacementSomeday = "someday"
	PlacementInbox   = "inbox"
)

// Task represents a single actionable item, either created directly or
// stamped out by the generator from a recurrence template.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	DueDate     *string `gorm:"uniqueIndex:idx_template_date"` // YYYY-MM-DD
	DueTime     *string // HH:MM, only meaningful with DueDate
	Tags        string  // comma-joined lowercase names
	Project     string
	Priority    int    `gorm:"default:0"`
	Placement   string `gorm:"default:inbox"`
	RemindedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	// TemplateID is a weak reference: the template may be deleted later,
	// leaving this dangling. Never treated as an ownership edge.
	TemplateID *uint `gorm:"uniqueIndex:idx_template_date"`
}

// IsCompleted reports whether the task has been closed.
func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// TagList splits the stored comma-joined tags into a slice.
func (t *Task) TagList() []string {
	return SplitTags(t.Tags)
}

// SetTagList stores tags lowercased and deduplicated, keeping first-seen order.
func (t *Task) SetTagList(tags []string) {
	t.Tags = JoinTags(tags)
}

// SplitTags parses a comma-joined tag column into a slice, dropping blanks.
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// JoinTags normalizes tags (lowercase, trimmed, unique, no embedded commas)
// into the stored form.
func JoinTags(tags []string) string {
	seen := make(map[string]struct{}, len(tags))
	var kept []string
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" || strings.Contains(norm, ",") {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		kept = append(kept, norm)
	}
	return strings.Join(kept, ",")
}
