package model

import "time"

// Recurrence shapes.
const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
	RecurYearly  = "yearly"
)

// Template is a repetition rule plus the payload stamped onto every
// occurrence it generates.
type Template struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	Description   string
	DueTime       *string // HH:MM copied onto generated tasks
	Tags          string
	Project       string
	Priority      int    `gorm:"default:0"`
	RecurType     string `gorm:"not null"` // daily, weekly, monthly, yearly
	RecurInterval int    `gorm:"default:1"`
	// RecurDays holds comma-joined 3-letter weekday codes; weekly only.
	RecurDays *string
	// RecurDayOfMonth targets a day 1-31; monthly only. When unset the
	// start date's day-of-month applies.
	RecurDayOfMonth *int
	StartDate       string `gorm:"not null"` // YYYY-MM-DD, inclusive, anchors interval counting
	EndDate         *string
	// LastGenerated is advisory only: the latest date an occurrence was
	// created for. Generation never gates on it.
	LastGenerated *string
	Enabled       bool `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
