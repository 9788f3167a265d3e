package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
	"taskdeck/internal/recur"
	"taskdeck/internal/repository"
)

// TemplateInput represents data required to create a recurrence template.
type TemplateInput struct {
	Title       string `validate:"required"`
	Description string
	// Every holds the recurrence descriptor, e.g. "day", "2 weeks".
	Every string `validate:"required"`
	// Days holds comma-joined weekday codes; weekly only.
	Days string
	// DayOfMonth targets a monthly day; defaults to the start date's day.
	DayOfMonth *int `validate:"omitempty,min=1,max=31"`
	Start      string
	End        string
	At         string
	Tags       []string
	Project    string
	Priority   int `validate:"min=0,max=2"`
}

// TemplatePatch carries optional template edits; nil means leave
// unchanged. An empty Days, End, or At clears the field, and a zero
// DayOfMonth clears the monthly target.
type TemplatePatch struct {
	Title       *string
	Description *string
	Every       *string
	Days        *string
	DayOfMonth  *int
	Start       *string
	End         *string
	At          *string
	Tags        *[]string
	Project     *string
	Priority    *int
}

// TemplateService wraps recurrence template business logic.
type TemplateService struct {
	tplRepo  *repository.TemplateRepository
	clock    *calendar.Clock
	validate *validator.Validate
}

func NewTemplateService(tplRepo *repository.TemplateRepository, clock *calendar.Clock) *TemplateService {
	return &TemplateService{
		tplRepo:  tplRepo,
		clock:    clock,
		validate: validator.New(),
	}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, input TemplateInput) (*model.Template, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	recurType, interval, err := recur.ParseDescriptor(input.Every)
	if err != nil {
		return nil, err
	}

	tpl := model.Template{
		Title:         input.Title,
		Description:   input.Description,
		Project:       input.Project,
		Priority:      input.Priority,
		RecurType:     recurType,
		RecurInterval: interval,
		Enabled:       true,
	}
	tpl.Tags = model.JoinTags(input.Tags)

	if input.Days != "" {
		if recurType != model.RecurWeekly {
			return nil, fmt.Errorf("invalid template: weekday list only applies to weekly recurrence")
		}
		days, err := recur.NormalizeWeekdays(input.Days)
		if err != nil {
			return nil, err
		}
		tpl.RecurDays = &days
	}
	if input.DayOfMonth != nil {
		if recurType != model.RecurMonthly {
			return nil, fmt.Errorf("invalid template: day-of-month only applies to monthly recurrence")
		}
		tpl.RecurDayOfMonth = input.DayOfMonth
	}

	tpl.StartDate = s.clock.Today()
	if input.Start != "" {
		if tpl.StartDate, err = s.clock.ParseDate(input.Start); err != nil {
			return nil, err
		}
	}
	if input.End != "" {
		end, err := s.clock.ParseDate(input.End)
		if err != nil {
			return nil, err
		}
		if end < tpl.StartDate {
			return nil, fmt.Errorf("invalid template: end date before start date")
		}
		tpl.EndDate = &end
	}
	if input.At != "" {
		hhmm, err := calendar.ParseTime(input.At)
		if err != nil {
			return nil, err
		}
		tpl.DueTime = &hhmm
	}

	if err := s.tplRepo.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// EditTemplate applies a patch and re-validates the resulting rule.
// Switching the recurrence shape drops shape-specific fields that no
// longer apply. Returns nil when the id is unknown.
func (s *TemplateService) EditTemplate(ctx context.Context, id uint, patch TemplatePatch) (*model.Template, error) {
	tpl, err := s.tplRepo.FindByID(ctx, id)
	if err != nil || tpl == nil {
		return tpl, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fmt.Errorf("invalid template: title must not be empty")
		}
		tpl.Title = *patch.Title
	}
	if patch.Description != nil {
		tpl.Description = *patch.Description
	}
	if patch.Project != nil {
		tpl.Project = *patch.Project
	}
	if patch.Priority != nil {
		if *patch.Priority < model.PriorityNormal || *patch.Priority > model.PriorityUrgent {
			return nil, fmt.Errorf("invalid template: priority out of range")
		}
		tpl.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		tpl.Tags = model.JoinTags(*patch.Tags)
	}

	if patch.Every != nil {
		recurType, interval, err := recur.ParseDescriptor(*patch.Every)
		if err != nil {
			return nil, err
		}
		tpl.RecurType = recurType
		tpl.RecurInterval = interval
	}
	if patch.Days != nil {
		if *patch.Days == "" {
			tpl.RecurDays = nil
		} else {
			if tpl.RecurType != model.RecurWeekly {
				return nil, fmt.Errorf("invalid template: weekday list only applies to weekly recurrence")
			}
			days, err := recur.NormalizeWeekdays(*patch.Days)
			if err != nil {
				return nil, err
			}
			tpl.RecurDays = &days
		}
	}
	if patch.DayOfMonth != nil {
		switch {
		case *patch.DayOfMonth == 0:
			tpl.RecurDayOfMonth = nil
		case tpl.RecurType != model.RecurMonthly:
			return nil, fmt.Errorf("invalid template: day-of-month only applies to monthly recurrence")
		case *patch.DayOfMonth < 1 || *patch.DayOfMonth > 31:
			return nil, fmt.Errorf("invalid template: day-of-month out of range")
		default:
			tpl.RecurDayOfMonth = patch.DayOfMonth
		}
	}
	// Stale shape-specific fields from a shape switch do not survive.
	if tpl.RecurType != model.RecurWeekly {
		tpl.RecurDays = nil
	}
	if tpl.RecurType != model.RecurMonthly {
		tpl.RecurDayOfMonth = nil
	}

	if patch.Start != nil {
		start, err := s.clock.ParseDate(*patch.Start)
		if err != nil {
			return nil, err
		}
		tpl.StartDate = start
	}
	if patch.End != nil {
		if *patch.End == "" {
			tpl.EndDate = nil
		} else {
			end, err := s.clock.ParseDate(*patch.End)
			if err != nil {
				return nil, err
			}
			tpl.EndDate = &end
		}
	}
	if tpl.EndDate != nil && *tpl.EndDate < tpl.StartDate {
		return nil, fmt.Errorf("invalid template: end date before start date")
	}
	if patch.At != nil {
		if *patch.At == "" {
			tpl.DueTime = nil
		} else {
			hhmm, err := calendar.ParseTime(*patch.At)
			if err != nil {
				return nil, err
			}
			tpl.DueTime = &hhmm
		}
	}

	if err := s.tplRepo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id uint) (*model.Template, error) {
	return s.tplRepo.FindByID(ctx, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]model.Template, error) {
	return s.tplRepo.ListAll(ctx)
}

// SetEnabled toggles generation for a template. Returns nil when the id
// is unknown.
func (s *TemplateService) SetEnabled(ctx context.Context, id uint, enabled bool) (*model.Template, error) {
	tpl, err := s.tplRepo.FindByID(ctx, id)
	if err != nil || tpl == nil {
		return tpl, err
	}
	if err := s.tplRepo.SetEnabled(ctx, tpl, enabled); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteTemplate removes a template without touching previously generated
// occurrences; their template references dangle harmlessly.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id uint) error {
	return s.tplRepo.Delete(ctx, id)
}
