package service

import (
	"context"
	"log"

	"taskdeck/internal/calendar"
	"taskdeck/internal/config"
	"taskdeck/internal/model"
	"taskdeck/internal/recur"
	"taskdeck/internal/repository"
)

// GenerationReport summarizes one generation run.
type GenerationReport struct {
	TemplatesProcessed int `json:"templatesProcessed"`
	TasksCreated       int `json:"tasksCreated"`
}

// GeneratorService materializes occurrences from templates over a bounded
// forward horizon. Idempotent: existence is keyed per (template, date) by
// a store-level unique index, never by the advisory marker.
type GeneratorService struct {
	tplRepo  *repository.TemplateRepository
	taskRepo *repository.TaskRepository
	clock    *calendar.Clock
}

func NewGeneratorService(tplRepo *repository.TemplateRepository, taskRepo *repository.TaskRepository, clock *calendar.Clock) *GeneratorService {
	return &GeneratorService{tplRepo: tplRepo, taskRepo: taskRepo, clock: clock}
}

// GenerateForTemplate creates the missing occurrences for one template
// over [today, today+horizonDays-1] and returns the ones created by this
// call. Unknown or disabled templates yield an empty result.
func (s *GeneratorService) GenerateForTemplate(ctx context.Context, templateID uint, horizonDays int) ([]model.Task, error) {
	tpl, err := s.tplRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil || !tpl.Enabled {
		return nil, nil
	}
	return s.generate(ctx, tpl, horizonDays)
}

func (s *GeneratorService) generate(ctx context.Context, tpl *model.Template, horizonDays int) ([]model.Task, error) {
	if horizonDays > config.MaxHorizonDays {
		horizonDays = config.MaxHorizonDays
	}

	var created []model.Task
	for _, date := range calendar.EnumerateRange(s.clock.Today(), horizonDays) {
		if !recur.Matches(date, tpl) {
			continue
		}
		task := s.stamp(tpl, date)
		inserted, err := s.taskRepo.CreateFromTemplate(ctx, task)
		if err != nil {
			return created, err
		}
		if inserted {
			created = append(created, *task)
		}
	}

	if len(created) > 0 {
		latest := *created[len(created)-1].DueDate
		if err := s.tplRepo.SetLastGenerated(ctx, tpl, latest); err != nil {
			return created, err
		}
	}
	return created, nil
}

// stamp copies the template payload onto a fresh occurrence for date.
func (s *GeneratorService) stamp(tpl *model.Template, date string) *model.Task {
	due := date
	task := &model.Task{
		Title:       tpl.Title,
		Description: tpl.Description,
		DueDate:     &due,
		Tags:        tpl.Tags,
		Project:     tpl.Project,
		Priority:    tpl.Priority,
		Placement:   model.PlacementDated,
		TemplateID:  &tpl.ID,
	}
	if tpl.DueTime != nil {
		hhmm := *tpl.DueTime
		task.DueTime = &hhmm
	}
	return task
}

// GenerateAll runs generation for every enabled template. A failure in
// one template is logged and does not stop the rest; the report covers
// the progress actually made.
func (s *GeneratorService) GenerateAll(ctx context.Context, horizonDays int) (GenerationReport, error) {
	var report GenerationReport

	tpls, err := s.tplRepo.ListEnabled(ctx)
	if err != nil {
		return report, err
	}

	for i := range tpls {
		created, err := s.generate(ctx, &tpls[i], horizonDays)
		if err != nil {
			log.Printf("generate template %d: %v", tpls[i].ID, err)
			continue
		}
		report.TemplatesProcessed++
		report.TasksCreated += len(created)
	}
	return report, nil
}
