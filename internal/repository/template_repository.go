package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskdeck/internal/model"
)

// TemplateRepository handles CRUD for recurrence templates.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.Template) error {
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// FindByID returns nil without error when the template does not exist.
func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*model.Template, error) {
	var tpl model.Template
	err := r.db.WithContext(ctx).First(&tpl, id).Error
	switch {
	case err == nil:
		return &tpl, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find template: %w", err)
	}
}

func (r *TemplateRepository) ListAll(ctx context.Context) ([]model.Template, error) {
	var tpls []model.Template
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tpls).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return tpls, nil
}

func (r *TemplateRepository) ListEnabled(ctx context.Context) ([]model.Template, error) {
	var tpls []model.Template
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).
		Order("id ASC").Find(&tpls).Error; err != nil {
		return nil, fmt.Errorf("list enabled templates: %w", err)
	}
	return tpls, nil
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *model.Template) error {
	if err := r.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) SetEnabled(ctx context.Context, tpl *model.Template, enabled bool) error {
	tpl.Enabled = enabled
	if err := r.db.WithContext(ctx).Model(tpl).Update("enabled", enabled).Error; err != nil {
		return fmt.Errorf("set template enabled: %w", err)
	}
	return nil
}

// SetLastGenerated records the advisory high-water mark. It never gates
// generation; existence checks against the task table do that.
func (r *TemplateRepository) SetLastGenerated(ctx context.Context, tpl *model.Template, date string) error {
	tpl.LastGenerated = &date
	if err := r.db.WithContext(ctx).Model(tpl).Update("last_generated", date).Error; err != nil {
		return fmt.Errorf("set last generated: %w", err)
	}
	return nil
}

// Delete removes a template. Occurrences generated from it keep their
// dangling template reference and remain valid tasks.
func (r *TemplateRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Template{}, id).Error; err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
