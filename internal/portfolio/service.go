package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"portfolio-api/internal/media"
)

type PortfolioService struct {
	DB    *gorm.DB
	Media media.MediaServiceAPI

	displayModeOnce sync.Once
	displayModeOK   bool
}

// HasDisplayModeColumn reports whether the portfolios table carries the
// display_mode column. Older installations predate it; writes must then
// omit the field and reads treat every record as before/after.
func (ps *PortfolioService) HasDisplayModeColumn() bool {
	ps.displayModeOnce.Do(func() {
		ps.displayModeOK = ps.DB.Migrator().HasColumn(&Portfolio{}, "display_mode")
	})
	return ps.displayModeOK
}

func (ps *PortfolioService) writeScope() *gorm.DB {
	if ps.HasDisplayModeColumn() {
		return ps.DB
	}
	return ps.DB.Omit("display_mode")
}

func applyInput(p *Portfolio, input PortfolioInput) error {
	p.Title = NormalizeTitle(input.Title)
	p.Description = input.Description

	p.Spacing = input.Spacing
	if p.Spacing == "" {
		p.Spacing = SpacingYes
	}
	if !ValidSpacing(p.Spacing) {
		return fmt.Errorf("invalid spacing %q", input.Spacing)
	}

	p.Order = input.Order

	p.IsPublished = true
	if input.IsPublished != nil {
		p.IsPublished = *input.IsPublished
	}

	p.Type = input.Type
	if p.Type == "" {
		p.Type = DefaultType
	}

	p.DisplayMode = input.DisplayMode
	if p.DisplayMode == "" {
		p.DisplayMode = DisplayBeforeAfter
	}
	if !ValidDisplayMode(p.DisplayMode) {
		return fmt.Errorf("invalid display_mode %q", input.DisplayMode)
	}

	p.BeforeAlt = input.BeforeAlt
	p.AfterAlt = input.AfterAlt
	return nil
}

func (ps *PortfolioService) Create(input PortfolioInput) (*Portfolio, error) {
	var p Portfolio
	if err := applyInput(&p, input); err != nil {
		return nil, err
	}
	if err := ps.writeScope().Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (ps *PortfolioService) Update(id uint, input PortfolioInput) (*Portfolio, error) {
	p, err := ps.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(p, input); err != nil {
		return nil, err
	}
	if err := ps.writeScope().Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (ps *PortfolioService) GetByID(id uint) (*Portfolio, error) {
	var p Portfolio
	err := ps.DB.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if !ps.HasDisplayModeColumn() {
		p.DisplayMode = DisplayBeforeAfter
	}
	return &p, nil
}

func (ps *PortfolioService) ExistsByID(id uint) (bool, error) {
	var count int64
	err := ps.DB.Model(&Portfolio{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns every record, display-ordered.
func (ps *PortfolioService) List() ([]Portfolio, error) {
	var rows []Portfolio
	err := ps.DB.Order(`"order" ASC, id ASC`).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ps.fixupDisplayMode(rows)
	return rows, nil
}

// ListPublished is the marketing-site query: published records, optionally
// narrowed to a set of type keys, display-ordered. The "all" type is not a
// filter value, it means no narrowing.
func (ps *PortfolioService) ListPublished(types []string) ([]Portfolio, error) {
	q := ps.DB.Where("is_published = ?", true)

	filtered := make([]string, 0, len(types))
	for _, t := range types {
		if t != "" && t != DefaultType {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) > 0 {
		q = q.Where("type IN ?", filtered)
	}

	var rows []Portfolio
	if err := q.Order(`"order" ASC, id ASC`).Find(&rows).Error; err != nil {
		return nil, err
	}
	ps.fixupDisplayMode(rows)
	return rows, nil
}

func (ps *PortfolioService) fixupDisplayMode(rows []Portfolio) {
	if ps.HasDisplayModeColumn() {
		return
	}
	for i := range rows {
		rows[i].DisplayMode = DisplayBeforeAfter
	}
}

// Delete removes the record and every media attachment it owns.
func (ps *PortfolioService) Delete(ctx context.Context, id uint) error {
	if _, err := ps.GetByID(id); err != nil {
		return err
	}
	if err := ps.Media.ClearAll(ctx, id); err != nil {
		return err
	}
	return ps.DB.Delete(&Portfolio{}, id).Error
}

// Upsert writes a fully populated record keyed by its ID, preserving the
// caller-supplied timestamps. Inserts when the ID is unknown, otherwise
// overwrites every field in place. Returns whether a new row was created.
func (ps *PortfolioService) Upsert(p *Portfolio) (bool, error) {
	exists, err := ps.ExistsByID(p.ID)
	if err != nil {
		return false, err
	}

	if !exists {
		// gorm honors pre-set CreatedAt/UpdatedAt on insert
		if err := ps.writeScope().Create(p).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	updates := map[string]interface{}{
		"title":        p.Title,
		"description":  p.Description,
		"type":         p.Type,
		"spacing":      p.Spacing,
		"order":        p.Order,
		"is_published": p.IsPublished,
		"before_alt":   p.BeforeAlt,
		"after_alt":    p.AfterAlt,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
	err = ps.DB.Model(&Portfolio{}).
		Where("id = ?", p.ID).
		UpdateColumns(updates).Error
	return false, err
}
