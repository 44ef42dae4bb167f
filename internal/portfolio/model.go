package portfolio

import (
	"time"
)

// Spacing directives controlling the gap rendered around an entry.
const (
	SpacingYes    = "yes"
	SpacingNo     = "no"
	SpacingTop    = "top"
	SpacingBottom = "bottom"
)

// Display modes. BeforeAfter shows the two-image reveal slider, Images the
// gallery. Installations whose portfolios table predates the display_mode
// column behave as if every record were BeforeAfter.
const (
	DisplayBeforeAfter = "before_after"
	DisplayImages      = "images"
)

const DefaultType = "all"

type Portfolio struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Spacing     string    `gorm:"size:10;not null;default:yes" json:"spacing"`
	Order       int       `gorm:"column:order;not null;default:0" json:"order"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	Type        string    `gorm:"size:100;not null;default:all" json:"type"`
	DisplayMode string    `gorm:"size:20;default:before_after" json:"display_mode"`
	BeforeAlt   *string   `gorm:"type:text" json:"before_alt,omitempty"`
	AfterAlt    *string   `gorm:"type:text" json:"after_alt,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

func ValidSpacing(s string) bool {
	switch s {
	case SpacingYes, SpacingNo, SpacingTop, SpacingBottom:
		return true
	}
	return false
}

func ValidDisplayMode(s string) bool {
	return s == DisplayBeforeAfter || s == DisplayImages
}

type PortfolioInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Spacing     string  `json:"spacing"`
	Order       int     `json:"order"`
	IsPublished *bool   `json:"is_published"`
	Type        string  `json:"type"`
	DisplayMode string  `json:"display_mode"`
	BeforeAlt   *string `json:"before_alt"`
	AfterAlt    *string `json:"after_alt"`
}
