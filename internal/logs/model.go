package logs

import (
	"time"

	"github.com/lib/pq"
)

type SystemLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string         `gorm:"size:20;not null" json:"level"`
	Service   string         `gorm:"size:100;not null" json:"service"`
	Action    string         `gorm:"size:255;not null" json:"action"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Filename  *string        `gorm:"size:512" json:"filename,omitempty"`
	Files     pq.StringArray `gorm:"type:text[];column:files" json:"files"`
	Metadata  *string        `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

type LogFilterInput struct {
	Level    *string `json:"level"`
	Service  *string `json:"service"`
	Action   *string `json:"action"`
	Filename *string `json:"filename"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD"
	EndDate   *string `json:"end_date"`   // "YYYY-MM-DD"

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

func (SystemLog) TableName() string {
	return "logs"
}
