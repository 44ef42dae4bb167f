package media

import (
	"fmt"
	"path"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Collections a portfolio record can hold media under. The two before/after
// collections are single-file (attaching replaces), the gallery is multi-file.
const (
	CollectionBefore  = "before_image"
	CollectionAfter   = "after_image"
	CollectionGallery = "images"
)

type Media struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PortfolioID      uint           `gorm:"not null;index" json:"portfolio_id"`
	Collection       string         `gorm:"size:50;not null;index" json:"collection"`
	Disk             string         `gorm:"size:50;not null" json:"disk"`
	FileName         string         `gorm:"size:512;not null" json:"file_name"`
	MimeType         string         `gorm:"size:100" json:"mime_type"`
	Size             int64          `json:"size"`
	CustomProperties datatypes.JSON `gorm:"type:jsonb" json:"custom_properties,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}

// ObjectPath is the location of the file on its disk, relative to the disk root.
func (m Media) ObjectPath() string {
	return fmt.Sprintf("portfolios/%d/%s/%s", m.PortfolioID, m.Collection, m.FileName)
}

// Extension returns the file extension without the dot, lowercased.
// Empty when the stored name has none.
func (m Media) Extension() string {
	ext := path.Ext(m.FileName)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
