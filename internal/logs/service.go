package logs

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"portfolio-api/internal/util"
)

type LogService struct {
	DB *gorm.DB
}

// Log persists one system log row. Metadata (map/struct) is serialized to a
// JSON string column; serialization failures drop the metadata, not the log.
func (ls *LogService) Log(entry SystemLog, metadata interface{}) error {
	var metaStr *string

	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			str := string(b)
			metaStr = &str
		}
	}

	newLog := SystemLog{
		Level:     entry.Level,
		Service:   entry.Service,
		Action:    entry.Action,
		Message:   entry.Message,
		Filename:  entry.Filename,
		Files:     entry.Files,
		Metadata:  metaStr,
		CreatedAt: time.Now(),
	}

	return ls.DB.Create(&newLog).Error
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]SystemLog, int64, int, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := ls.DB.Table("logs")

	// Default: last 30 days if no dates
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		base = base.Where("logs.level = ?", strings.TrimSpace(*input.Level))
	}
	if input.Service != nil && strings.TrimSpace(*input.Service) != "" {
		base = base.Where("logs.service = ?", strings.TrimSpace(*input.Service))
	}
	if input.Action != nil && strings.TrimSpace(*input.Action) != "" {
		base = base.Where("logs.action = ?", strings.TrimSpace(*input.Action))
	}
	if input.Filename != nil && strings.TrimSpace(*input.Filename) != "" {
		base = base.Where("COALESCE(logs.filename,'') ILIKE ?", "%"+strings.TrimSpace(*input.Filename)+"%")
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, 0, 0, err
	}
	if hasStart {
		base = base.Where("logs.created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("logs.created_at < ?", endExclusive)
	}

	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.TrimSpace(*input.Search) + "%"
		base = base.Where(
			`logs.level ILIKE ?
			 OR logs.service ILIKE ?
			 OR logs.action ILIKE ?
			 OR logs.message ILIKE ?
			 OR COALESCE(logs.filename,'') ILIKE ?`,
			like, like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var rows []SystemLog
	if err := base.
		Session(&gorm.Session{}).
		Order("logs.created_at DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, 0, err
	}

	return rows, total, totalPages, nil
}
