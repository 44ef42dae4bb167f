package portfolio

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"portfolio-api/internal/media"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique in-memory DB per test to avoid cross-test contamination
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&Portfolio{}, &media.Media{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return db
}

func newTestServices(t *testing.T, db *gorm.DB) (*PortfolioService, *media.MediaService) {
	t.Helper()

	disk := &media.LocalDisk{Root: t.TempDir(), BaseURL: "http://localhost/storage"}
	ms := &media.MediaService{
		DB:          db,
		Disks:       map[string]media.Disk{"public": disk},
		DefaultDisk: "public",
	}
	ps := &PortfolioService{DB: db, Media: ms}
	return ps, ms
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
