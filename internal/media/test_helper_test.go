package media

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique in-memory DB per test to avoid cross-test contamination
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&Media{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return db
}

func newLocalService(t *testing.T, db *gorm.DB) (*MediaService, *LocalDisk) {
	t.Helper()

	disk := &LocalDisk{Root: t.TempDir(), BaseURL: "http://localhost/storage"}
	svc := &MediaService{
		DB:          db,
		Disks:       map[string]Disk{"public": disk},
		DefaultDisk: "public",
	}
	return svc, disk
}
