package logs

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true, // removes BEGIN/COMMIT
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	cleanup := func() { _ = db.Close() }
	return gdb, mock, cleanup
}

func ptrStr(s string) *string { return &s }

func TestLogService_Log_Inserts(t *testing.T) {
	t.Run("metadata nil", func(t *testing.T) {
		db, mock, cleanup := newMockGorm(t)
		defer cleanup()

		ls := &LogService{DB: db}

		mock.ExpectQuery(`INSERT INTO "logs"`).
			WithArgs(
				sqlmock.AnyArg(), // level
				sqlmock.AnyArg(), // service
				sqlmock.AnyArg(), // action
				sqlmock.AnyArg(), // message
				sqlmock.AnyArg(), // filename
				sqlmock.AnyArg(), // files
				sqlmock.AnyArg(), // metadata
				sqlmock.AnyArg(), // created_at
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := ls.Log(SystemLog{
			Level:    LevelInfo,
			Service:  "transfer",
			Action:   "export",
			Message:  "ok",
			Filename: ptrStr("portfolios.csv"),
			Files:    pq.StringArray{"before-1.jpg", "after-1.jpg"},
		}, nil)

		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("metadata json", func(t *testing.T) {
		db, mock, cleanup := newMockGorm(t)
		defer cleanup()

		ls := &LogService{DB: db}

		mock.ExpectQuery(`INSERT INTO "logs"`).
			WithArgs(
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

		err := ls.Log(SystemLog{
			Level:   LevelError,
			Service: "seeder",
			Action:  "up",
			Message: "fail",
		}, map[string]any{"imported": 3, "skipped": 1})

		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("metadata marshal fails (ignored)", func(t *testing.T) {
		db, mock, cleanup := newMockGorm(t)
		defer cleanup()

		ls := &LogService{DB: db}

		mock.ExpectQuery(`INSERT INTO "logs"`).
			WithArgs(
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		// json.Marshal on func fails; metadata stays NULL and the row still inserts.
		err := ls.Log(SystemLog{
			Level:   LevelInfo,
			Service: "svc",
			Action:  "act",
			Message: "msg",
		}, func() {})

		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})
}

func TestLogService_GetLogs_InvalidDateRange_ReturnsError(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()
	_ = mock // no db calls expected

	ls := &LogService{DB: db}

	start := "bad-date"
	_, _, _, err := ls.GetLogs(LogFilterInput{
		StartDate: &start,
		Page:      1,
		PageSize:  10,
	})
	if err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestLogService_GetLogs_CountError_ReturnsError(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	ls := &LogService{DB: db}

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnError(errors.New("count failed"))

	_, _, _, err := ls.GetLogs(LogFilterInput{Page: 1, PageSize: 10})
	if err == nil || err.Error() != "count failed" {
		t.Fatalf("expected count failed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogService_GetLogs_HappyPath(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	ls := &LogService{DB: db}

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM "logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "level", "service", "action", "message", "created_at"}).
			AddRow(2, LevelInfo, "transfer", "import", "done", now).
			AddRow(1, LevelError, "transfer", "export", "disk unreachable", now.Add(-time.Hour)))

	rows, total, totalPages, err := ls.GetLogs(LogFilterInput{
		Service:  ptrStr("transfer"),
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if total != 2 || totalPages != 1 {
		t.Fatalf("total=%d totalPages=%d", total, totalPages)
	}
	if len(rows) != 2 || rows[0].ID != 2 || rows[1].Action != "export" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
