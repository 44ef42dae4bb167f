package transfer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"portfolio-api/internal/logs"
	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
)

type fakeLogSink struct {
	mu      sync.Mutex
	Entries []logs.SystemLog
}

func (f *fakeLogSink) Log(entry logs.SystemLog, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, entry)
	return nil
}

func (f *fakeLogSink) warnings() []logs.SystemLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []logs.SystemLog
	for _, e := range f.Entries {
		if e.Level == logs.LevelWarning {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	DB         *gorm.DB
	Portfolios *portfolio.PortfolioService
	Media      *media.MediaService
	Staging    *media.LocalDisk
	Sink       *fakeLogSink
	Service    *TransferService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&portfolio.Portfolio{}, &media.Media{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	mediaDisk := &media.LocalDisk{Root: t.TempDir(), BaseURL: "http://localhost/storage"}
	ms := &media.MediaService{
		DB:          db,
		Disks:       map[string]media.Disk{"public": mediaDisk},
		DefaultDisk: "public",
	}
	ps := &portfolio.PortfolioService{DB: db, Media: ms}
	staging := &media.LocalDisk{Root: t.TempDir(), BaseURL: "http://localhost/staging"}
	sink := &fakeLogSink{}

	svc := &TransferService{
		Portfolios:  ps,
		Media:       ms,
		StagingDisk: staging,
		Logs:        sink,
		WorkRoot:    t.TempDir(),
	}

	return &fixture{DB: db, Portfolios: ps, Media: ms, Staging: staging, Sink: sink, Service: svc}
}

func (fx *fixture) mustCreate(t *testing.T, input portfolio.PortfolioInput) *portfolio.Portfolio {
	t.Helper()
	p, err := fx.Portfolios.Create(input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func (fx *fixture) mustAttach(t *testing.T, id uint, collection, name, content string) {
	t.Helper()
	if _, err := fx.Media.Attach(context.Background(), id, collection, name, "image/jpeg", strings.NewReader(content), nil); err != nil {
		t.Fatalf("Attach %s: %v", name, err)
	}
}

// stage places a local file on the fixture's staging disk and returns the
// staged object name.
func (fx *fixture) stage(t *testing.T, localPath string) string {
	t.Helper()

	f, err := os.Open(localPath)
	if err != nil {
		t.Fatalf("open %s: %v", localPath, err)
	}
	defer f.Close()

	name := fmt.Sprintf("staging/%d.zip", time.Now().UnixNano())
	if err := fx.Staging.Put(context.Background(), name, f, "application/zip"); err != nil {
		t.Fatalf("stage: %v", err)
	}
	return name
}

// readArchive loads every entry of a zip file into memory.
func readArchive(t *testing.T, path string) map[string][]byte {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer zr.Close()

	out := map[string][]byte{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", zf.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", zf.Name, err)
		}
		out[zf.Name] = b
	}
	return out
}

// buildTestArchive writes a zip with the given entries and returns its path.
func buildTestArchive(t *testing.T, entries map[string][]byte) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	path := fmt.Sprintf("%s/archive_%d.zip", t.TempDir(), time.Now().UnixNano())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}
