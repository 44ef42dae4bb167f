package seeder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"portfolio-api/internal/logs"
	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
)

type fakeLogSink struct {
	Entries []logs.SystemLog
}

func (f *fakeLogSink) Log(entry logs.SystemLog, _ interface{}) error {
	f.Entries = append(f.Entries, entry)
	return nil
}

type fixture struct {
	DB         *gorm.DB
	Portfolios *portfolio.PortfolioService
	Media      *media.MediaService
	Seeder     *Seeder
	Console    *bytes.Buffer
	Sink       *fakeLogSink
	DocsDir    string
	ImagesDir  string
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

	ms := &media.MediaService{
		DB:          db,
		Disks:       map[string]media.Disk{"public": &media.LocalDisk{Root: t.TempDir(), BaseURL: "http://localhost/storage"}},
		DefaultDisk: "public",
	}
	ps := &portfolio.PortfolioService{DB: db, Media: ms}

	console := &bytes.Buffer{}
	sink := &fakeLogSink{}

	return &fixture{
		DB:         db,
		Portfolios: ps,
		Media:      ms,
		Seeder:     &Seeder{Portfolios: ps, Media: ms, Logs: sink, Out: console},
		Console:    console,
		Sink:       sink,
		DocsDir:    t.TempDir(),
		ImagesDir:  t.TempDir(),
	}
}

func (fx *fixture) writeDoc(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(fx.DocsDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write doc %s: %v", name, err)
	}
}

func (fx *fixture) writeImage(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(fx.ImagesDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write image %s: %v", name, err)
	}
}

func doc(exportOrder string, id int, title, extra, body string) string {
	head := "---\n"
	if exportOrder != "" {
		head += "export_order: " + exportOrder + "\n"
	}
	if id > 0 {
		head += fmt.Sprintf("id: %d\n", id)
	}
	if title != "" {
		head += fmt.Sprintf("title: %q\n", title)
	}
	head += "type: \"all\"\nspacing: \"yes\"\norder: 0\nis_published: true\n"
	head += extra
	head += "---\n\n"
	return head + body + "\n"
}
