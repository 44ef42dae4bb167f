package seeder

import (
	"context"
	"strings"
	"testing"

	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
)

func TestUp_ImportsDocuments(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-1.md", doc("1", 1, "Garden Path", `before_image: "before-1.jpg"`+"\n", "A winding path."))
	fx.writeImage(t, "before-1.jpg", "img-bytes")

	report, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 0 || report.Errors != 0 {
		t.Fatalf("report=%+v", report)
	}

	got, err := fx.Portfolios.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "garden path" {
		t.Fatalf("title=%q", got.Title)
	}
	if got.Description != "A winding path." {
		t.Fatalf("description=%q", got.Description)
	}

	m, err := fx.Media.FirstMedia(1, media.CollectionBefore)
	if err != nil || m == nil {
		t.Fatalf("image not attached: %v", err)
	}

	if !strings.Contains(fx.Console.String(), "1 imported, 0 skipped, 0 errors") {
		t.Fatalf("console report missing:\n%s", fx.Console.String())
	}
}

func TestUp_NewestExportedFirst(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Two documents claim the same id. The one with the higher export_order
	// is inserted first; the other is then skipped as existing.
	fx.writeDoc(t, "portfolio-a.md", doc("1", 7, "Loser", "", "exported first"))
	fx.writeDoc(t, "portfolio-b.md", doc("5", 7, "Winner", "", "exported last"))

	report, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 1 {
		t.Fatalf("report=%+v", report)
	}

	got, err := fx.Portfolios.GetByID(7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "winner" {
		t.Fatalf("title=%q: higher export_order must insert first", got.Title)
	}
}

func TestUp_MissingExportOrderSortsFirst(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-a.md", doc("5", 3, "Has Order", "", "b"))
	fx.writeDoc(t, "portfolio-b.md", doc("", 3, "No Order", "", "a"))

	if _, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir); err != nil {
		t.Fatalf("Up: %v", err)
	}

	got, err := fx.Portfolios.GetByID(3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "no order" {
		t.Fatalf("title=%q: sentinel export_order must sort first", got.Title)
	}
}

func TestUp_Idempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-1.md", doc("1", 1, "One", "", "x"))
	fx.writeDoc(t, "portfolio-2.md", doc("2", 2, "Two", "", "y"))

	if _, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir); err != nil {
		t.Fatalf("first Up: %v", err)
	}

	report, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if report.Imported != 0 || report.Skipped != 2 {
		t.Fatalf("second report=%+v", report)
	}
}

func TestUp_MalformedDocSkippedOthersImported(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-1.md", doc("1", 1, "One", "", "x"))
	fx.writeDoc(t, "portfolio-2.md", doc("2", 2, "Two", "", "y"))
	fx.writeDoc(t, "portfolio-3.md", doc("3", 3, "Three", "", "z"))
	fx.writeDoc(t, "broken.md", doc("4", 0, "No ID Here", "", "w"))

	report, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.Imported != 3 || report.Errors != 1 {
		t.Fatalf("report=%+v", report)
	}
	if len(fx.Sink.Entries) == 0 {
		t.Fatalf("expected log entries")
	}
}

func TestUp_MissingImageDoesNotAbortRecord(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-1.md", doc("1", 1, "Ghost", `before_image: "before-1.jpg"`+"\n", "x"))
	// image deliberately not written

	report, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if report.Imported != 1 {
		t.Fatalf("report=%+v", report)
	}

	m, err := fx.Media.FirstMedia(1, media.CollectionBefore)
	if err != nil {
		t.Fatalf("FirstMedia: %v", err)
	}
	if m != nil {
		t.Fatalf("no attachment expected")
	}
	if !strings.Contains(fx.Console.String(), "not found") {
		t.Fatalf("expected console warning:\n%s", fx.Console.String())
	}
}

func TestDown_DeletesRecordsAndMedia(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-1.md", doc("1", 1, "One", `before_image: "before-1.jpg"`+"\n", "x"))
	fx.writeDoc(t, "portfolio-2.md", doc("2", 2, "Two", "", "y"))
	fx.writeImage(t, "before-1.jpg", "img")

	if _, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir); err != nil {
		t.Fatalf("Up: %v", err)
	}

	report, err := fx.Seeder.Down(ctx, fx.DocsDir)
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if report.Deleted != 2 {
		t.Fatalf("report=%+v", report)
	}

	var count int64
	if err := fx.DB.Model(&portfolio.Portfolio{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("records remain: %d", count)
	}
	if err := fx.DB.Model(&media.Media{}).Count(&count).Error; err != nil {
		t.Fatalf("count media: %v", err)
	}
	if count != 0 {
		t.Fatalf("media rows remain: %d", count)
	}
}

func TestDown_DocumentsDeletedMeansNothingReversed(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-1.md", doc("1", 1, "Persistent", "", "x"))
	if _, err := fx.Seeder.Up(ctx, fx.DocsDir, fx.ImagesDir); err != nil {
		t.Fatalf("Up: %v", err)
	}

	// operator performs the optional cleanup: removes the documents
	emptyDir := t.TempDir()

	report, err := fx.Seeder.Down(ctx, emptyDir)
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if report.Deleted != 0 {
		t.Fatalf("report=%+v: reversal without documents must delete nothing", report)
	}

	// the record is still there
	if _, err := fx.Portfolios.GetByID(1); err != nil {
		t.Fatalf("record should survive: %v", err)
	}
}

func TestDown_UnknownIDsSkipped(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.writeDoc(t, "portfolio-9.md", doc("1", 9, "Never Installed", "", "x"))

	report, err := fx.Seeder.Down(ctx, fx.DocsDir)
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if report.Deleted != 0 || report.Skipped != 1 {
		t.Fatalf("report=%+v", report)
	}
}
