package transfer

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lib/pq"

	"portfolio-api/internal/logs"
	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
)

// TransferService runs the export and import pipelines. Everything it needs
// is threaded in explicitly; nothing is read from ambient configuration.
type TransferService struct {
	Portfolios  portfolio.PortfolioServiceAPI
	Media       media.MediaServiceAPI
	StagingDisk media.Disk
	Logs        LogSink

	// WorkRoot is where working directories are created. Intermediate
	// artifacts are deliberately left behind on failure for inspection.
	WorkRoot string
}

var _ TransferServiceAPI = (*TransferService)(nil)

func (ts *TransferService) workRoot() string {
	if ts.WorkRoot != "" {
		return ts.WorkRoot
	}
	return os.TempDir()
}

func (ts *TransferService) logWarn(action, message string, meta interface{}) {
	log.Printf("[transfer] WARN %s: %s", action, message)
	if ts.Logs != nil {
		_ = ts.Logs.Log(logs.SystemLog{
			Level:   logs.LevelWarning,
			Service: "transfer",
			Action:  action,
			Message: message,
		}, meta)
	}
}

func (ts *TransferService) logInfo(action, message string, files []string, meta interface{}) {
	log.Printf("[transfer] %s: %s", action, message)
	if ts.Logs != nil {
		_ = ts.Logs.Log(logs.SystemLog{
			Level:   logs.LevelInfo,
			Service: "transfer",
			Action:  action,
			Message: message,
			Files:   pq.StringArray(files),
		}, meta)
	}
}

func collectionPrefix(collection string) string {
	if collection == media.CollectionAfter {
		return "after"
	}
	return "before"
}

// exportCollectionImage copies a record's single-file collection image into
// imagesDir as {before|after}-{id}.{ext}. It is invoked once per collection.
// Failures are logged, never raised; the returned name is empty unless the
// outcome is imageExported.
func (ts *TransferService) exportCollectionImage(ctx context.Context, rec *portfolio.Portfolio, collection, imagesDir string) (string, imageOutcome) {
	m, err := ts.Media.FirstMedia(rec.ID, collection)
	if err != nil {
		ts.logWarn("export_image", fmt.Sprintf("portfolio %d %s: lookup failed: %v", rec.ID, collection, err), nil)
		return "", imageFailed
	}
	if m == nil {
		return "", imageSkipped
	}

	ext := m.Extension()
	if ext == "" {
		ext = "jpg"
	}
	destName := fmt.Sprintf("%s-%d.%s", collectionPrefix(collection), rec.ID, ext)

	rc, err := ts.Media.Open(ctx, m)
	if err != nil {
		ts.logWarn("export_image", fmt.Sprintf("portfolio %d %s: open failed: %v", rec.ID, collection, err), nil)
		return "", imageFailed
	}
	defer rc.Close()

	dest, err := os.Create(filepath.Join(imagesDir, destName))
	if err != nil {
		ts.logWarn("export_image", fmt.Sprintf("portfolio %d %s: write failed: %v", rec.ID, collection, err), nil)
		return "", imageFailed
	}
	if _, err := io.Copy(dest, rc); err != nil {
		dest.Close()
		ts.logWarn("export_image", fmt.Sprintf("portfolio %d %s: copy failed: %v", rec.ID, collection, err), nil)
		return "", imageFailed
	}
	if err := dest.Close(); err != nil {
		ts.logWarn("export_image", fmt.Sprintf("portfolio %d %s: close failed: %v", rec.ID, collection, err), nil)
		return "", imageFailed
	}

	return destName, imageExported
}

func (ts *TransferService) loadRecords(ids []uint) ([]portfolio.Portfolio, error) {
	records := make([]portfolio.Portfolio, 0, len(ids))
	for _, id := range ids {
		p, err := ts.Portfolios.GetByID(id)
		if err != nil {
			ts.logWarn("export", fmt.Sprintf("portfolio %d not found, skipping", id), nil)
			continue
		}
		records = append(records, *p)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no portfolios selected")
	}
	return records, nil
}

func nullableString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportCSV packages the selected records plus their before/after images
// into a single zip: portfolios.csv at the root, images under images/.
func (ts *TransferService) ExportCSV(ctx context.Context, ids []uint, host string) (*ExportResult, error) {
	records, err := ts.loadRecords(ids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	workDir := filepath.Join(ts.workRoot(), fmt.Sprintf("export_zip_%d", now.Unix()))
	imagesDir := filepath.Join(workDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(workDir, "portfolios.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}

	for i := range records {
		rec := &records[i]
		beforeName, _ := ts.exportCollectionImage(ctx, rec, media.CollectionBefore, imagesDir)
		afterName, _ := ts.exportCollectionImage(ctx, rec, media.CollectionAfter, imagesDir)

		row := []string{
			strconv.FormatUint(uint64(rec.ID), 10),
			portfolio.DisplayTitle(rec.Title),
			rec.Description,
			rec.Type,
			rec.Spacing,
			strconv.Itoa(rec.Order),
			strconv.FormatBool(rec.IsPublished),
			nullableString(rec.BeforeAlt),
			nullableString(rec.AfterAlt),
			beforeName,
			afterName,
			rec.CreatedAt.Format(archiveTimeLayout),
			rec.UpdatedAt.Format(archiveTimeLayout),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	archiveName := buildExportFilename(host, len(records), false, now)
	archivePath := filepath.Join(workDir, archiveName)
	if err := writeArchive(archivePath, map[string]string{"portfolios.csv": csvPath}, map[string]string{"images": imagesDir}); err != nil {
		return nil, err
	}

	ts.logInfo("export_csv",
		fmt.Sprintf("exported %d portfolios to %s", len(records), archiveName),
		[]string{archiveName},
		map[string]interface{}{"count": len(records)})

	return &ExportResult{
		ArchivePath: archivePath,
		ArchiveName: archiveName,
		WorkDir:     workDir,
		Count:       len(records),
	}, nil
}

// writeArchive builds a zip from named files (archive path → source path)
// and directories (archive prefix → source dir, contents added flat).
func writeArchive(archivePath string, files map[string]string, dirs map[string]string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	addFile := func(name, src string) error {
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()

		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, in)
		return err
	}

	for name, src := range files {
		if err := addFile(name, src); err != nil {
			zw.Close()
			return err
		}
	}

	for prefix, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			zw.Close()
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if err := addFile(prefix+"/"+e.Name(), filepath.Join(dir, e.Name())); err != nil {
				zw.Close()
				return err
			}
		}
	}

	return zw.Close()
}
