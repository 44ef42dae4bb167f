package transfer

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/util"
)

// Import runs the upload-to-records pipeline: fetch the staged archive,
// extract locally, parse the first tabular file, upsert rows oldest-first,
// and attach referenced images. The staged upload is removed once the
// pipeline gets past the existence check; local working directories are
// left behind for inspection.
func (ts *TransferService) Import(ctx context.Context, stagedObject string) (*ImportReport, error) {
	ok, err := ts.StagingDisk.Exists(ctx, stagedObject)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("uploaded archive %s not found", stagedObject)
	}
	defer func() {
		if err := ts.StagingDisk.Delete(ctx, stagedObject); err != nil {
			ts.logWarn("import", fmt.Sprintf("could not remove staged upload %s: %v", stagedObject, err), nil)
		}
	}()

	workDir := filepath.Join(ts.workRoot(), fmt.Sprintf("import_zip_%d", time.Now().Unix()))
	extractDir := filepath.Join(workDir, "extracted")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return nil, err
	}

	localZip := filepath.Join(workDir, "upload.zip")
	if err := ts.copyStagedToLocal(ctx, stagedObject, localZip); err != nil {
		return nil, err
	}

	if err := extractZip(localZip, extractDir); err != nil {
		return nil, fmt.Errorf("could not extract archive: %w", err)
	}

	tablePath, err := findTabularFile(extractDir)
	if err != nil {
		return nil, err
	}

	rows, err := parseTabularFile(tablePath)
	if err != nil {
		return nil, err
	}

	// Oldest records first, regardless of row order in the file. Rows with
	// an empty or unparsable Created At sort before everything.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].createdAt.Before(rows[j].createdAt)
	})

	report := &ImportReport{}
	imagesDir := filepath.Join(extractDir, "images")

	for _, row := range rows {
		ts.importRow(ctx, row, imagesDir, report)
	}

	ts.logInfo("import",
		fmt.Sprintf("imported %d created / %d updated / %d skipped portfolios", report.Created, report.Updated, report.Skipped),
		nil, report)

	return report, nil
}

func (ts *TransferService) copyStagedToLocal(ctx context.Context, stagedObject, localPath string) error {
	rc, err := ts.StagingDisk.Open(ctx, stagedObject)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func extractZip(zipPath, destDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, zf := range zr.File {
		name := filepath.Clean(zf.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return fmt.Errorf("archive entry escapes extraction dir: %s", zf.Name)
		}
		dest := filepath.Join(destDir, name)

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}

		in, err := zf.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(dest)
		if err != nil {
			in.Close()
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			in.Close()
			return err
		}
		out.Close()
		in.Close()
	}
	return nil
}

// findTabularFile returns the first csv or xlsx file in the extraction root.
func findTabularFile(extractDir string) (string, error) {
	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
			return filepath.Join(extractDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no data file found in the uploaded archive")
}

func parseTabularFile(path string) ([]importRow, error) {
	var raw [][]string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		raw, err = readXLSXRows(path)
	} else {
		raw, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("data file %s has no rows", filepath.Base(path))
	}

	header := raw[0]
	rows := make([]importRow, 0, len(raw)-1)
	for _, rec := range raw[1:] {
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				fields[col] = rec[i]
			}
		}

		created, parseErr := time.Parse(archiveTimeLayout, fields["Created At"])
		if parseErr != nil {
			created = time.Time{} // earliest possible moment
		}
		rows = append(rows, importRow{fields: fields, createdAt: created})
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// importRow upserts one parsed row and attaches its images. Row-level
// problems are logged and counted, never raised.
func (ts *TransferService) importRow(ctx context.Context, row importRow, imagesDir string, report *ImportReport) {
	fields := row.fields

	id, err := strconv.ParseUint(strings.TrimSpace(fields["ID"]), 10, 32)
	if err != nil || id == 0 {
		ts.logWarn("import_row", fmt.Sprintf("row with invalid ID %q skipped", fields["ID"]), fields)
		report.Skipped++
		return
	}

	order, _ := strconv.Atoi(fields["Order"])

	updated, err := time.Parse(archiveTimeLayout, fields["Updated At"])
	if err != nil {
		updated = row.createdAt
	}

	rec := portfolio.Portfolio{
		ID:          uint(id),
		Title:       portfolio.NormalizeTitle(fields["Title"]),
		Description: fields["Description"],
		Type:        fields["Type"],
		Spacing:     fields["Spacing"],
		Order:       order,
		IsPublished: fields["Is Published"] == "true",
		CreatedAt:   row.createdAt,
		UpdatedAt:   updated,
	}
	if rec.Type == "" {
		rec.Type = portfolio.DefaultType
	}
	if rec.Spacing == "" {
		rec.Spacing = portfolio.SpacingYes
	}
	if v := fields["Before Alt"]; v != "" {
		rec.BeforeAlt = &v
	}
	if v := fields["After Alt"]; v != "" {
		rec.AfterAlt = &v
	}

	wasCreated, err := ts.Portfolios.Upsert(&rec)
	if err != nil {
		ts.logWarn("import_row", fmt.Sprintf("portfolio %d upsert failed: %v", id, err), nil)
		report.Skipped++
		return
	}
	if wasCreated {
		report.Created++
	} else {
		report.Updated++
	}

	ts.attachRowImage(ctx, rec.ID, media.CollectionBefore, fields["Before Image"], imagesDir, report)
	ts.attachRowImage(ctx, rec.ID, media.CollectionAfter, fields["After Image"], imagesDir, report)
}

func (ts *TransferService) attachRowImage(ctx context.Context, portfolioID uint, collection, fileName, imagesDir string, report *ImportReport) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return
	}

	src := filepath.Join(imagesDir, filepath.Base(fileName))
	f, err := os.Open(src)
	if err != nil {
		ts.logWarn("import_image", fmt.Sprintf("portfolio %d %s: %s not found in archive", portfolioID, collection, fileName), nil)
		return
	}
	defer f.Close()

	if err := ts.Media.ClearCollection(ctx, portfolioID, collection); err != nil {
		ts.logWarn("import_image", fmt.Sprintf("portfolio %d %s: clear failed: %v", portfolioID, collection, err), nil)
		return
	}

	contentType := util.MimeFromExt(filepath.Ext(fileName))
	if _, err := ts.Media.Attach(ctx, portfolioID, collection, filepath.Base(fileName), contentType, f, nil); err != nil {
		ts.logWarn("import_image", fmt.Sprintf("portfolio %d %s: attach failed: %v", portfolioID, collection, err), nil)
		return
	}
	report.Images++
}
