package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
)

// quoteHeaderString renders a string value for a document header:
// double-quoted, with backslash and quote escaping.
func quoteHeaderString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

type headerWriter struct {
	b strings.Builder
}

func (h *headerWriter) str(key, value string) {
	h.b.WriteString(key)
	h.b.WriteString(": ")
	h.b.WriteString(quoteHeaderString(value))
	h.b.WriteByte('\n')
}

func (h *headerWriter) optStr(key string, value *string) {
	// null fields are omitted from the header entirely
	if value == nil {
		return
	}
	h.str(key, *value)
}

func (h *headerWriter) num(key string, value int) {
	h.b.WriteString(key)
	h.b.WriteString(": ")
	h.b.WriteString(strconv.Itoa(value))
	h.b.WriteByte('\n')
}

func (h *headerWriter) boolean(key string, value bool) {
	h.b.WriteString(key)
	h.b.WriteString(": ")
	h.b.WriteString(strconv.FormatBool(value))
	h.b.WriteByte('\n')
}

// buildMigrationDoc renders one record as a markdown document: a ---fenced
// header block followed by a blank line and the raw description as body.
// Header key order is a contract with the loader; keep it stable.
func buildMigrationDoc(rec *portfolio.Portfolio, exportOrder int, beforeName, afterName string) string {
	var h headerWriter

	h.b.WriteString("---\n")
	h.num("export_order", exportOrder)
	h.num("id", int(rec.ID))
	h.str("title", portfolio.DisplayTitle(rec.Title))
	h.str("type", rec.Type)
	h.str("spacing", rec.Spacing)
	h.num("order", rec.Order)
	h.boolean("is_published", rec.IsPublished)
	h.optStr("before_alt", rec.BeforeAlt)
	h.optStr("after_alt", rec.AfterAlt)
	h.str("created_at", rec.CreatedAt.Format(archiveTimeLayout))
	h.str("updated_at", rec.UpdatedAt.Format(archiveTimeLayout))
	if beforeName != "" {
		h.str("before_image", beforeName)
	}
	if afterName != "" {
		h.str("after_image", afterName)
	}
	h.b.WriteString("---\n\n")
	h.b.WriteString(rec.Description)
	h.b.WriteByte('\n')

	return h.b.String()
}

// The loader script carries no record-specific parameters; at install time it
// re-parses the documents shipped next to it.
const loaderScriptTemplate = `#!/usr/bin/env sh
# Loads the exported portfolio records shipped in this archive.
# Usage:
#   ./%s            install (idempotent, skips existing ids)
#   ./%s down       reverse a previous install (re-reads the same documents)
set -e

DIR="$(cd "$(dirname "$0")" && pwd)"

if [ "$1" = "down" ]; then
	portfolio-seeder -docs "$DIR/portfolio/markdown" -images "$DIR/images" down
else
	portfolio-seeder -docs "$DIR/portfolio/markdown" -images "$DIR/images" up
fi
`

const installGuideTemplate = `# Portfolio Migration Package

Generated on %s from %s. Contains %d portfolio record(s).

## Contents

- ` + "`%s`" + ` — the data-loading script (safe to re-run; records whose
  id already exists are skipped)
- ` + "`portfolio/markdown/`" + ` — one document per record
- ` + "`images/`" + ` — before/after images referenced by the documents

## Installing

1. Extract this archive on the target installation.
2. Make sure the ` + "`portfolio-seeder`" + ` binary is on your PATH.
3. Run the loading script:

       ./%s

   The script reports imported / skipped / error counts.

## Reversing

Run the script with ` + "`down`" + ` to delete the records (and their media)
this package created:

       ./%s down

Reversal re-reads the documents in ` + "`portfolio/markdown/`" + `. If you
delete the documents after installing (optional cleanup), reversal has
nothing to read and deletes nothing.
`

// ExportMigration packages the selected records as a self-installing
// migration archive: loader script and guide at the root, one markdown
// document per record under portfolio/markdown/, images under images/.
func (ts *TransferService) ExportMigration(ctx context.Context, ids []uint, host string) (*ExportResult, error) {
	records, err := ts.loadRecords(ids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	workDir := filepath.Join(ts.workRoot(), fmt.Sprintf("export_migration_%d", now.Unix()))
	markdownDir := filepath.Join(workDir, "portfolio", "markdown")
	imagesDir := filepath.Join(workDir, "images")
	for _, dir := range []string{markdownDir, imagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	for i := range records {
		rec := &records[i]
		beforeName, _ := ts.exportCollectionImage(ctx, rec, media.CollectionBefore, imagesDir)
		afterName, _ := ts.exportCollectionImage(ctx, rec, media.CollectionAfter, imagesDir)

		doc := buildMigrationDoc(rec, i+1, beforeName, afterName)
		docPath := filepath.Join(markdownDir, fmt.Sprintf("portfolio-%d.md", rec.ID))
		if err := os.WriteFile(docPath, []byte(doc), 0o644); err != nil {
			return nil, err
		}
	}

	est := now.In(easternTime)
	scriptName := fmt.Sprintf("%s_populate_exported_portfolios.sh", est.Format("2006_01_02_150405"))
	scriptPath := filepath.Join(workDir, scriptName)
	script := fmt.Sprintf(loaderScriptTemplate, scriptName, scriptName)
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		return nil, err
	}

	guidePath := filepath.Join(workDir, "README.md")
	guide := fmt.Sprintf(installGuideTemplate,
		est.Format(archiveTimeLayout), host, len(records),
		scriptName, scriptName, scriptName)
	if err := os.WriteFile(guidePath, []byte(guide), 0o644); err != nil {
		return nil, err
	}

	archiveName := buildExportFilename(host, len(records), true, now)
	archivePath := filepath.Join(workDir, archiveName)
	err = writeArchive(archivePath,
		map[string]string{
			scriptName:  scriptPath,
			"README.md": guidePath,
		},
		map[string]string{
			"portfolio/markdown": markdownDir,
			"images":             imagesDir,
		})
	if err != nil {
		return nil, err
	}

	ts.logInfo("export_migration",
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
