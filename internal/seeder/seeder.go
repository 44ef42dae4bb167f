package seeder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"portfolio-api/internal/logs"
	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/util"
)

const timeLayout = "2006-01-02 15:04:05"

type LogSink interface {
	Log(entry logs.SystemLog, metadata interface{}) error
}

// Seeder loads migration documents into the record store. It is the
// program behind the loader script shipped in migration archives.
type Seeder struct {
	Portfolios portfolio.PortfolioServiceAPI
	Media      media.MediaServiceAPI
	Logs       LogSink
	Out        io.Writer
}

type Report struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	Deleted  int `json:"deleted"`
}

func (s *Seeder) console(format string, args ...interface{}) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format+"\n", args...)
	}
}

func (s *Seeder) logEntry(level, action, message string) {
	if s.Logs != nil {
		_ = s.Logs.Log(logs.SystemLog{
			Level:   level,
			Service: "seeder",
			Action:  action,
			Message: message,
		}, nil)
	}
}

// loadDocuments parses every .md file in docsDir. Unparsable documents are
// reported and counted on the report, never fatal.
func (s *Seeder) loadDocuments(docsDir string, report *Report) ([]*Document, error) {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		return nil, err
	}

	var docs []*Document
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		doc, err := ParseDocument(filepath.Join(docsDir, e.Name()))
		if err != nil {
			report.Errors++
			s.console("error: %v", err)
			s.logEntry(logs.LevelWarning, "parse_document", err.Error())
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Up imports the documents, newest-exported-first: documents are sorted by
// export_order descending before insertion, with missing export_order values
// defaulting to a sentinel that sorts first. Existing ids are skipped, so
// re-running is safe.
func (s *Seeder) Up(ctx context.Context, docsDir, imagesDir string) (*Report, error) {
	report := &Report{}

	docs, err := s.loadDocuments(docsDir, report)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ExportOrder() > docs[j].ExportOrder()
	})

	for _, doc := range docs {
		err := s.importDocument(ctx, doc, imagesDir)
		if err == errAlreadyExists {
			report.Skipped++
			s.console("skipped portfolio %d (already exists)", doc.Header.ID)
			continue
		}
		if err != nil {
			report.Errors++
			s.console("error: %s: %v", filepath.Base(doc.Path), err)
			s.logEntry(logs.LevelWarning, "import_document", fmt.Sprintf("%s: %v", doc.Path, err))
			continue
		}
		report.Imported++
		s.console("imported portfolio %d (%s)", doc.Header.ID, doc.Header.Title)
	}

	summary := fmt.Sprintf("portfolio seeding finished: %d imported, %d skipped, %d errors",
		report.Imported, report.Skipped, report.Errors)
	s.console("%s", summary)
	s.logEntry(logs.LevelInfo, "seed_up", summary)

	return report, nil
}

var errAlreadyExists = fmt.Errorf("already exists")

func (s *Seeder) importDocument(ctx context.Context, doc *Document, imagesDir string) error {
	exists, err := s.Portfolios.ExistsByID(doc.Header.ID)
	if err != nil {
		return err
	}
	if exists {
		return errAlreadyExists
	}

	rec := recordFromDocument(doc)
	if _, err := s.Portfolios.Upsert(rec); err != nil {
		return err
	}

	s.attachDocumentImage(ctx, rec.ID, media.CollectionBefore, doc.Header.BeforeImage, imagesDir)
	s.attachDocumentImage(ctx, rec.ID, media.CollectionAfter, doc.Header.AfterImage, imagesDir)
	return nil
}

func recordFromDocument(doc *Document) *portfolio.Portfolio {
	h := doc.Header

	rec := &portfolio.Portfolio{
		ID:          h.ID,
		Title:       portfolio.NormalizeTitle(h.Title),
		Description: doc.Body,
		Type:        h.Type,
		Spacing:     h.Spacing,
		Order:       h.Order,
		IsPublished: true,
		BeforeAlt:   h.BeforeAlt,
		AfterAlt:    h.AfterAlt,
	}
	if h.IsPublished != nil {
		rec.IsPublished = *h.IsPublished
	}
	if rec.Type == "" {
		rec.Type = portfolio.DefaultType
	}
	if rec.Spacing == "" {
		rec.Spacing = portfolio.SpacingYes
	}

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if t, err := time.Parse(timeLayout, h.CreatedAt); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(timeLayout, h.UpdatedAt); err == nil {
		rec.UpdatedAt = t
	}

	return rec
}

func (s *Seeder) attachDocumentImage(ctx context.Context, portfolioID uint, collection, fileName, imagesDir string) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return
	}

	src := filepath.Join(imagesDir, filepath.Base(fileName))
	f, err := os.Open(src)
	if err != nil {
		s.console("warning: portfolio %d: image %s not found", portfolioID, fileName)
		s.logEntry(logs.LevelWarning, "attach_image",
			fmt.Sprintf("portfolio %d %s: %s not found", portfolioID, collection, fileName))
		return
	}
	defer f.Close()

	contentType := util.MimeFromExt(filepath.Ext(fileName))
	if _, err := s.Media.Attach(ctx, portfolioID, collection, filepath.Base(fileName), contentType, f, nil); err != nil {
		s.console("warning: portfolio %d: attach %s failed: %v", portfolioID, fileName, err)
		s.logEntry(logs.LevelWarning, "attach_image",
			fmt.Sprintf("portfolio %d %s: attach failed: %v", portfolioID, collection, err))
	}
}

// Down reverses an install by re-reading the same documents and deleting
// each referenced record with its media. There is no separate manifest: if
// the documents were removed after installing, there is nothing to read and
// nothing gets deleted.
func (s *Seeder) Down(ctx context.Context, docsDir string) (*Report, error) {
	report := &Report{}

	docs, err := s.loadDocuments(docsDir, report)
	if err != nil {
		if os.IsNotExist(err) {
			// docs dir gone entirely: reversal is a no-op
			summary := "portfolio reversal finished: 0 deleted (no documents found)"
			s.console("%s", summary)
			s.logEntry(logs.LevelInfo, "seed_down", summary)
			return report, nil
		}
		return nil, err
	}

	for _, doc := range docs {
		exists, err := s.Portfolios.ExistsByID(doc.Header.ID)
		if err != nil {
			report.Errors++
			s.console("error: portfolio %d: %v", doc.Header.ID, err)
			continue
		}
		if !exists {
			report.Skipped++
			continue
		}

		if err := s.Portfolios.Delete(ctx, doc.Header.ID); err != nil {
			report.Errors++
			s.console("error: portfolio %d: %v", doc.Header.ID, err)
			s.logEntry(logs.LevelWarning, "delete_document", fmt.Sprintf("portfolio %d: %v", doc.Header.ID, err))
			continue
		}
		report.Deleted++
		s.console("deleted portfolio %d", doc.Header.ID)
	}

	summary := fmt.Sprintf("portfolio reversal finished: %d deleted, %d errors", report.Deleted, report.Errors)
	s.console("%s", summary)
	s.logEntry(logs.LevelInfo, "seed_down", summary)

	return report, nil
}
