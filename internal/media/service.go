package media

import (
	"context"
	"fmt"
	"io"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaServiceAPI interface {
	Attach(ctx context.Context, portfolioID uint, collection, fileName, contentType string, r io.Reader, props datatypes.JSON) (*Media, error)
	FirstMedia(portfolioID uint, collection string) (*Media, error)
	ListMedia(portfolioID uint, collection string) ([]Media, error)
	Open(ctx context.Context, m *Media) (io.ReadCloser, error)
	URL(m *Media) string
	ClearCollection(ctx context.Context, portfolioID uint, collection string) error
	ClearAll(ctx context.Context, portfolioID uint) error
}

type MediaService struct {
	DB          *gorm.DB
	Disks       map[string]Disk
	DefaultDisk string
}

var _ MediaServiceAPI = (*MediaService)(nil)

func (ms *MediaService) diskFor(name string) (Disk, error) {
	d, ok := ms.Disks[name]
	if !ok {
		return nil, fmt.Errorf("media: disk %q not configured", name)
	}
	return d, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Attach stores the file on the default disk and records a media row.
// The before/after collections hold at most one file, so attaching to
// them replaces whatever is already there. The gallery accumulates.
func (ms *MediaService) Attach(ctx context.Context, portfolioID uint, collection, fileName, contentType string, r io.Reader, props datatypes.JSON) (*Media, error) {
	disk, err := ms.diskFor(ms.DefaultDisk)
	if err != nil {
		return nil, err
	}

	if collection == CollectionBefore || collection == CollectionAfter {
		if err := ms.ClearCollection(ctx, portfolioID, collection); err != nil {
			return nil, err
		}
	}

	m := Media{
		PortfolioID:      portfolioID,
		Collection:       collection,
		Disk:             ms.DefaultDisk,
		FileName:         fileName,
		MimeType:         contentType,
		CustomProperties: props,
	}

	cr := &countingReader{r: r}
	if err := disk.Put(ctx, m.ObjectPath(), cr, contentType); err != nil {
		return nil, err
	}
	m.Size = cr.n

	if err := ms.DB.Create(&m).Error; err != nil {
		// best effort: don't leave an orphaned object behind
		_ = disk.Delete(ctx, m.ObjectPath())
		return nil, err
	}

	return &m, nil
}

// FirstMedia returns the newest media row of the collection, nil when empty.
func (ms *MediaService) FirstMedia(portfolioID uint, collection string) (*Media, error) {
	var m Media
	err := ms.DB.
		Where("portfolio_id = ? AND collection = ?", portfolioID, collection).
		Order("id DESC").
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (ms *MediaService) ListMedia(portfolioID uint, collection string) ([]Media, error) {
	var rows []Media
	err := ms.DB.
		Where("portfolio_id = ? AND collection = ?", portfolioID, collection).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (ms *MediaService) Open(ctx context.Context, m *Media) (io.ReadCloser, error) {
	disk, err := ms.diskFor(m.Disk)
	if err != nil {
		return nil, err
	}
	return disk.Open(ctx, m.ObjectPath())
}

func (ms *MediaService) URL(m *Media) string {
	disk, err := ms.diskFor(m.Disk)
	if err != nil {
		return ""
	}
	return disk.URL(m.ObjectPath())
}

// ClearCollection removes the stored files and media rows of one collection.
// Missing files on disk are not an error; the rows still go.
func (ms *MediaService) ClearCollection(ctx context.Context, portfolioID uint, collection string) error {
	rows, err := ms.ListMedia(portfolioID, collection)
	if err != nil {
		return err
	}

	for _, m := range rows {
		disk, err := ms.diskFor(m.Disk)
		if err != nil {
			return err
		}
		if err := disk.Delete(ctx, m.ObjectPath()); err != nil {
			return err
		}
	}

	return ms.DB.
		Where("portfolio_id = ? AND collection = ?", portfolioID, collection).
		Delete(&Media{}).Error
}

func (ms *MediaService) ClearAll(ctx context.Context, portfolioID uint) error {
	for _, collection := range []string{CollectionBefore, CollectionAfter, CollectionGallery} {
		if err := ms.ClearCollection(ctx, portfolioID, collection); err != nil {
			return err
		}
	}
	return nil
}
