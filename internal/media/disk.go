package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrObjectNotFound = errors.New("media: object not found")

// Disk is a flat object store addressed by slash-separated paths.
// Implementations: LocalDisk (filesystem) and GCSDisk (Cloud Storage).
type Disk interface {
	Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	Exists(ctx context.Context, objectPath string) (bool, error)
	Delete(ctx context.Context, objectPath string) error
	List(ctx context.Context, prefix string) ([]string, error)
	URL(objectPath string) string
}

type LocalDisk struct {
	Root    string
	BaseURL string
}

func (d *LocalDisk) fullPath(objectPath string) string {
	return filepath.Join(d.Root, filepath.FromSlash(objectPath))
}

func (d *LocalDisk) Put(_ context.Context, objectPath string, r io.Reader, _ string) error {
	full := d.fullPath(objectPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *LocalDisk) Open(_ context.Context, objectPath string) (io.ReadCloser, error) {
	f, err := os.Open(d.fullPath(objectPath))
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	return f, err
}

func (d *LocalDisk) Exists(_ context.Context, objectPath string) (bool, error) {
	_, err := os.Stat(d.fullPath(objectPath))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (d *LocalDisk) Delete(_ context.Context, objectPath string) error {
	err := os.Remove(d.fullPath(objectPath))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *LocalDisk) List(_ context.Context, prefix string) ([]string, error) {
	root := d.fullPath(prefix)
	var out []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(d.Root, p)
		if relErr != nil {
			return relErr
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}

func (d *LocalDisk) URL(objectPath string) string {
	base := strings.TrimSuffix(d.BaseURL, "/")
	return fmt.Sprintf("%s/%s", base, objectPath)
}

// LocalPath exposes the absolute filesystem location, for callers that
// hand files to tooling which wants a path instead of a reader.
func (d *LocalDisk) LocalPath(objectPath string) string {
	return d.fullPath(objectPath)
}
