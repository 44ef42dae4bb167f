package media

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"portfolio-api/internal/util"
)

// newGCSClientHook exists so tests can point the disk at a fake server.
var newGCSClientHook = func(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// GCSDisk stores objects in a Cloud Storage bucket. A fresh client is opened
// per operation so the disk itself carries no connection state.
type GCSDisk struct {
	Bucket string
}

func (d *GCSDisk) Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	w := client.Bucket(d.Bucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (d *GCSDisk) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return nil, err
	}

	rd, err := client.Bucket(d.Bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		client.Close()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &gcsObjectReader{r: rd, client: client}, nil
}

func (d *GCSDisk) Exists(ctx context.Context, objectPath string) (bool, error) {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return false, err
	}
	defer client.Close()

	_, err = client.Bucket(d.Bucket).Object(objectPath).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *GCSDisk) Delete(ctx context.Context, objectPath string) error {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Bucket(d.Bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (d *GCSDisk) List(ctx context.Context, prefix string) ([]string, error) {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var out []string
	it := client.Bucket(d.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, obj.Name)
	}
	return out, nil
}

func (d *GCSDisk) URL(objectPath string) string {
	return util.PublicGCSURL(d.Bucket, objectPath)
}

// gcsObjectReader ties the per-operation client's lifetime to the reader's.
type gcsObjectReader struct {
	r      *storage.Reader
	client *storage.Client
}

func (g *gcsObjectReader) Read(p []byte) (int, error) { return g.r.Read(p) }

func (g *gcsObjectReader) Close() error {
	err := g.r.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}
