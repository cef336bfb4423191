package gcs

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ObjectWriters opens writers for objects in one bucket.
type ObjectWriters interface {
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
}

type bucketWriters struct {
	bucket *storage.BucketHandle
}

func (b bucketWriters) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := b.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

// Uploader copies a produced archive folder into a bucket.
type Uploader struct {
	writers ObjectWriters
}

func NewUploader(client *storage.Client, bucket string) *Uploader {
	return &Uploader{writers: bucketWriters{bucket: client.Bucket(bucket)}}
}

func NewUploaderWithWriters(writers ObjectWriters) *Uploader {
	return &Uploader{writers: writers}
}

// ContentType picks the object content type from the file extension.
func ContentType(name string) string {
	switch filepath.Ext(name) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// UploadTree uploads every regular file below dir. Object names are the slash separated paths
// relative to dir's parent, under prefix, so the archive folder name is kept.
func (u *Uploader) UploadTree(ctx context.Context, dir, prefix string) (int, error) {
	base := filepath.Dir(filepath.Clean(dir))
	uploaded := 0

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		object := path.Join(prefix, filepath.ToSlash(rel))
		if err := u.uploadFile(ctx, p, object); err != nil {
			return errors.WithMessagef(err, "could not upload %s", rel)
		}
		uploaded++
		log.WithField("object", object).Debug("uploaded")
		return nil
	})
	return uploaded, err
}

func (u *Uploader) uploadFile(ctx context.Context, file, object string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := u.writers.NewWriter(ctx, object, ContentType(file))
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
