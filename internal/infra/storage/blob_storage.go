// Package storage stores uploaded media in a gocloud.dev blob bucket.
// The bucket URL picks the backend: file:// for local disk, mem:// for tests, gs:// for Google Cloud Storage.
package storage

import (
	"context"
	"io"
	"log/slog"

	"miniblog/config"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket URLs
	_ "gocloud.dev/blob/gcsblob"  // gs:// bucket URLs
	_ "gocloud.dev/blob/memblob"  // mem:// bucket URLs
	"gocloud.dev/gcerrors"
)

type blobStorage struct {
	bucket *blob.Bucket
}

// Params defines the dependencies of the object storage.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.ObjectStorage, error) {
	bucketURL := params.Config.Media.BucketURL

	bucket, err := blob.OpenBucket(context.Background(), bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", bucketURL)
	}

	params.Logger.Info("Media bucket opened", slog.String("bucket_url", bucketURL))

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	return NewBlobStorage(bucket), nil
}

// NewBlobStorage wraps an already opened bucket.
func NewBlobStorage(bucket *blob.Bucket) service.ObjectStorage {
	return &blobStorage{bucket: bucket}
}

func (s *blobStorage) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "open writer for %s", key)
	}

	if _, err := io.Copy(w, r); err != nil {
		// Closing after a failed copy still releases the writer; the copy error wins.
		_ = w.Close()

		return errors.Wrapf(err, "write %s", key)
	}

	return errors.Wrapf(w.Close(), "commit %s", key)
}

func (s *blobStorage) Open(ctx context.Context, key string) (io.ReadCloser, *service.ObjectAttributes, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil, service.ErrObjectNotFound
		}

		return nil, nil, errors.Wrapf(err, "open reader for %s", key)
	}

	return r, &service.ObjectAttributes{
		ContentType: r.ContentType(),
		Size:        r.Size(),
		ModTime:     r.ModTime(),
	}, nil
}

func (s *blobStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "delete %s", key)
	}

	return nil
}
