// Package storage implements file storage for uploaded product images on top
// of Go CDK blob buckets. The bucket URL decides the backend; local disk uses
// the file:// scheme.
package storage

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"cafe/config"
	"cafe/internal/domain/lifecycle"
	"cafe/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // register the file:// bucket driver
	"gocloud.dev/gcerrors"
)

// blobStorage implements the FileStorage interface using a gocloud blob bucket.
type blobStorage struct {
	bucket       *blob.Bucket
	publicPrefix string
	logger       *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and returns it as a service.FileStorage.
func New(params Params) (service.FileStorage, error) {
	cfg := params.Config.Uploads
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("uploads bucket URL must be configured")
	}

	openCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open blob bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	prefix := cfg.PublicPrefix
	if prefix == "" {
		prefix = "/uploads"
	}

	return &blobStorage{
		bucket:       bucket,
		publicPrefix: prefix,
		logger:       params.Logger,
	}, nil
}

// Store writes the content under the given key and returns the public path
// the file is served from.
func (s *blobStorage) Store(ctx context.Context, key string, contentType string, content io.Reader) (string, error) {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to open blob writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to write blob")
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close blob writer")
	}

	return path.Join(s.publicPrefix, key), nil
}

// Delete removes the file referenced by a stored public path. A missing blob
// is not an error: the row is gone either way.
func (s *blobStorage) Delete(ctx context.Context, publicPath string) error {
	key := strings.TrimPrefix(publicPath, s.publicPrefix)
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			s.logger.Debug("blob already gone", slog.String("key", key))

			return nil
		}

		return errors.Wrap(err, "failed to delete blob")
	}

	return nil
}
