package imagestore

import (
	"bytes"
	"context"
	"fmt"

	"proplens/app/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samber/do"
)

// Uploader is the image storage collaborator. The core keeps only the
// returned reference, never the bytes.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Store struct {
	client *minio.Client
	bucket string
}

var _ Uploader = (*Store)(nil)

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)
	appCtx := do.MustInvoke[context.Context](di)

	cli, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := cli.BucketExists(appCtx, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err = cli.MakeBucket(appCtx, cfg.Storage.Bucket, minio.MakeBucketOptions{
			Region: cfg.Storage.Region,
		}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Store{
		client: cli,
		bucket: cfg.Storage.Bucket,
	}, nil
}

func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}
