package minio

import (
	"bannerapi/internal/imagestage"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

// Stager stores images as objects in a single bucket. The object key is the
// reference kept on the banner row.
type Stager struct {
	log    *slog.Logger
	client *minio.Client
	bucket string
}

// New connects to the object store and makes sure the bucket exists.
func New(ctx context.Context, log *slog.Logger, cfg Config) (*Stager, error) {
	const op = "imagestage.minio.New"

	log = log.With(
		slog.String("component", "imagestage.minio"),
		slog.String("bucket", cfg.BucketName),
	)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to initialize minio client: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check bucket %q: %w", op, cfg.BucketName, err)
	}
	if !exists {
		log.Info("bucket not found, creating")
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create bucket %q: %w", op, cfg.BucketName, err)
		}
	}

	log.Info("minio image stage ready", slog.String("endpoint", cfg.Endpoint))

	return &Stager{
		log:    log,
		client: client,
		bucket: cfg.BucketName,
	}, nil
}

func (s *Stager) Stage(ctx context.Context, data []byte, ext string) (string, error) {
	const op = "imagestage.minio.Stage"

	ref := imagestage.NewReference(ext)

	contentType := mime.TypeByExtension(filepath.Ext(ref))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, ref, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to upload object: %w", op, err)
	}

	s.log.Debug("image staged", slog.String("ref", ref), slog.Int("size", len(data)))

	return ref, nil
}

func (s *Stager) Discard(ctx context.Context, ref string) error {
	const op = "imagestage.minio.Discard"

	if !imagestage.ValidReference(ref) {
		return fmt.Errorf("%s: %w", op, imagestage.ErrInvalidReference)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: failed to remove object: %w", op, err)
	}

	return nil
}
