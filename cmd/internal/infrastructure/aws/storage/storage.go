package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentTypeSQLite is attached to uploaded database snapshots.
const ContentTypeSQLite = "application/vnd.sqlite3"

type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

type storageClient struct {
	bucket string
	client *s3.Client
}

func NewStorageClient(ctx context.Context, region, bucket string) (Uploader, error) {
	if bucket == "" {
		return nil, errors.New("bucket name is empty")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &storageClient{
		bucket: bucket,
		client: s3.NewFromConfig(cfg),
	}, nil
}

func (s *storageClient) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if key == "" {
		return errors.New("object key is empty")
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}

	_, err := s.client.PutObject(ctx, input)
	return err
}
