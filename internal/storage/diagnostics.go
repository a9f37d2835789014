package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/mealmind/backend/config"
)

// Failure is one normalization failure worth keeping for later inspection
type Failure struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Model     string    `json:"model"`
	Kind      string    `json:"kind"`
	Error     string    `json:"error"`
	Response  any       `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive stores failures and returns the key they were stored under
type Archive interface {
	Store(ctx context.Context, failure *Failure) (string, error)
}

// NopArchive discards everything
type NopArchive struct{}

func (NopArchive) Store(context.Context, *Failure) (string, error) {
	return "", nil
}

// objectPutter is the part of *s3.Client the archive needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive writes failures as JSON objects under diagnostics/YYYY/MM/DD/
type S3Archive struct {
	client objectPutter
	bucket string
	now    func() time.Time
}

// NewS3Archive creates an archive writing to the configured bucket
func NewS3Archive(cfg *config.S3Config) *S3Archive {
	return &S3Archive{
		client: cfg.Client,
		bucket: cfg.BucketName,
		now:    time.Now,
	}
}

func (a *S3Archive) Store(ctx context.Context, failure *Failure) (string, error) {
	if failure.ID == "" {
		failure.ID = uuid.NewString()
	}
	if failure.CreatedAt.IsZero() {
		failure.CreatedAt = a.now().UTC()
	}

	body, err := json.Marshal(failure)
	if err != nil {
		return "", fmt.Errorf("failed to encode failure: %w", err)
	}

	key := path.Join("diagnostics", failure.CreatedAt.Format("2006/01/02"), failure.ID+".json")
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}
