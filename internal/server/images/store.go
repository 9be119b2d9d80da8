// Package images archives food photos sent to check-food in S3-compatible
// object storage.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gastrohealth/internal/models"
	sc "github.com/dmitrijs2005/gastrohealth/internal/server/config"
)

var ErrInvalidImage = errors.New("invalid image data")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Store writes images to one bucket. The zero bucket disables it and Save
// becomes a no-op.
type Store struct {
	client *s3.Client
	bucket string
}

func NewStore(ctx context.Context, c *sc.Config) (*Store, error) {
	if c.S3Bucket == "" {
		return &Store{}, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &Store{client: client, bucket: c.S3Bucket}, nil
}

func (s *Store) Enabled() bool {
	return s != nil && s.bucket != ""
}

// Save uploads img and returns its object key, "" when the store is disabled.
// Undecodable data fails with ErrInvalidImage whether or not the store is enabled.
func (s *Store) Save(ctx context.Context, userID string, img *models.FoodImage) (string, error) {
	if img == nil {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil || len(data) == 0 {
		return "", ErrInvalidImage
	}

	if !s.Enabled() {
		return "", nil
	}

	key := StorageKey(now())
	_, err = putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(img.MimeType),
		Metadata:    map[string]string{"user-id": userID},
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, nil
}

// StorageKey returns a fresh key of the form food/yyyy/mm/dd/<uuid>.
func StorageKey(t time.Time) string {
	return fmt.Sprintf("food/%04d/%02d/%02d/%s", t.Year(), t.Month(), t.Day(), uuid.NewString())
}
