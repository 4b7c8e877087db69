// Package storage provides the object store used for user avatars.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
)

type AvatarStore struct {
	C         *s3.Client
	Bucket    *string
	publicURL string
}

// NewAvatarStore connects to the R2 bucket from the avatars.* config
// keys and verifies it exists before the server starts taking uploads.
func NewAvatarStore() (*AvatarStore, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("avatars.access_key_id"),
			viper.GetString("avatars.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("avatars.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("avatars.account_id")))
		o.Region = "auto"
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &AvatarStore{
		C:         client,
		Bucket:    bucket,
		publicURL: viper.GetString("avatars.public_url"),
	}, nil
}

// Upload stores a new avatar object and returns its key. Keys carry a
// random suffix so a replaced avatar never collides with CDN caches of
// the old one.
func (a *AvatarStore) Upload(ctx context.Context, userID string, body io.Reader, contentType string) (string, error) {
	suffix, err := gonanoid.New(8)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s-%s", userID, suffix)

	_, err = a.C.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      a.Bucket,
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

func (a *AvatarStore) Delete(ctx context.Context, key string) error {
	_, err := a.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: a.Bucket,
		Key:    aws.String(key),
	})

	return err
}

// URL resolves an object key to the public address clients can load.
func (a *AvatarStore) URL(key string) string {
	return fmt.Sprintf("%s/%s", a.publicURL, key)
}
