package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	configpkg "github.com/startsnapfun/startsnap-backend/config"
	"github.com/startsnapfun/startsnap-backend/errs"
)

// MaxImageSize is the per-file upload cap.
const MaxImageSize = 5 * 1024 * 1024

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ValidateImage checks size and sniffed content type against the image
// policy. The declared content type is ignored; the first bytes decide.
// Returns the detected content type on success.
func ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > MaxImageSize {
		return "", errs.NewImageTooLargeError(int64(len(data)), MaxImageSize)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)
	if _, ok := imageExtensions[contentType]; !ok {
		return "", errs.NewUnsupportedImageTypeError(contentType)
	}
	return contentType, nil
}

// ImageStore stores project images under per-user paths and hands back
// public URLs.
type ImageStore interface {
	Upload(ctx context.Context, userID uuid.UUID, data []byte) (string, error)
	Delete(ctx context.Context, userID uuid.UUID, publicURL string) error
}

// S3ImageStore keeps images in an S3 bucket under `{userID}/{random}{ext}`
// keys. Public URLs are `{publicBaseURL}/{key}`.
type S3ImageStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewS3ImageStore builds an image store from the environment:
// S3_BUCKET, S3_REGION, S3_PUBLIC_BASE_URL, optional S3_ENDPOINT for
// S3-compatible providers, and the usual AWS credential variables.
func NewS3ImageStore(ctx context.Context, c map[string]string) (*S3ImageStore, error) {
	bucket := configpkg.GetString(c, "S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not set")
	}
	region := configpkg.GetString(c, "S3_REGION", "us-east-1")
	publicBase := strings.TrimSuffix(configpkg.GetString(c, "S3_PUBLIC_BASE_URL", ""), "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	accessKey := configpkg.GetString(c, "AWS_ACCESS_KEY_ID", "")
	secretKey := configpkg.GetString(c, "AWS_SECRET_ACCESS_KEY", "")
	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	endpoint := configpkg.GetString(c, "S3_ENDPOINT", "")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBase,
		logger:        log.With().Str("serviceName", "imageStore").Logger(),
	}, nil
}

// Upload validates the image and writes it under the user's prefix. The
// returned URL is publicly readable.
func (s *S3ImageStore) Upload(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	contentType, err := ValidateImage(data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", userID, uuid.New(), imageExtensions[contentType])
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.NewStorageUploadError(key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return s.publicBaseURL + "/" + key, nil
}

// Delete removes an image by its public URL. The key must sit under the
// caller's own prefix; anything else is refused before touching storage.
func (s *S3ImageStore) Delete(ctx context.Context, userID uuid.UUID, publicURL string) error {
	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(key, userID.String()+"/") {
		return errs.NewForeignStoragePathError(key)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageDeleteError(key, err)
	}
	return nil
}

func (s *S3ImageStore) keyFromURL(publicURL string) (string, error) {
	if !strings.HasPrefix(publicURL, s.publicBaseURL+"/") {
		return "", errs.BadRequest("URL does not belong to this image store")
	}
	key := strings.TrimPrefix(publicURL, s.publicBaseURL+"/")
	if key == "" || key != path.Clean(key) || strings.Contains(key, "..") {
		return "", errs.BadRequest("malformed image URL")
	}
	return key, nil
}
