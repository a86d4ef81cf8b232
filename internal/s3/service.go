package s3

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"github.com/gymportal/portal/internal/config"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/logger"
)

const (
	defaultPresignExpiryDuration = 15 * time.Minute
)

var (
	validDocumentTypes = []DocumentType{DocumentTypeWaiver}
)

type Service interface {
	UploadDocument(ctx context.Context, document *Document) (string, error)
	GetPresignedUrl(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type s3ServiceImpl struct {
	client *s3.Client
	config *config.S3Config
}

// NewService returns nil when S3 is disabled; callers treat a nil Service as
// "document storage unavailable"
func NewService(cfg *config.Configuration, logger *logger.Logger) (Service, error) {
	if !cfg.S3.Enabled {
		logger.Info("S3 is disabled, waiver documents will not be stored")
		return nil, nil
	}

	awsCfg, err := config.LoadAwsConfig(context.Background(), cfg.S3)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return &s3ServiceImpl{
		config: &cfg.S3,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *s3ServiceImpl) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.WaiverBucket),
		Key:    aws.String(key),
	})

	if err != nil {
		var nsk *types.NoSuchKey
		var nske *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nske) {
			return false, nil
		}
		return false, ierr.NewErrorf("failed to check if document exists: %w", err).
			Mark(ierr.ErrHTTPClient)
	}

	return true, nil
}

func (s *s3ServiceImpl) GetPresignedUrl(ctx context.Context, key string) (string, error) {
	duration := s.config.PresignExpiry
	if duration <= 0 {
		duration = defaultPresignExpiryDuration
	}

	presigner := s3.NewPresignClient(s.client)
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.WaiverBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", s.config.WaiverBucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return result.URL, nil
}

// UploadDocument stores the document and returns its object key
func (s *s3ServiceImpl) UploadDocument(ctx context.Context, document *Document) (string, error) {
	key, err := document.Key()
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.WaiverBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(document.Kind.ContentType()),
		Metadata:    map[string]string{"owner-id": document.OwnerID},
	})
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.config.WaiverBucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return key, nil
}
