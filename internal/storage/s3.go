package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/edustack/lms-service/internal/models"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// allowedExtensions maps each upload category to the extensions accepted for
// it. Extensions are compared lowercased with the leading dot.
var allowedExtensions = map[models.UploadCategory][]string{
	models.UploadCategoryDocument: {".pdf", ".doc", ".docx", ".txt", ".md", ".ppt", ".pptx", ".xls", ".xlsx"},
	models.UploadCategoryImage:    {".png", ".jpg", ".jpeg", ".gif", ".webp"},
	models.UploadCategoryArchive:  {".zip", ".tar", ".gz", ".rar"},
}

type BlobStore struct {
	client   *s3.S3
	bucket   string
	endpoint string
	maxSize  int64
}

func NewBlobStore(region, bucket, endpoint string, maxSize int64) (*BlobStore, error) {
	cfg := aws.NewConfig().WithRegion(region)
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return &BlobStore{
		client:   s3.New(sess),
		bucket:   bucket,
		endpoint: endpoint,
		maxSize:  maxSize,
	}, nil
}

// ValidateUpload checks size and extension before any bytes leave the
// process. It returns the normalized extension on success.
func (b *BlobStore) ValidateUpload(filename string, size int64, category models.UploadCategory) (string, error) {
	if size > b.maxSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions[category] {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrUnsupportedFileType
}

func (b *BlobStore) Upload(ctx context.Context, userID string, category models.UploadCategory, filename, contentType string, data []byte) (*models.UploadedFile, error) {
	ext, err := b.ValidateUpload(filename, int64(len(data)), category)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s%s", category, userID, uuid.New().String(), ext)
	_, err = b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	return &models.UploadedFile{
		Key:        key,
		Name:       filename,
		URL:        b.objectURL(key),
		Size:       int64(len(data)),
		Category:   category,
		UploadedBy: userID,
		UploadedAt: time.Now(),
	}, nil
}

func (b *BlobStore) List(ctx context.Context, userID string, category models.UploadCategory) ([]*models.UploadedFile, error) {
	prefix := fmt.Sprintf("%s/%s/", category, userID)
	out, err := b.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	files := make([]*models.UploadedFile, 0, len(out.Contents))
	for _, obj := range out.Contents {
		files = append(files, &models.UploadedFile{
			Key:        aws.StringValue(obj.Key),
			Name:       filepath.Base(aws.StringValue(obj.Key)),
			URL:        b.objectURL(aws.StringValue(obj.Key)),
			Size:       aws.Int64Value(obj.Size),
			Category:   category,
			UploadedBy: userID,
			UploadedAt: aws.TimeValue(obj.LastModified),
		})
	}
	return files, nil
}

func (b *BlobStore) objectURL(key string) string {
	if b.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.endpoint, "/"), b.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", b.bucket, key)
}
