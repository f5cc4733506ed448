// internal/app/store/files/files.go

// Package files stores the uploaded score files in an S3-compatible object
// store (AWS S3 or MinIO). Objects are keyed "{owner_email}/{sheet_id}.{ext}"
// so the lineage id doubles as the storage basename.
package files

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds object-store connection settings. Endpoint and UsePathStyle
// are for MinIO or other S3-compatible backends; leave AccessKey/SecretKey
// empty to use the default AWS credential chain.
type Config struct {
	Region       string
	Bucket       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Store is the object-store client for sheet files.
type Store struct {
	client *s3.Client
	bucket string
}

// Connect builds the S3 client from cfg.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey, cfg.SecretKey, "")),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Key is the canonical object key for a sheet file.
func Key(ownerEmail, sheetID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", ownerEmail, sheetID, ext)
}

// Put uploads a sheet file.
func (s *Store) Put(ctx context.Context, ownerEmail, sheetID, ext string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(Key(ownerEmail, sheetID, ext)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Get opens a sheet file for reading. The caller closes the returned body.
func (s *Store) Get(ctx context.Context, ownerEmail, sheetID, ext string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(Key(ownerEmail, sheetID, ext)),
	})
	if err != nil {
		return nil, "", fmt.Errorf("get object: %w", err)
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

// Copy duplicates the stored file of one lineage member under a new
// sheet_id, used when a sheet is edited without uploading a replacement.
func (s *Store) Copy(ctx context.Context, ownerEmail, oldSheetID, newSheetID, ext string) error {
	src := s.bucket + "/" + Key(ownerEmail, oldSheetID, ext)
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(Key(ownerEmail, newSheetID, ext)),
		CopySource: aws.String(url.PathEscape(src)),
	})
	if err != nil {
		return fmt.Errorf("copy object: %w", err)
	}
	return nil
}

// Delete removes a stored sheet file. Deleting an absent object is a no-op.
func (s *Store) Delete(ctx context.Context, ownerEmail, sheetID, ext string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(Key(ownerEmail, sheetID, ext)),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
