package inspector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 client the archiver uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver stores snapshots as JSON objects in an S3 bucket.
//
// Example usage:
//
//	client := s3.NewFromConfig(cfg)
//	arch := inspector.NewArchiver(client, "my-bucket", "weft/snapshots")
//	key, err := arch.Archive(ctx, in.Latest())
type Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewArchiver creates an archiver writing under prefix in bucket.
func NewArchiver(client ObjectPutter, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// S3Options configures NewS3Archiver.
type S3Options struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string

	// Credentials defaults to the AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
	// and AWS_SESSION_TOKEN environment variables.
	Credentials aws.CredentialsProvider
}

// NewS3Archiver creates an archiver backed by an S3 client. A custom
// Endpoint switches to path-style addressing for S3-compatible stores.
func NewS3Archiver(opts S3Options, getenv func(string) string) *Archiver {
	creds := opts.Credentials
	if creds == nil {
		creds = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
				SessionToken:    getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}, nil
		})
	}
	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: aws.NewCredentialsCache(creds),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewArchiver(client, opts.Bucket, opts.Prefix)
}

// Key returns the object key for s.
func (a *Archiver) Key(s *Snapshot) string {
	return path.Join(a.prefix, fmt.Sprintf("%08d-%016x.json", s.Sequence, s.Fingerprint))
}

// Archive uploads s and returns its object key.
func (a *Archiver) Archive(ctx context.Context, s *Snapshot) (string, error) {
	if s == nil {
		return "", fmt.Errorf("inspector: nothing to archive")
	}
	body, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("inspector: encode snapshot: %w", err)
	}

	key := a.Key(s)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"fibers":      strconv.Itoa(s.Fibers),
			"captured-at": s.CapturedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("inspector: s3 upload failed: %w", err)
	}
	return key, nil
}
