// Package snapshot saves the database behind a jlite Connection to a local
// file or to an S3 object.
//
// Targets are plain paths, file:// URLs or s3://bucket/key URLs. S3 uploads
// go through a temporary local backup file which is removed afterwards.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shrek82/jlite/core"
)

// S3Config contains S3 authentication configuration.
// Empty fields fall back to the default AWS configuration chain.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	// Endpoint selects an S3-compatible service and path-style addressing.
	Endpoint string
}

// urlScheme represents the scheme of a target
type urlScheme string

const (
	schemeLocal urlScheme = "local"
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
)

// detectScheme detects the scheme of a target string
func detectScheme(target string) urlScheme {
	lower := strings.ToLower(target)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return schemeS3
	case strings.HasPrefix(lower, "file://"):
		return schemeFile
	case strings.Contains(lower, "://"):
		return urlScheme(lower[:strings.Index(lower, "://")])
	default:
		return schemeLocal
	}
}

// putObjectAPI is the part of *s3.Client used for uploads.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// newS3Client builds the upload client; tests swap it for a fake.
var newS3Client = func(ctx context.Context, cfg *S3Config) (putObjectAPI, error) {
	return getS3Client(ctx, cfg)
}

// Save writes the main database of conn to target. cfg is only consulted for
// s3:// targets and may be nil.
func Save(ctx context.Context, conn *core.Connection, target string, cfg *S3Config) error {
	switch scheme := detectScheme(target); scheme {
	case schemeLocal:
		return conn.SaveToDisk(target)
	case schemeFile:
		return conn.SaveToDisk(target[len("file://"):])
	case schemeS3:
		return saveS3(ctx, conn, target, cfg)
	default:
		return fmt.Errorf("unsupported snapshot target scheme %q: %s", scheme, target)
	}
}

func saveS3(ctx context.Context, conn *core.Connection, target string, cfg *S3Config) error {
	bucket, key, err := parseS3URL(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "jlite-snapshot-*.db")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := conn.SaveToDisk(path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	return upload(ctx, client, bucket, key, f)
}

func upload(ctx context.Context, client putObjectAPI, bucket, key string, body io.Reader) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// parseS3URL parses s3://bucket/key into bucket and key parts
func parseS3URL(url string) (bucket, key string, err error) {
	path := url[len("s3://"):]
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// getS3Client creates an S3 client with the given configuration
func getS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg != nil && cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg != nil && cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}
