package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// S3Config holds construction parameters for an S3Store.
type S3Config struct {
	Bucket    string
	Prefix    string // Prepended to every key
	Region    string // Default us-east-1
	Endpoint  string // Optional; set for MinIO and other S3-compatible servers
	PathStyle bool

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// HTTPClient overrides the SDK transport (tests).
	HTTPClient aws.HTTPClient
}

// S3Store is a read-only core.BlobStore over one S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates a store from cfg. No request is made until Stat or Open.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Location returns the bucket and prefix as an s3:// URL.
func (s *S3Store) Location() string {
	return "s3://" + s.bucket + "/" + strings.TrimPrefix(s.prefix, "/")
}

func (s *S3Store) objectKey(key string) string {
	return s.prefix + key
}

// Stat issues a HEAD for the object. A missing object in a missing bucket is
// reported as a missing root.
func (s *S3Store) Stat(ctx context.Context, key string) error {
	objKey := s.objectKey(key)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objKey})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return &core.DataSourceMissingError{Path: s.uri(objKey), Cause: core.CauseUnreadable, Err: err}
	}

	if _, berr := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket}); berr != nil && isNotFound(berr) {
		return &core.DataSourceMissingError{Path: "s3://" + s.bucket, Cause: core.CauseMissingRoot, Err: berr}
	}
	return &core.DataSourceMissingError{Path: s.uri(objKey), Cause: core.CauseMissingFile, Err: err}
}

// Open fetches the object body. The caller closes it.
func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	objKey := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &objKey})
	if err != nil {
		cause := core.CauseUnreadable
		if isNotFound(err) {
			cause = core.CauseMissingFile
		}
		return nil, &core.DataSourceMissingError{Path: s.uri(objKey), Cause: cause, Err: err}
	}
	return out.Body, nil
}

func (s *S3Store) uri(objKey string) string {
	return "s3://" + s.bucket + "/" + objKey
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
