package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Provider is the S3-compatible storage vendor.
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
	// ProviderCustom targets any S3-compatible endpoint (MinIO, Scaleway, OVH).
	ProviderCustom Provider = "custom"
)

var wasabiEndpoints = map[string]string{
	"eu-central-1": "s3.eu-central-1.wasabisys.com",
	"eu-central-2": "s3.eu-central-2.wasabisys.com",
	"eu-west-1":    "s3.eu-west-1.wasabisys.com",
	"eu-west-2":    "s3.eu-west-2.wasabisys.com",
	"eu-west-3":    "s3.eu-west-3.wasabisys.com",
	"us-east-1":    "s3.us-east-1.wasabisys.com",
}

type Config struct {
	Provider        Provider
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// ResolveEndpoint returns the base endpoint for the provider, or "" for AWS defaults.
func (c Config) ResolveEndpoint() (string, error) {
	switch c.Provider {
	case ProviderAWS, "":
		return c.Endpoint, nil
	case ProviderWasabi:
		if c.Endpoint != "" {
			return c.Endpoint, nil
		}
		host, ok := wasabiEndpoints[c.Region]
		if !ok {
			return "", fmt.Errorf("unknown Wasabi region: %s", c.Region)
		}
		return "https://" + host, nil
	case ProviderCustom:
		if c.Endpoint == "" {
			return "", fmt.Errorf("S3_ENDPOINT is required for provider %q", c.Provider)
		}
		return c.Endpoint, nil
	default:
		return "", fmt.Errorf("unknown S3 provider: %s", c.Provider)
	}
}

// S3Store writes objects to a single bucket.
type S3Store struct {
	client     *s3.Client
	bucket     string
	encryption bool
}

func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	endpoint, err := cfg.ResolveEndpoint()
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// Non-AWS providers need path-style addressing
			o.UsePathStyle = cfg.Provider != ProviderAWS && cfg.Provider != ""
		}
	})

	return &S3Store{
		client:     client,
		bucket:     cfg.Bucket,
		encryption: cfg.Provider == ProviderAWS || cfg.Provider == "",
	}, nil
}

// Put uploads data under key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if s.encryption {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Delete removes the object stored under key. Deleting a missing key is not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Check verifies that the bucket is reachable with the configured credentials.
func (s *S3Store) Check(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", s.bucket, err)
	}
	return nil
}
