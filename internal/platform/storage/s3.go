// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures an [S3Store].
type S3Options struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	PublicURL    string
	UsePathStyle bool
}

// s3API is the part of [*s3.Client] the store calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store keeps objects in an S3-compatible bucket.
type S3Store struct {
	client    s3API
	bucket    string
	publicURL string
}

// NewS3Store loads AWS configuration and builds the client.
//
// Static keys are used when both are set (MinIO, R2); otherwise the default
// credential chain applies (env vars, IAM roles).
func NewS3Store(ctx context.Context, options S3Options) (*S3Store, error) {
	loadOptions := []func(*config.LoadOptions) error{config.WithRegion(options.Region)}
	if options.AccessKey != "" && options.SecretKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.UsePathStyle
	})

	return newS3Store(client, options), nil
}

func newS3Store(client s3API, options S3Options) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    options.Bucket,
		publicURL: publicBaseURL(options),
	}
}

// Put uploads body with a SHA-256 checksum recorded in the object metadata.
func (store *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}

	// Uploads are capped upstream, so buffering gives the SDK a seekable body.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("storage: failed to read content: %w", err)
	}

	checksum := sha256.Sum256(data)

	_, err = store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"checksum-sha256": hex.EncodeToString(checksum[:]),
		},
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload to s3: %w", err)
	}

	return store.publicURL + "/" + key, nil
}

// Delete removes the object. S3 treats missing keys as success already.
func (store *S3Store) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	var noSuchKey *types.NoSuchKey
	if err != nil && !errors.As(err, &noSuchKey) {
		return fmt.Errorf("storage: failed to delete object: %w", err)
	}
	return nil
}

// Ping verifies bucket reachability with HeadBucket.
func (store *S3Store) Ping(ctx context.Context) error {
	_, err := store.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(store.bucket),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 health check failed: %w", err)
	}
	return nil
}

// publicBaseURL picks the URL prefix clients use to fetch objects.
//
// Order: explicit PublicURL, then the custom endpoint, then the AWS
// virtual-hosted URL.
func publicBaseURL(options S3Options) string {
	if options.PublicURL != "" {
		return strings.TrimRight(options.PublicURL, "/")
	}

	if options.Endpoint != "" {
		endpoint := strings.TrimRight(options.Endpoint, "/")
		if options.UsePathStyle {
			return endpoint + "/" + options.Bucket
		}
		if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
			parsed.Host = options.Bucket + "." + parsed.Host
			return parsed.String()
		}
		return endpoint + "/" + options.Bucket
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", options.Bucket, options.Region)
}
