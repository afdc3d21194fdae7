package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"log-analyzer/internal/config"
	apperr "log-analyzer/internal/errors"
	"log-analyzer/internal/model"
	"log-analyzer/internal/report"
)

// PutObjectAPI is the part of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads the report as a single object.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	key    string
}

func NewS3Sink(client PutObjectAPI, bucket, key string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, key: key}
}

// NewS3Client builds an S3 client from the default AWS chain, overridden by
// any region, endpoint or static credentials in cfg.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrOpenSink, err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(u string) (bucket, key string, err error) {
	if len(u) < 5 || !strings.EqualFold(u[:5], "s3://") {
		return "", "", fmt.Errorf("%w: %q is not an s3:// URL", ErrOpenSink, u)
	}
	bucket, key, ok := strings.Cut(u[5:], "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q must look like s3://bucket/key", ErrOpenSink, u)
	}
	return bucket, key, nil
}

func (s *S3Sink) Write(ctx context.Context, t model.LevelTally) error {
	data, err := report.Encode(t)
	if err != nil {
		return apperr.E(apperr.KindWrite, "write", s.String(), err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return apperr.E(apperr.KindWrite, "write", s.String(), fmt.Errorf("%w: put object: %v", ErrWriteSink, err))
	}
	return nil
}

func (s *S3Sink) Close() error { return nil }

func (s *S3Sink) String() string { return "s3://" + s.bucket + "/" + s.key }
