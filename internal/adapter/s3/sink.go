// Package s3 writes finished export artifacts to an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const csvContentType = "text/csv"

// Sink uploads CSV artifacts to one bucket. It implements
// export.ArtifactSink.
type Sink struct {
	client *s3.Client
	bucket string
}

// New builds a Sink from the ambient AWS credential chain.
func New(ctx context.Context, region, bucket string) (*Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Sink{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// NewWithClient wires an existing client, used by tests and local stacks
// with custom endpoints.
func NewWithClient(client *s3.Client, bucket string) *Sink {
	return &Sink{client: client, bucket: bucket}
}

// WriteArtifact uploads one artifact under the given object key.
func (s *Sink) WriteArtifact(ctx context.Context, key string, content []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(csvContentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
