// Package sns dispatches composed weather alerts through AWS SNS.
package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/couchcryptid/weather-enrichment-etl/internal/alert"
)

// Publisher sends alert messages to an SNS topic. It implements
// pipeline.AlertPublisher.
type Publisher struct {
	client *sns.Client
}

// New builds a Publisher from the ambient AWS credential chain.
func New(ctx context.Context, region string) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Publisher{client: sns.NewFromConfig(cfg)}, nil
}

// NewWithClient wires an existing client, used by tests.
func NewWithClient(client *sns.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends one alert to its target topic.
func (p *Publisher) Publish(ctx context.Context, msg alert.Message) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(msg.Target),
		Subject:  aws.String(msg.Subject),
		Message:  aws.String(msg.Body),
	})
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}
