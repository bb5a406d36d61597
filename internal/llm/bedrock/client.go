package bedrock

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Client talks to one Claude model on Amazon Bedrock. Credentials come from
// the default AWS chain (env, shared config, instance role).
type Client struct {
	runtime      *bedrockruntime.Client
	modelID      string
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

func NewClient(ctx context.Context, region string, modelID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{
		runtime:      bedrockruntime.NewFromConfig(cfg),
		modelID:      modelID,
		maxRetries:   3,
		initialDelay: 200 * time.Millisecond,
		maxDelay:     8 * time.Second,
	}, nil
}
