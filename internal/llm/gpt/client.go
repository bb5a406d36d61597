package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client talks to the OpenAI chat completions API with a fixed model.
// Transient-failure retries are delegated to the SDK (WithMaxRetries).
type Client struct {
	api     openai.Client
	modelID string
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(3),
		),
		modelID: model,
	}, nil
}
