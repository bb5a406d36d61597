package llm

import (
	"context"
)

// Client invokes a chat model with a single rendered prompt. The semantic
// stage is the only caller; it wraps every invocation in a deadline context,
// so implementations must honor ctx cancellation.
type Client interface {
	InvokeModel(ctx context.Context, request Request) (*Response, error)

	// InvokeModelWithRetry retries throttling and transient transport
	// failures with backoff. Non-retryable errors return immediately.
	InvokeModelWithRetry(ctx context.Context, request Request) (*Response, error)
}
