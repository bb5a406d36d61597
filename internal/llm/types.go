package llm

// Request carries one fully rendered assessment prompt plus the sampling
// parameters taken from the validator's model config.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response is the provider-neutral answer. StopReason keeps the provider's
// own vocabulary (end_turn, max_tokens, stop, ...).
type Response struct {
	Content    string
	StopReason string
}
