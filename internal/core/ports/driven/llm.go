package driven

import "context"

// LLMService provides text generation for answer synthesis.
//
// Implementations make one blocking call per request with a fixed timeout;
// an unresponsive backend resolves to an error, never a hang.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ListModels returns the model identifiers the backend advertises.
	// Used for the advisory availability probe at startup.
	ListModels(ctx context.Context) ([]string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string
}

// GenerateOptions configures decoding behaviour.
type GenerateOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// TopP is the nucleus-sampling threshold.
	TopP float64

	// MaxTokens bounds the output length.
	MaxTokens int
}
