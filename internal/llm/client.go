package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable marks an embedding backend that could not be reached.
// Callers are expected to degrade (unranked retrieval, no semantic routing)
// rather than surface this to the user.
var ErrUnavailable = errors.New("embedding service unavailable")

// GenerationRequest carries everything the engine has decided about a single
// text-generation call: the assembled system instructions, the raw user
// message, and the active persona's model parameters.
type GenerationRequest struct {
	SystemInstructions string
	UserText           string
	Model              string
	Temperature        float32
}

// Client generates text from a language model.  Generation failures are the
// one error the engine propagates; retry policy belongs to the caller.
type Client interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Embedder converts text into a dense vector.  A broken or unreachable
// backend returns an error wrapping ErrUnavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder constructs an embedding backend by provider name.
// Supported providers: "openai" and "genai".  The endpoint override only
// applies to the openai backend; the Gemini SDK manages its own base URL.
func NewEmbedder(ctx context.Context, provider, apiKey, model, endpoint string) (Embedder, error) {
	switch provider {
	case "openai", "":
		return NewOpenAIClient(apiKey, model, endpoint), nil
	case "genai":
		return NewGenAIEmbedder(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q (use 'openai' or 'genai')", provider)
	}
}
