package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient calls the OpenAI API for chat completions and embeddings.
// It implements both Client and Embedder so a single credential can serve
// generation and retrieval.
type OpenAIClient struct {
	client     *openai.Client
	embedModel openai.EmbeddingModel
}

// NewOpenAIClient constructs an OpenAI-backed client.  An empty embedModel
// falls back to text-embedding-3-small.  A non-empty baseURL redirects all
// calls, which lets operators point at a proxy or compatible server.
func NewOpenAIClient(apiKey, embedModel, baseURL string) *OpenAIClient {
	if embedModel == "" {
		embedModel = string(openai.SmallEmbedding3)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(cfg),
		embedModel: openai.EmbeddingModel(embedModel),
	}
}

// Generate sends the assembled system instructions and the user message to
// the chat completion API using the persona's model parameters.
func (c *OpenAIClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstructions},
			{Role: openai.ChatMessageRoleUser, Content: req.UserText},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed generates an embedding for a single text.  Transport failures are
// reported as ErrUnavailable so retrieval can degrade instead of erroring.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}
	return resp.Data[0].Embedding, nil
}
