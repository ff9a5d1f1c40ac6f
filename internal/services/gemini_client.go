package services

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

var newGenaiClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// NewGeminiModels connects to the Gemini API backend. The client checks the
// key eagerly, so a missing key fails here rather than on the first request.
func NewGeminiModels(ctx context.Context, apiKey string, httpClient *http.Client) (ContentGenerator, error) {
	client, err := newGenaiClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client.Models, nil
}
