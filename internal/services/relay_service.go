package services

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

var (
	ErrNoCandidates = errors.New("response contains no candidates")
	ErrNoContent    = errors.New("first candidate has no content parts")
)

// ContentGenerator is the part of *genai.Models the relay needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// RelayService forwards prompts to the generation API together with a
// system instruction fixed at construction time. It is safe for concurrent use.
type RelayService struct {
	models            ContentGenerator
	model             string
	systemInstruction string
}

func NewRelayService(models ContentGenerator, model, systemInstruction string) *RelayService {
	return &RelayService{
		models:            models,
		model:             model,
		systemInstruction: systemInstruction,
	}
}

// Model returns the model identifier sent with every request.
func (s *RelayService) Model() string {
	return s.model
}

// Process makes exactly one GenerateContent call. Errors from the API are
// returned unchanged.
func (s *RelayService) Process(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: s.systemInstruction}},
		},
	}

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	return firstCandidateText(resp)
}

// firstCandidateText reads Candidates[0].Content.Parts[0].Text and nothing else.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", ErrNoCandidates
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", ErrNoContent
	}
	return content.Parts[0].Text, nil
}
