package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

type Adapter struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Adapter{client: client, model: model}, nil
}

// AnalyzeTranscript asks the model for the key moments of the whole video.
// The result is informational: it lands in the manifest for the operator,
// range selection itself stays deterministic.
func (a *Adapter) AnalyzeTranscript(ctx context.Context, transcript, videoTitle string) (string, error) {
	return a.generate(ctx, analyzePrompt(transcript, videoTitle))
}

// GenerateTitle produces title suggestions for one clip.
func (a *Adapter) GenerateTitle(ctx context.Context, clipText string) (string, error) {
	return a.generate(ctx, titlePrompt(clipText))
}

// GenerateTextHook produces the short overlay text for the first seconds of
// one clip.
func (a *Adapter) GenerateTextHook(ctx context.Context, clipText string) (string, error) {
	return a.generate(ctx, hookPrompt(clipText))
}

func (a *Adapter) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}
