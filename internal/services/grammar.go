package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const grammarPrompt = `Act as a professional editor. Correct the grammar and spelling of the following text.
Return ONLY the corrected text. If the text is already correct, return it as is.

Text:
%s`

// contentGenerator is the subset of *genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GrammarChecker asks a Gemini model to correct text. A checker built
// without an API key reports ErrProviderNotConfigured on every call.
type GrammarChecker struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

func NewGrammarChecker(ctx context.Context, apiKey, model string, timeout time.Duration) (*GrammarChecker, error) {
	g := &GrammarChecker{model: model, timeout: timeout}
	if apiKey == "" {
		return g, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	g.models = client.Models
	return g, nil
}

// Configured reports whether an API key was supplied
func (g *GrammarChecker) Configured() bool {
	return g.models != nil
}

// Check returns the corrected text.
func (g *GrammarChecker) Check(ctx context.Context, text string) (string, error) {
	if !g.Configured() {
		return "", ErrProviderNotConfigured
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(grammarPrompt, text)), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
