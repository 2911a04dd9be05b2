package backends

import (
	"context"
	"fmt"

	"github.com/jonathan/brandscope/internal/llm"
)

// researcherInstruction frames every answer-backend call so responses
// resemble what an end user asking about brands would receive.
const researcherInstruction = "You are a knowledgeable market researcher. Provide detailed, factual responses about brands, products, and market information. Include specific examples and citations when possible."

// GeminiBackend answers prompts through the Gemini API at a fixed model
// tier. It is safe for concurrent use.
type GeminiBackend struct {
	name   string
	client llm.Client
	tier   llm.ModelTier
}

// NewGeminiFlash returns the fast Gemini answer backend.
func NewGeminiFlash(client llm.Client) *GeminiBackend {
	return &GeminiBackend{name: "gemini-flash", client: client, tier: llm.TierLite}
}

// NewGeminiPro returns the higher-quality Gemini answer backend.
func NewGeminiPro(client llm.Client) *GeminiBackend {
	return &GeminiBackend{name: "gemini-pro", client: client, tier: llm.TierAdvanced}
}

// Name returns the backend's registry name.
func (b *GeminiBackend) Name() string {
	return b.name
}

// Execute answers one prompt. Citations are any URLs the model included
// in its answer text.
func (b *GeminiBackend) Execute(ctx context.Context, prompt string) (*Response, error) {
	text, err := b.client.GenerateContent(ctx, researcherInstruction+"\n\n"+prompt, b.tier)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}
	return &Response{
		Text:      text,
		Citations: ExtractURLs(text),
	}, nil
}
