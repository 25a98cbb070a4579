// Why this file: ./internal/llm/generator.go
// This defines the external text-generation collaborator contract. The routing
// core only prepares prompts; the host layer decides whether to call a provider
// and with what content. A static generator keeps the system usable offline.
package llm

import (
	"context"
	"fmt"
)

// GenerationRequest is a composed prompt: system framing plus user message,
// optionally preceded by prior conversation turns.
type GenerationRequest struct {
	System  string
	History []Turn
	User    string
}

// Turn is one prior conversation exchange.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// GenerationResponse carries the generated text and accounting metadata.
type GenerationResponse struct {
	Text         string
	Model        string
	PromptTokens int
	OutputTokens int
}

// TextGenerator produces natural-language content for a composed prompt.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
}

// StaticGenerator echoes prepared content without calling any provider.
// Used when no provider is configured and in tests.
type StaticGenerator struct{}

// Generate returns the user content unchanged.
func (StaticGenerator) Generate(_ context.Context, req GenerationRequest) (*GenerationResponse, error) {
	if req.User == "" {
		return nil, fmt.Errorf("empty generation request")
	}
	return &GenerationResponse{Text: req.User, Model: "static"}, nil
}
