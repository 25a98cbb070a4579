package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/llm"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

type recordingGenerator struct {
	lastSystem string
	lastUser   string
	fail       bool
}

func (g *recordingGenerator) Generate(_ context.Context, req llm.GenerationRequest) (*llm.GenerationResponse, error) {
	if g.fail {
		return nil, fmt.Errorf("provider unavailable")
	}
	g.lastSystem = req.System
	g.lastUser = req.User
	return &llm.GenerationResponse{Text: "generated reply", Model: "test"}, nil
}

func combinedWithPrompt(spec agents.PromptSpec) *models.CombinedResponse {
	return &models.CombinedResponse{
		Primary: &models.HandlerResponse{
			Content:  "prepared content",
			Metadata: map[string]interface{}{"prompt": spec},
		},
	}
}

func TestGenerateTextUsesAttachedPrompt(t *testing.T) {
	gen := &recordingGenerator{}
	app := &Application{log: logger.NewNop(), generator: gen, generatorLive: true}

	spec := agents.PromptSpec{System: "respond as a coach", User: "should I raise now"}
	text, ok := app.GenerateText(context.Background(), combinedWithPrompt(spec))

	require.True(t, ok)
	assert.Equal(t, "generated reply", text)
	assert.Equal(t, spec.System, gen.lastSystem)
	assert.Equal(t, spec.User, gen.lastUser)
}

func TestGenerateTextSkipsWithoutLiveProvider(t *testing.T) {
	app := &Application{log: logger.NewNop(), generator: llm.StaticGenerator{}}

	_, ok := app.GenerateText(context.Background(),
		combinedWithPrompt(agents.PromptSpec{System: "s", User: "u"}))
	assert.False(t, ok)
}

func TestGenerateTextFallsBackOnError(t *testing.T) {
	app := &Application{log: logger.NewNop(), generator: &recordingGenerator{fail: true}, generatorLive: true}

	_, ok := app.GenerateText(context.Background(),
		combinedWithPrompt(agents.PromptSpec{System: "s", User: "u"}))
	assert.False(t, ok)
}

func TestGenerateTextSkipsResponsesWithoutPrompt(t *testing.T) {
	app := &Application{log: logger.NewNop(), generator: &recordingGenerator{}, generatorLive: true}

	_, ok := app.GenerateText(context.Background(), &models.CombinedResponse{
		Primary: &models.HandlerResponse{Content: "fallback apology"},
	})
	assert.False(t, ok)

	_, ok = app.GenerateText(context.Background(), nil)
	assert.False(t, ok)
}
