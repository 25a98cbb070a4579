package synthesis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

func newSynthesizer() *Synthesizer {
	return New(agents.NewRegistry(), logger.NewNop())
}

func response(handler models.HandlerID, content string, confidence float64, insights ...models.Insight) *models.HandlerResponse {
	r := &models.HandlerResponse{
		ID:       "r-" + string(handler),
		Handler:  handler,
		Content:  content,
		Insights: insights,
		Metadata: map[string]interface{}{},
	}
	if confidence > 0 {
		r.Metadata["confidence"] = confidence
	}
	return r
}

func TestMergeInsightsDedupesAndOrders(t *testing.T) {
	merged := MergeInsights([]models.Insight{
		{Title: "A", Priority: models.PriorityHigh},
		{Title: "A", Priority: models.PriorityLow},
		{Title: "B", Priority: models.PriorityMedium},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "A", merged[0].Title)
	assert.Equal(t, models.PriorityHigh, merged[0].Priority)
	assert.Equal(t, "B", merged[1].Title)
	assert.Equal(t, models.PriorityMedium, merged[1].Priority)
}

func TestMergeInsightsHigherPriorityWinsRegardlessOfOrder(t *testing.T) {
	merged := MergeInsights([]models.Insight{
		{Title: "A", Priority: models.PriorityLow},
		{Title: "A", Priority: models.PriorityHigh},
	})
	require.Len(t, merged, 1)
	assert.Equal(t, models.PriorityHigh, merged[0].Priority)
}

func TestMergeInsightsTruncatesToFive(t *testing.T) {
	var all []models.Insight
	for _, title := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		all = append(all, models.Insight{Title: title, Priority: models.PriorityMedium})
	}
	all[3].Priority = models.PriorityHigh

	merged := MergeInsights(all)
	require.Len(t, merged, models.MaxMergedInsights)
	assert.Equal(t, "d", merged[0].Title)
}

func TestBlendConfidence(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "p", 0.9)
	contributors := []*models.HandlerResponse{
		response(agents.HandlerBusinessAdvisor, "c1", 0.8),
		response(agents.HandlerResearchScout, "c2", 0.6),
	}
	// 0.6*0.9 + 0.4*((0.8+0.6)/2) = 0.54 + 0.28
	assert.InDelta(t, 0.82, s.BlendConfidence(primary, contributors), 1e-9)
}

func TestBlendConfidenceDefaults(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "p", 0)
	contributors := []*models.HandlerResponse{response(agents.HandlerBusinessAdvisor, "c", 0)}
	// 0.6*0.8 + 0.4*0.7
	assert.InDelta(t, 0.76, s.BlendConfidence(primary, contributors), 1e-9)
}

func TestSynthesizeSingleAgentLeavesContentAlone(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "original words", 0.9)
	combined := s.Synthesize(primary, nil)

	assert.Equal(t, "original words", combined.Primary.Content)
	assert.Equal(t, TemplateSingleAgent, combined.CollaborationMeta["template"])
	assert.Empty(t, combined.Contributors)
	assert.InDelta(t, 0.9, combined.CollaborationMeta["confidence"].(float64), 1e-9)
}

func TestSynthesizeCoagentTemplate(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "my take", 0.9)
	contributor := response(agents.HandlerBusinessAdvisor, "- margin looks thin\n- runway is fine", 0.8)
	combined := s.Synthesize(primary, []*models.HandlerResponse{contributor})

	assert.Equal(t, TemplateCoagent, combined.CollaborationMeta["template"])
	assert.Contains(t, combined.Primary.Content, "my take")
	assert.Contains(t, combined.Primary.Content, "Additional analysis")
	assert.Contains(t, combined.Primary.Content, "Business Advisor")
	assert.Equal(t, []models.HandlerID{agents.HandlerBusinessAdvisor}, combined.Contributors)
}

func TestSynthesizeMultiFunctionalTemplate(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerBusinessAdvisor, "primary analysis", 0.85)
	contributors := []*models.HandlerResponse{
		response(agents.HandlerResearchScout, "- finding one\n- finding two\n- finding three", 0.8),
		response(agents.HandlerProgressReporter, "- status a\n- status b", 0.75),
	}
	combined := s.Synthesize(primary, contributors)

	assert.Equal(t, TemplateMultiFunctional, combined.CollaborationMeta["template"])
	content := combined.Primary.Content
	assert.True(t, strings.Index(content, "primary analysis") < strings.Index(content, "finding one"))
	assert.Contains(t, content, "Research Scout adds:")
	assert.Contains(t, content, "Progress Reporter adds:")
	// Top two bullets only.
	assert.Contains(t, content, "finding two")
	assert.NotContains(t, content, "finding three")
	assert.Contains(t, content, "Combined recommendation")
}

func TestHandoffVoice(t *testing.T) {
	s := newSynthesizer()

	out := s.HandoffVoice("- the webhook retries are misconfigured\n- fix is one flag",
		agents.HandlerVentureCoach, agents.HandlerTechSpecialist)

	assert.Contains(t, out, "Alex, your venture coach")
	assert.Contains(t, out, "Tech Specialist")
	assert.Contains(t, out, "webhook retries")
}

func TestBrainstormMerge(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "here are my ideas", 0.8)
	contributor := response(agents.HandlerResearchScout, "- partner with a university\n- run a waitlist", 0.8)
	out := s.BrainstormMerge(primary, []*models.HandlerResponse{contributor})

	assert.Contains(t, out, "here are my ideas")
	assert.Contains(t, out, "Ideas from Research Scout:")
	assert.Contains(t, out, "partner with a university")
}

func TestDecisionSupportMerge(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "take the deal", 0.9,
		models.Insight{Title: "Concentration", Kind: "risk", Priority: models.PriorityHigh,
			Message: "One customer is 60% of revenue."})
	contributor := response(agents.HandlerBusinessAdvisor, "- renegotiate the exclusivity clause", 0.8)

	combined := s.DecisionSupport(primary, []*models.HandlerResponse{contributor})

	risks, ok := combined.CollaborationMeta["risks"].([]models.Risk)
	require.True(t, ok)
	require.NotEmpty(t, risks)
	assert.Equal(t, "risk", risks[0].Type)
	assert.InDelta(t, 0.7, risks[0].Probability, 1e-9)

	content := combined.Primary.Content
	assert.Contains(t, content, "Risks to hold in view")
	assert.Contains(t, content, "Alternatives if conditions change")
	assert.Contains(t, content, "Per Business Advisor:")
}

func TestDecisionSupportBaselineRisk(t *testing.T) {
	s := newSynthesizer()

	primary := response(agents.HandlerVentureCoach, "take the deal", 0.9)
	combined := s.DecisionSupport(primary, nil)

	risks := combined.CollaborationMeta["risks"].([]models.Risk)
	require.Len(t, risks, 1)
	assert.Equal(t, "information", risks[0].Type)
}
