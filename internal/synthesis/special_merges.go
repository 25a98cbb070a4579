// Why this file: ./internal/synthesis/special_merges.go
// This implements the specialized merge flows: rewriting functional output in a
// relationship handler's voice, brainstorm idea merges, and decision-support
// merges carrying an explicit risk list.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/yourusername/coachflow/models"
)

// HandoffVoice rewrites a functional handler's raw output so the
// relationship handler can present it in their own tone.
func (s *Synthesizer) HandoffVoice(content string, relationship, functional models.HandlerID) string {
	relName := s.registry.DisplayName(relationship)
	funcName := s.registry.DisplayName(functional)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s here. I had %s work through the details so we didn't have to guess.\n\n", relName, funcName))
	b.WriteString("Here's my read of what they found:\n")
	for _, point := range topPoints(content, 3) {
		b.WriteString("- " + point + "\n")
	}
	b.WriteString("\nLet's talk through what this means for you, not just the numbers.")
	return b.String()
}

// BrainstormMerge lists the primary's ideas, then one labeled bullet block
// per contributing handler.
func (s *Synthesizer) BrainstormMerge(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) string {

	var b strings.Builder
	b.WriteString(primary.Content)
	for _, c := range contributors {
		b.WriteString(fmt.Sprintf("\n\nIdeas from %s:\n", s.registry.DisplayName(c.Handler)))
		points := topPoints(c.Content, 3)
		if len(points) == 0 {
			b.WriteString("- (no further ideas this round)\n")
			continue
		}
		for _, point := range points {
			b.WriteString("- " + point + "\n")
		}
	}
	return b.String()
}

// DecisionSupport produces a combined response carrying an explicit risk
// list and a primary-plus-alternatives recommendation block.
func (s *Synthesizer) DecisionSupport(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) *models.CombinedResponse {

	combined := s.Synthesize(primary, contributors)
	risks := risksFromInsights(combined.MergedInsights)
	combined.CollaborationMeta["risks"] = risks

	var b strings.Builder
	b.WriteString(primary.Content)
	b.WriteString("\n\nRisks to hold in view:\n")
	for _, r := range risks {
		b.WriteString(fmt.Sprintf("- [%s, p=%.1f] %s\n", r.Type, r.Probability, r.Description))
	}
	b.WriteString("\nRecommendation: proceed with the primary path above.\n")
	b.WriteString("Alternatives if conditions change:\n")
	if len(contributors) == 0 {
		b.WriteString("- Revisit with a specialist review before committing.\n")
	}
	for _, c := range contributors {
		for _, point := range topPoints(c.Content, 1) {
			b.WriteString(fmt.Sprintf("- Per %s: %s\n", s.registry.DisplayName(c.Handler), point))
		}
	}
	primary.Content = b.String()
	return combined
}

// risksFromInsights derives the risk list from merged insights: high
// priority maps to likely, medium to possible. With no qualifying insights
// a single baseline risk is reported.
func risksFromInsights(insights []models.Insight) []models.Risk {
	risks := []models.Risk{}
	for _, insight := range insights {
		switch insight.Priority {
		case models.PriorityHigh:
			risks = append(risks, models.Risk{
				Type: insight.Kind, Description: insight.Message, Probability: 0.7,
			})
		case models.PriorityMedium:
			risks = append(risks, models.Risk{
				Type: insight.Kind, Description: insight.Message, Probability: 0.4,
			})
		}
	}
	if len(risks) == 0 {
		risks = append(risks, models.Risk{
			Type:        "information",
			Description: "Decision inputs are unverified; treat conclusions as provisional.",
			Probability: 0.3,
		})
	}
	return risks
}
