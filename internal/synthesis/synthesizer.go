// Why this file: ./internal/synthesis/synthesizer.go
// This merges a primary handler response with supporting contributions into one
// coherent reply: insight dedupe and ranking, confidence blending, and merge
// template selection based on which tiers contributed.
package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// Merge templates. The selected template is recorded in collaboration meta.
const (
	TemplateSingleAgent     = "single_agent"
	TemplateCoagent         = "coagent_with_functional"
	TemplateMultiFunctional = "multi_functional"
)

// Confidence defaults when a response carries no confidence metadata.
const (
	defaultPrimaryConfidence     = 0.8
	defaultContributorConfidence = 0.7
)

// Synthesizer combines handler responses.
type Synthesizer struct {
	registry *agents.Registry
	log      logger.Logger
}

// New creates a synthesizer over the handler registry.
func New(registry *agents.Registry, log logger.Logger) *Synthesizer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Synthesizer{registry: registry, log: log}
}

// Synthesize merges the primary response with contributor responses. The
// primary response is returned with merged content; the original content is
// only changed when contributors exist.
func (s *Synthesizer) Synthesize(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) *models.CombinedResponse {

	combined := &models.CombinedResponse{
		Primary:        primary,
		MergedInsights: s.mergeInsights(primary, contributors),
		CollaborationMeta: map[string]interface{}{
			"confidence": s.BlendConfidence(primary, contributors),
		},
	}

	if len(contributors) == 0 {
		combined.CollaborationMeta["template"] = TemplateSingleAgent
		return combined
	}

	names := make([]string, 0, len(contributors))
	for _, c := range contributors {
		combined.Contributors = append(combined.Contributors, c.Handler)
		names = append(names, s.registry.DisplayName(c.Handler))
	}
	combined.CollaborationMeta["contributor_names"] = names

	if s.registry.TierOf(primary.Handler) == models.TierRelationship {
		combined.CollaborationMeta["template"] = TemplateCoagent
		primary.Content = s.coagentContent(primary, contributors)
	} else {
		combined.CollaborationMeta["template"] = TemplateMultiFunctional
		primary.Content = s.multiFunctionalContent(primary, contributors)
	}

	s.log.Debug("responses synthesized",
		"primary", primary.Handler,
		"contributors", len(contributors),
		"template", combined.CollaborationMeta["template"])
	return combined
}

// SynthesizeFor picks the merge flow for a query category: decision-support
// for decisive strategic questions, the brainstorm layout for brainstorms
// with contributors, the generic template selection otherwise.
func (s *Synthesizer) SynthesizeFor(category models.QueryCategory, flags map[string]bool,
	primary *models.HandlerResponse, contributors []*models.HandlerResponse) *models.CombinedResponse {

	if category == models.CategoryStrategic && flags["decisiveness"] {
		return s.DecisionSupport(primary, contributors)
	}

	original := primary.Content
	combined := s.Synthesize(primary, contributors)

	if category == models.CategoryBrainstorm && len(contributors) > 0 {
		snapshot := *primary
		snapshot.Content = original
		primary.Content = s.BrainstormMerge(&snapshot, contributors)
		combined.CollaborationMeta["template"] = "brainstorm"
	}
	return combined
}

// mergeInsights concatenates all insights, dedupes by title keeping the
// higher priority, sorts descending by priority and truncates to the cap.
func (s *Synthesizer) mergeInsights(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) []models.Insight {

	all := append([]models.Insight{}, primary.Insights...)
	for _, c := range contributors {
		all = append(all, c.Insights...)
	}
	return MergeInsights(all)
}

// MergeInsights applies the insight merge rule to an already-concatenated
// list: unique by title (higher priority wins), descending priority, at
// most models.MaxMergedInsights entries. Order among equal priorities is
// first-seen, which keeps the merge deterministic.
func MergeInsights(all []models.Insight) []models.Insight {
	byTitle := map[string]int{}
	merged := make([]models.Insight, 0, len(all))
	for _, insight := range all {
		idx, seen := byTitle[insight.Title]
		if !seen {
			byTitle[insight.Title] = len(merged)
			merged = append(merged, insight)
			continue
		}
		if insight.Priority.Rank() > merged[idx].Priority.Rank() {
			merged[idx] = insight
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Priority.Rank() > merged[j].Priority.Rank()
	})

	if len(merged) > models.MaxMergedInsights {
		merged = merged[:models.MaxMergedInsights]
	}
	return merged
}

// BlendConfidence computes 0.6*primary + 0.4*avg(contributors), using the
// documented defaults for missing figures. With no contributors the primary
// confidence stands alone.
func (s *Synthesizer) BlendConfidence(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) float64 {

	p := primary.Confidence(defaultPrimaryConfidence)
	if len(contributors) == 0 {
		return p
	}
	sum := 0.0
	for _, c := range contributors {
		sum += c.Confidence(defaultContributorConfidence)
	}
	return 0.6*p + 0.4*(sum/float64(len(contributors)))
}

// coagentContent wraps contributor output as additional team analysis
// after the relationship handler's own words.
func (s *Synthesizer) coagentContent(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) string {

	var b strings.Builder
	b.WriteString(primary.Content)
	b.WriteString("\n\nI also asked the team for a closer look. Additional analysis:\n")
	for _, c := range contributors {
		b.WriteString(fmt.Sprintf("\nFrom %s:\n%s\n", s.registry.DisplayName(c.Handler), c.Content))
	}
	return b.String()
}

// multiFunctionalContent presents the primary analysis first, the top two
// points from each contributor, then one combined recommendation.
func (s *Synthesizer) multiFunctionalContent(primary *models.HandlerResponse,
	contributors []*models.HandlerResponse) string {

	var b strings.Builder
	b.WriteString(primary.Content)
	for _, c := range contributors {
		b.WriteString(fmt.Sprintf("\n\n%s adds:\n", s.registry.DisplayName(c.Handler)))
		for _, point := range topPoints(c.Content, 2) {
			b.WriteString("- " + point + "\n")
		}
	}
	b.WriteString("\nCombined recommendation: weigh the contributions above together; ")
	b.WriteString("the specialists agree on direction, so start with the highest-confidence step and validate early.")
	return b.String()
}

// topPoints extracts up to n bullet points from content, falling back to
// leading sentences when the content has no bullets.
func topPoints(content string, n int) []string {
	points := make([]string, 0, n)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") {
			points = append(points, strings.TrimPrefix(trimmed, "- "))
			if len(points) == n {
				return points
			}
		}
	}
	if len(points) > 0 {
		return points
	}
	for _, sentence := range strings.SplitAfter(content, ". ") {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		points = append(points, trimmed)
		if len(points) == n {
			break
		}
	}
	return points
}
