// Why this file: ./internal/agents/selector.go
// This implements routing decisions: which handler answers an interaction, which
// support handlers join in, and when a conversation should escalate between tiers.
package agents

import (
	"fmt"

	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// Selector maps (category, persona) to a routing decision.
type Selector struct {
	registry *Registry
	log      logger.Logger
}

// NewSelector creates a selector over a handler registry.
func NewSelector(registry *Registry, log logger.Logger) *Selector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Selector{registry: registry, log: log}
}

// Select produces the routing decision for a classified interaction.
// The decision is produced once per interaction and not revised.
func (s *Selector) Select(interaction *models.Interaction, cls models.Classification) models.RoutingDecision {
	persona := interaction.Persona

	if CategoryTier(cls.Category) == models.TierFunctional {
		decision := models.RoutingDecision{
			Primary:           s.registry.FunctionalHandler(persona, cls.Category),
			Approach:          models.ApproachTaskFocused,
			MayDelegate:       false,
			NotifyPrimaryTier: true,
			Category:          cls.Category,
			Confidence:        cls.Confidence,
		}
		s.log.Debug("routed to functional tier",
			"primary", decision.Primary, "category", cls.Category, "persona", persona)
		return decision
	}

	decision := models.RoutingDecision{
		Primary:     s.registry.RelationshipHandler(persona),
		Approach:    models.ApproachConversational,
		MayDelegate: true,
		Category:    cls.Category,
		Confidence:  cls.Confidence,
	}

	switch cls.Category {
	case models.CategoryStrategic:
		decision.Support = []models.HandlerID{s.registry.AnalystHandler(persona)}
	case models.CategoryBrainstorm:
		decision.Support = []models.HandlerID{s.registry.FunctionalHandler(persona, models.CategoryResearch)}
	case models.CategoryAccountability:
		decision.Support = []models.HandlerID{s.registry.FunctionalHandler(persona, models.CategoryReporting)}
	}

	s.log.Debug("routed to relationship slot",
		"primary", decision.Primary, "support", decision.Support,
		"category", cls.Category, "persona", persona)
	return decision
}

// Escalation category sets. Relationship-tier escalation additionally
// requires context complexity "high".
var (
	escalateToRelationship = map[models.QueryCategory]bool{
		models.CategoryEmotional:    true,
		models.CategoryStrategic:    true,
		models.CategoryRelationship: true,
	}
	escalateToFunctional = map[models.QueryCategory]bool{
		models.CategoryTechnical: true,
		models.CategoryReporting: true,
	}
)

// ShouldEscalate decides whether the current handler should hand the
// conversation to a different tier for the given category.
func (s *Selector) ShouldEscalate(current models.HandlerID, category models.QueryCategory,
	persona models.Persona, context map[string]interface{}) models.EscalationDecision {

	switch s.registry.TierOf(current) {
	case models.TierFunctional:
		if escalateToRelationship[category] {
			target := s.registry.RelationshipHandler(persona)
			return models.EscalationDecision{
				Escalate:      true,
				TargetHandler: target,
				Reason:        fmt.Sprintf("%s conversations belong with %s", category, s.registry.DisplayName(target)),
			}
		}
	case models.TierRelationship:
		if escalateToFunctional[category] && complexity(context) == "high" {
			target := s.registry.AnalystHandler(persona)
			return models.EscalationDecision{
				Escalate:      true,
				TargetHandler: target,
				Reason:        fmt.Sprintf("high-complexity %s work needs %s", category, s.registry.DisplayName(target)),
			}
		}
	}

	return models.EscalationDecision{Escalate: false}
}

func complexity(context map[string]interface{}) string {
	if context == nil {
		return ""
	}
	if v, ok := context["complexity"].(string); ok {
		return v
	}
	return ""
}
