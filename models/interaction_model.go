// Why this file: ./models/interaction_model.go
// This defines the data structures for user interactions: query categories, personas,
// handler identities and tiers, and the routing decision produced by the agent selector.
// This structured approach enables intelligent interaction routing to appropriate handlers.

package models

import (
	"strings"
)

// QueryCategory represents the discrete category assigned to an interaction
type QueryCategory string

const (
	CategoryStrategic      QueryCategory = "strategic"
	CategoryAccountability QueryCategory = "accountability"
	CategoryEmotional      QueryCategory = "emotional"
	CategoryRelationship   QueryCategory = "relationship"
	CategoryBrainstorm     QueryCategory = "brainstorm"
	CategoryAnalysis       QueryCategory = "analysis"
	CategoryResearch       QueryCategory = "research"
	CategoryDocument       QueryCategory = "document"
	CategoryTechnical      QueryCategory = "technical"
	CategoryReporting      QueryCategory = "reporting"
	CategoryGeneral        QueryCategory = "general"
)

// QueryCategories is the declared category order. Classification tie-breaks
// iterate this slice and return the first category reaching the maximum
// score, so the order is part of the classifier contract.
var QueryCategories = []QueryCategory{
	CategoryStrategic,
	CategoryAccountability,
	CategoryEmotional,
	CategoryRelationship,
	CategoryBrainstorm,
	CategoryAnalysis,
	CategoryResearch,
	CategoryDocument,
	CategoryTechnical,
	CategoryReporting,
	CategoryGeneral,
}

// Persona represents the user persona attached to an interaction.
// It is immutable for the lifetime of the interaction.
type Persona string

const (
	PersonaEntrepreneur Persona = "entrepreneur"
	PersonaInvestor     Persona = "investor"
	PersonaLender       Persona = "lender"
	PersonaGrantor      Persona = "grantor"
	PersonaPartner      Persona = "partner"
	PersonaAdmin        Persona = "admin"
)

// AllPersonas lists every supported persona.
var AllPersonas = []Persona{
	PersonaEntrepreneur,
	PersonaInvestor,
	PersonaLender,
	PersonaGrantor,
	PersonaPartner,
	PersonaAdmin,
}

// ParsePersona maps a raw string to a Persona, falling back to the
// entrepreneur default for unrecognized values rather than failing.
func ParsePersona(s string) Persona {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPersonas {
		if p == known {
			return p
		}
	}
	return PersonaEntrepreneur
}

// HandlerID identifies a concrete handler.
type HandlerID string

// HandlerTier represents the two-tier handler hierarchy, plus the
// orchestrator tier that only authors fallback responses.
type HandlerTier string

const (
	TierRelationship HandlerTier = "relationship"
	TierFunctional   HandlerTier = "functional"
	TierOrchestrator HandlerTier = "orchestrator"
)

// ResponseApproach describes how the primary handler should engage.
type ResponseApproach string

const (
	ApproachConversational ResponseApproach = "conversational"
	ApproachTaskFocused    ResponseApproach = "task_focused"
)

// Interaction represents a single user request with persona and context.
// It is created by the host layer and read-only within the core.
type Interaction struct {
	Query   string                 `json:"query"`
	Persona Persona                `json:"persona"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Classification is the full result of classifying an interaction query.
type Classification struct {
	Category     QueryCategory   `json:"category"`
	Confidence   float64         `json:"confidence"`
	ContextFlags map[string]bool `json:"context_flags,omitempty"`
}

// RoutingDecision represents how an interaction should be handled.
// Produced once per interaction; immutable afterwards.
type RoutingDecision struct {
	Primary           HandlerID        `json:"primary"`
	Support           []HandlerID      `json:"support,omitempty"`
	Approach          ResponseApproach `json:"approach"`
	MayDelegate       bool             `json:"may_delegate"`
	NotifyPrimaryTier bool             `json:"notify_primary_tier"`
	Category          QueryCategory    `json:"category"`
	Confidence        float64          `json:"confidence"`
}

// EscalationDecision is the outcome of an escalation check.
type EscalationDecision struct {
	Escalate      bool      `json:"escalate"`
	TargetHandler HandlerID `json:"target_handler,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}

// Recommendation describes a handler for UI display.
type Recommendation struct {
	Handler     HandlerID       `json:"handler"`
	DisplayName string          `json:"display_name"`
	Tier        HandlerTier     `json:"tier"`
	Reason      string          `json:"reason"`
	Categories  []QueryCategory `json:"categories,omitempty"`
}
