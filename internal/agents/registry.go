// Why this file: ./internal/agents/registry.go
// This holds the static handler roster: concrete handler identities, their tier
// membership and display metadata, and the persona lookup tables used by the selector.
// All tables are built once at construction and never mutated.
package agents

import (
	"github.com/yourusername/coachflow/models"
)

// Handler identities. Tier membership is static configuration.
const (
	// Relationship tier: long-lived, persona-bound partner handlers.
	HandlerVentureCoach      models.HandlerID = "venture-coach"
	HandlerPortfolioPartner  models.HandlerID = "portfolio-partner"
	HandlerAllianceAdvisor   models.HandlerID = "alliance-advisor"
	HandlerOperationsPartner models.HandlerID = "operations-partner"

	// Functional tier: persona-designated analysts.
	HandlerBusinessAdvisor   models.HandlerID = "business-advisor"
	HandlerInvestmentAnalyst models.HandlerID = "investment-analyst"
	HandlerCreditAnalyst     models.HandlerID = "credit-analyst"
	HandlerGrantAnalyst      models.HandlerID = "grant-analyst"
	HandlerMarketAnalyst     models.HandlerID = "market-analyst"
	HandlerSystemsAnalyst    models.HandlerID = "systems-analyst"

	// Functional tier: handlers serving the lender/grantor relationship slot.
	// These personas get a desk, not a coach. Product decision, not a bug.
	HandlerCreditDesk models.HandlerID = "credit-desk"
	HandlerGrantsDesk models.HandlerID = "grants-desk"

	// Functional tier: shared specialists.
	HandlerResearchScout    models.HandlerID = "research-scout"
	HandlerDocumentSmith    models.HandlerID = "document-smith"
	HandlerTechSpecialist   models.HandlerID = "tech-specialist"
	HandlerProgressReporter models.HandlerID = "progress-reporter"

	// Orchestrator tier: authors fallback responses only.
	HandlerConcierge models.HandlerID = "concierge"
)

// Profile carries a handler's static display metadata.
type Profile struct {
	ID          models.HandlerID
	Tier        models.HandlerTier
	DisplayName string
	Voice       string
	Specialties []models.QueryCategory
}

// Registry is the immutable handler lookup table set.
type Registry struct {
	profiles        map[models.HandlerID]Profile
	relationshipFor map[models.Persona]models.HandlerID
	analystFor      map[models.Persona]models.HandlerID
	specialistFor   map[models.QueryCategory]models.HandlerID
}

// NewRegistry builds the static roster.
func NewRegistry() *Registry {
	r := &Registry{
		profiles:        map[models.HandlerID]Profile{},
		relationshipFor: map[models.Persona]models.HandlerID{},
		analystFor:      map[models.Persona]models.HandlerID{},
		specialistFor:   map[models.QueryCategory]models.HandlerID{},
	}

	add := func(p Profile) { r.profiles[p.ID] = p }

	add(Profile{HandlerVentureCoach, models.TierRelationship, "Alex, your venture coach",
		"a warm, direct startup coach who has seen a hundred founders through the same wall",
		[]models.QueryCategory{models.CategoryStrategic, models.CategoryEmotional, models.CategoryAccountability}})
	add(Profile{HandlerPortfolioPartner, models.TierRelationship, "Morgan, your portfolio partner",
		"a seasoned portfolio partner who talks returns but cares about conviction",
		[]models.QueryCategory{models.CategoryStrategic, models.CategoryRelationship}})
	add(Profile{HandlerAllianceAdvisor, models.TierRelationship, "Riley, your alliance advisor",
		"a pragmatic partnerships advisor focused on win-win structures",
		[]models.QueryCategory{models.CategoryStrategic, models.CategoryBrainstorm}})
	add(Profile{HandlerOperationsPartner, models.TierRelationship, "Sam, your operations partner",
		"a calm operations partner who turns chaos into checklists",
		[]models.QueryCategory{models.CategoryAccountability, models.CategoryReporting}})

	add(Profile{HandlerBusinessAdvisor, models.TierFunctional, "Business Advisor",
		"a focused business analyst delivering structured, sourced recommendations",
		[]models.QueryCategory{models.CategoryAnalysis}})
	add(Profile{HandlerInvestmentAnalyst, models.TierFunctional, "Investment Analyst",
		"an investment analyst grounded in deal metrics and portfolio math",
		[]models.QueryCategory{models.CategoryAnalysis}})
	add(Profile{HandlerCreditAnalyst, models.TierFunctional, "Credit Analyst",
		"a credit analyst who reads cash flow statements like weather maps",
		[]models.QueryCategory{models.CategoryAnalysis}})
	add(Profile{HandlerGrantAnalyst, models.TierFunctional, "Grant Analyst",
		"a grants analyst fluent in eligibility criteria and compliance",
		[]models.QueryCategory{models.CategoryAnalysis}})
	add(Profile{HandlerMarketAnalyst, models.TierFunctional, "Market Analyst",
		"a market analyst mapping competitive landscapes",
		[]models.QueryCategory{models.CategoryAnalysis}})
	add(Profile{HandlerSystemsAnalyst, models.TierFunctional, "Systems Analyst",
		"a systems analyst keeping the platform's moving parts honest",
		[]models.QueryCategory{models.CategoryAnalysis}})

	add(Profile{HandlerCreditDesk, models.TierFunctional, "Credit Desk",
		"a lending desk giving precise, policy-aware answers",
		[]models.QueryCategory{models.CategoryAnalysis, models.CategoryReporting}})
	add(Profile{HandlerGrantsDesk, models.TierFunctional, "Grants Desk",
		"a grants desk giving precise, program-aware answers",
		[]models.QueryCategory{models.CategoryAnalysis, models.CategoryReporting}})

	add(Profile{HandlerResearchScout, models.TierFunctional, "Research Scout",
		"a research specialist who scans markets and surfaces what matters",
		[]models.QueryCategory{models.CategoryResearch, models.CategoryBrainstorm}})
	add(Profile{HandlerDocumentSmith, models.TierFunctional, "Document Smith",
		"a documents specialist producing clean drafts and templates",
		[]models.QueryCategory{models.CategoryDocument}})
	add(Profile{HandlerTechSpecialist, models.TierFunctional, "Tech Specialist",
		"a technical specialist who debugs integrations and explains tradeoffs",
		[]models.QueryCategory{models.CategoryTechnical}})
	add(Profile{HandlerProgressReporter, models.TierFunctional, "Progress Reporter",
		"a reporting specialist turning activity into crisp status updates",
		[]models.QueryCategory{models.CategoryReporting, models.CategoryAccountability}})

	add(Profile{HandlerConcierge, models.TierOrchestrator, "Coachflow Concierge",
		"the service desk voice used when nothing else can answer",
		nil})

	// Relationship slot per persona. Lender and grantor intentionally get
	// a functional-tier desk here.
	r.relationshipFor = map[models.Persona]models.HandlerID{
		models.PersonaEntrepreneur: HandlerVentureCoach,
		models.PersonaInvestor:     HandlerPortfolioPartner,
		models.PersonaLender:       HandlerCreditDesk,
		models.PersonaGrantor:      HandlerGrantsDesk,
		models.PersonaPartner:      HandlerAllianceAdvisor,
		models.PersonaAdmin:        HandlerOperationsPartner,
	}

	// Designated functional analyst per persona.
	r.analystFor = map[models.Persona]models.HandlerID{
		models.PersonaEntrepreneur: HandlerBusinessAdvisor,
		models.PersonaInvestor:     HandlerInvestmentAnalyst,
		models.PersonaLender:       HandlerCreditAnalyst,
		models.PersonaGrantor:      HandlerGrantAnalyst,
		models.PersonaPartner:      HandlerMarketAnalyst,
		models.PersonaAdmin:        HandlerSystemsAnalyst,
	}

	// Shared specialists keyed by functional category.
	r.specialistFor = map[models.QueryCategory]models.HandlerID{
		models.CategoryResearch:  HandlerResearchScout,
		models.CategoryDocument:  HandlerDocumentSmith,
		models.CategoryTechnical: HandlerTechSpecialist,
		models.CategoryReporting: HandlerProgressReporter,
	}

	return r
}

// Profile returns a handler's profile. Unknown handlers get the concierge
// profile so display code never dereferences a zero value.
func (r *Registry) Profile(id models.HandlerID) Profile {
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return r.profiles[HandlerConcierge]
}

// TierOf returns the handler's static tier membership.
func (r *Registry) TierOf(id models.HandlerID) models.HandlerTier {
	return r.Profile(id).Tier
}

// DisplayName returns the handler's display name.
func (r *Registry) DisplayName(id models.HandlerID) string {
	return r.Profile(id).DisplayName
}

// RelationshipHandler returns the persona's relationship-slot handler.
// Unrecognized personas fall back to the entrepreneur mapping.
func (r *Registry) RelationshipHandler(persona models.Persona) models.HandlerID {
	if id, ok := r.relationshipFor[persona]; ok {
		return id
	}
	return r.relationshipFor[models.PersonaEntrepreneur]
}

// AnalystHandler returns the persona's designated functional analyst.
func (r *Registry) AnalystHandler(persona models.Persona) models.HandlerID {
	if id, ok := r.analystFor[persona]; ok {
		return id
	}
	return r.analystFor[models.PersonaEntrepreneur]
}

// FunctionalHandler returns the functional handler for a category: the
// persona's analyst for analysis, a shared specialist otherwise.
func (r *Registry) FunctionalHandler(persona models.Persona, category models.QueryCategory) models.HandlerID {
	if id, ok := r.specialistFor[category]; ok {
		return id
	}
	return r.AnalystHandler(persona)
}

// CategoryTier maps a query category to the tier that should answer it.
// General defaults to the relationship tier.
func CategoryTier(category models.QueryCategory) models.HandlerTier {
	switch category {
	case models.CategoryAnalysis, models.CategoryResearch, models.CategoryDocument,
		models.CategoryTechnical, models.CategoryReporting:
		return models.TierFunctional
	default:
		return models.TierRelationship
	}
}

// Recommendations lists the handlers available to a persona for UI display.
func (r *Registry) Recommendations(persona models.Persona) []models.Recommendation {
	rel := r.Profile(r.RelationshipHandler(persona))
	analyst := r.Profile(r.AnalystHandler(persona))

	recs := []models.Recommendation{
		{
			Handler:     rel.ID,
			DisplayName: rel.DisplayName,
			Tier:        rel.Tier,
			Reason:      "Your ongoing partner for strategy, accountability and support",
			Categories:  rel.Specialties,
		},
		{
			Handler:     analyst.ID,
			DisplayName: analyst.DisplayName,
			Tier:        analyst.Tier,
			Reason:      "Your designated analyst for data-heavy questions",
			Categories:  analyst.Specialties,
		},
	}

	for _, cat := range []models.QueryCategory{
		models.CategoryResearch, models.CategoryDocument,
		models.CategoryTechnical, models.CategoryReporting,
	} {
		p := r.Profile(r.specialistFor[cat])
		recs = append(recs, models.Recommendation{
			Handler:     p.ID,
			DisplayName: p.DisplayName,
			Tier:        p.Tier,
			Reason:      "Specialist for " + string(cat) + " requests",
			Categories:  p.Specialties,
		})
	}

	return recs
}
