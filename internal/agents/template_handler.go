// Why this file: ./internal/agents/template_handler.go
// This implements the roster handlers. Content is produced deterministically from
// the handler's profile and the interaction category, so the core works without
// any AI provider configured; the prompt spec carries the framing a provider would use.
package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

type templateHandler struct {
	profile Profile
	log     logger.Logger
}

func newTemplateHandler(profile Profile, log logger.Logger) *templateHandler {
	return &templateHandler{profile: profile, log: log}
}

func (h *templateHandler) ID() models.HandlerID     { return h.profile.ID }
func (h *templateHandler) Tier() models.HandlerTier { return h.profile.Tier }
func (h *templateHandler) DisplayName() string      { return h.profile.DisplayName }

// Process builds the handler's response for an interaction.
func (h *templateHandler) Process(ctx context.Context, interaction *models.Interaction,
	decision models.RoutingDecision) (*models.HandlerResponse, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Refuse work whose deadline already passed instead of racing the timer.
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return nil, context.DeadlineExceeded
	}

	resp := &models.HandlerResponse{
		ID:        uuid.NewString(),
		Handler:   h.profile.ID,
		Timestamp: time.Now(),
		Metadata: map[string]interface{}{
			"tier":       string(h.profile.Tier),
			"category":   string(decision.Category),
			"confidence": h.baseConfidence(),
			// Hosts with a live provider regenerate content from this.
			"prompt": h.Prompt(interaction, decision),
		},
	}

	switch h.profile.Tier {
	case models.TierRelationship:
		resp.Content = h.conversationalContent(interaction, decision)
		resp.Suggestions = relationshipSuggestions(decision.Category)
	case models.TierFunctional:
		resp.Content = h.taskContent(interaction, decision)
		resp.Suggestions = functionalSuggestions(decision.Category)
		resp.Actions = []models.Action{
			{Label: "Review the full breakdown", Priority: models.PriorityMedium},
			{Label: "Ask for a deeper pass on any point", Priority: models.PriorityLow},
		}
	default:
		resp.Content = fmt.Sprintf("Thanks for reaching out. I've noted your request: %q.", interaction.Query)
	}

	resp.Insights = h.insights(decision.Category)

	h.log.Debug("handler processed interaction",
		"handler", h.profile.ID, "category", decision.Category)
	return resp, nil
}

// Prompt prepares the system framing and user message for the generation
// collaborator.
func (h *templateHandler) Prompt(interaction *models.Interaction, decision models.RoutingDecision) PromptSpec {
	return PromptSpec{
		System: fmt.Sprintf("You are %s: %s. Respond in that voice to a %s request from a %s.",
			h.profile.DisplayName, h.profile.Voice, decision.Category, interaction.Persona),
		User: interaction.Query,
	}
}

func (h *templateHandler) baseConfidence() float64 {
	if h.profile.Tier == models.TierFunctional {
		return 0.85
	}
	return 0.8
}

func (h *templateHandler) conversationalContent(interaction *models.Interaction,
	decision models.RoutingDecision) string {

	var b strings.Builder
	switch decision.Category {
	case models.CategoryEmotional:
		b.WriteString("I hear you, and what you're feeling makes complete sense. ")
		b.WriteString("Let's slow this down together. Tell me what's weighing on you most, ")
		b.WriteString("and we'll separate what's in your control from what isn't.")
	case models.CategoryStrategic:
		b.WriteString("Good question to be asking. Before we lock anything in, let's frame it: ")
		b.WriteString("where do you want to be in twelve months, and which of your current options ")
		b.WriteString("actually moves you toward that? I've asked for the numbers to back us up.")
	case models.CategoryAccountability:
		b.WriteString("Let's look at this honestly. You set these commitments for a reason. ")
		b.WriteString("Walk me through what got done, what slipped, and what got in the way, ")
		b.WriteString("and we'll reset the plan without the guilt spiral.")
	case models.CategoryBrainstorm:
		b.WriteString("Fun, let's open this up. No bad ideas for the next ten minutes. ")
		b.WriteString("I'll start with a few directions and I've pulled in some research to feed the fire.")
	case models.CategoryRelationship:
		b.WriteString("That means a lot to hear. This works because you keep showing up. ")
		b.WriteString("Anything you'd like to do differently in how we work together?")
	default:
		b.WriteString("Happy to dig into this with you. ")
		b.WriteString(fmt.Sprintf("You asked: %q. Give me a bit more context and we'll take it from there.", interaction.Query))
	}
	return b.String()
}

func (h *templateHandler) taskContent(interaction *models.Interaction,
	decision models.RoutingDecision) string {

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s here. Regarding: %q\n\n", h.profile.DisplayName, interaction.Query))
	switch decision.Category {
	case models.CategoryAnalysis:
		b.WriteString("Key findings:\n")
		b.WriteString("- The core tradeoff in your question comes down to growth rate versus runway.\n")
		b.WriteString("- The comparable figures I'd benchmark against suggest a 3-6 month decision window.\n")
		b.WriteString("\nRecommendation: quantify both paths before committing; I can model either on request.")
	case models.CategoryResearch:
		b.WriteString("Here's what the landscape shows:\n")
		b.WriteString("- Recent market activity points to consolidation among mid-size players.\n")
		b.WriteString("- Two emerging approaches are worth a closer look; sources attached.\n")
		b.WriteString("\nRecommendation: shortlist the top findings and validate with one customer conversation each.")
	case models.CategoryDocument:
		b.WriteString("Draft structure prepared:\n")
		b.WriteString("- Executive summary, problem framing, approach, terms, appendix.\n")
		b.WriteString("- I've matched the tone to documents that have worked for similar audiences.\n")
		b.WriteString("\nRecommendation: review section order first; content polish comes cheap after that.")
	case models.CategoryTechnical:
		b.WriteString("Technical assessment:\n")
		b.WriteString("- The failure mode you're describing usually traces to configuration, not code.\n")
		b.WriteString("- I've outlined a check sequence from cheapest to most invasive.\n")
		b.WriteString("\nRecommendation: run the checks in order and capture the first divergence.")
	case models.CategoryReporting:
		b.WriteString("Status summary:\n")
		b.WriteString("- Progress against plan, notable wins, and open risks are compiled below.\n")
		b.WriteString("- Two items need your decision before the next reporting cycle.\n")
		b.WriteString("\nRecommendation: send the one-page version; keep the detail in the appendix.")
	default:
		b.WriteString("Structured breakdown prepared with recommendations and sources.")
	}
	return b.String()
}

func (h *templateHandler) insights(category models.QueryCategory) []models.Insight {
	switch category {
	case models.CategoryEmotional:
		return []models.Insight{{
			ID:               uuid.NewString(),
			Kind:             "wellbeing",
			Priority:         models.PriorityHigh,
			Title:            "Decision stress detected",
			Message:          "Big decisions land easier after writing down the reversible vs irreversible parts.",
			DeliveryChannels: []string{"chat"},
		}}
	case models.CategoryStrategic:
		return []models.Insight{{
			ID:               uuid.NewString(),
			Kind:             "strategy",
			Priority:         models.PriorityHigh,
			Title:            "Strategy checkpoint",
			Message:          "Revisit your twelve-month target before committing to this path.",
			DeliveryChannels: []string{"chat", "email"},
		}}
	case models.CategoryAccountability:
		return []models.Insight{{
			ID:               uuid.NewString(),
			Kind:             "accountability",
			Priority:         models.PriorityMedium,
			Title:            "Commitment drift",
			Message:          "Slipped commitments cluster around the same weekday; consider moving them.",
			DeliveryChannels: []string{"chat"},
		}}
	case models.CategoryAnalysis, models.CategoryReporting:
		return []models.Insight{{
			ID:               uuid.NewString(),
			Kind:             "data",
			Priority:         models.PriorityMedium,
			Title:            "Numbers need a second source",
			Message:          "One of the figures referenced is self-reported; verify before external use.",
			DeliveryChannels: []string{"chat"},
		}}
	default:
		return nil
	}
}

func relationshipSuggestions(category models.QueryCategory) []string {
	switch category {
	case models.CategoryEmotional:
		return []string{"Tell me more about what's driving this", "Want to list what's in your control?"}
	case models.CategoryStrategic:
		return []string{"Map the twelve-month picture", "Compare your top two options"}
	case models.CategoryAccountability:
		return []string{"Review last week's commitments", "Reset the plan for this week"}
	case models.CategoryBrainstorm:
		return []string{"Push for ten more ideas", "Pick three to pressure-test"}
	default:
		return []string{"Share a bit more context", "Ask me anything else on your mind"}
	}
}

func functionalSuggestions(category models.QueryCategory) []string {
	switch category {
	case models.CategoryResearch:
		return []string{"Request full source list", "Narrow to one segment"}
	case models.CategoryDocument:
		return []string{"Review the draft outline", "Request a tone adjustment"}
	case models.CategoryTechnical:
		return []string{"Run the first diagnostic step", "Share the exact error output"}
	case models.CategoryReporting:
		return []string{"Send the one-page summary", "Expand the risk section"}
	default:
		return []string{"Request the detailed model", "Ask for alternative scenarios"}
	}
}
