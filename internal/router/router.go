// Why this file: ./internal/router/router.go
// This is the orchestrator and the single entry point: classify, select, execute
// the primary and support handlers concurrently, synthesize, and convert any
// failure into a concierge fallback response. It is the pipeline's only error boundary.
package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/classifier"
	"github.com/yourusername/coachflow/internal/delegation"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/internal/synthesis"
	"github.com/yourusername/coachflow/models"
)

// Config holds the router's tunables.
type Config struct {
	// SupportTimeout bounds each support handler; a handler that misses it
	// is dropped from synthesis rather than failing the interaction.
	SupportTimeout time.Duration
	// StreamChunkWords is the word-group size of streamed content chunks.
	StreamChunkWords int
	// StreamChunkDelay paces streamed chunks.
	StreamChunkDelay time.Duration
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		SupportTimeout:   10 * time.Second,
		StreamChunkWords: 4,
		StreamChunkDelay: 50 * time.Millisecond,
	}
}

// Metrics tracks router performance.
type Metrics struct {
	QueriesHandled    int
	ErrorCount        int
	SuccessRate       float64
	AverageConfidence float64
}

// Router sequences classifier, selector, handlers and synthesizer.
type Router struct {
	classifier  *classifier.Classifier
	selector    *agents.Selector
	pool        *agents.Pool
	synthesizer *synthesis.Synthesizer
	delegator   *delegation.Delegator
	registry    *agents.Registry
	cfg         Config
	log         logger.Logger

	mu      sync.Mutex
	metrics Metrics
}

// New wires a router from its components.
func New(cls *classifier.Classifier, selector *agents.Selector, pool *agents.Pool,
	synth *synthesis.Synthesizer, delegator *delegation.Delegator,
	cfg Config, log logger.Logger) *Router {

	if log == nil {
		log = logger.NewNop()
	}
	if cfg.SupportTimeout <= 0 {
		cfg.SupportTimeout = DefaultConfig().SupportTimeout
	}
	if cfg.StreamChunkWords <= 0 {
		cfg.StreamChunkWords = DefaultConfig().StreamChunkWords
	}
	return &Router{
		classifier:  cls,
		selector:    selector,
		pool:        pool,
		synthesizer: synth,
		delegator:   delegator,
		registry:    pool.Registry(),
		cfg:         cfg,
		log:         log,
	}
}

// Route processes one interaction end to end. The caller always receives a
// response object; failures surface as a concierge fallback with the error
// in metadata, never as a returned error.
func (r *Router) Route(ctx context.Context, interaction *models.Interaction) (combined *models.CombinedResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			combined = r.fallback(interaction, fmt.Errorf("panic: %v", rec))
		}
	}()

	cls := r.classifier.Describe(interaction.Query)
	decision := r.selector.Select(interaction, cls)

	primary, contributors, err := r.execute(ctx, interaction, decision)
	if err != nil {
		return r.fallback(interaction, err)
	}

	combined = r.synthesizer.SynthesizeFor(cls.Category, cls.ContextFlags, primary, contributors)
	combined.CollaborationMeta["routing"] = decision
	if decision.NotifyPrimaryTier {
		combined.CollaborationMeta["notified_handler"] = r.registry.RelationshipHandler(interaction.Persona)
	}

	r.recordSuccess(combined)
	return combined
}

// execute runs the primary handler and all support handlers concurrently
// and joins them. Support handlers run under their own timeout; a slow or
// failing support handler degrades the synthesis instead of failing it.
func (r *Router) execute(ctx context.Context, interaction *models.Interaction,
	decision models.RoutingDecision) (*models.HandlerResponse, []*models.HandlerResponse, error) {

	primaryHandler, err := r.pool.Handler(decision.Primary)
	if err != nil {
		return nil, nil, err
	}

	type supportResult struct {
		index int
		resp  *models.HandlerResponse
	}

	results := make(chan supportResult, len(decision.Support))
	var wg sync.WaitGroup
	for i, id := range decision.Support {
		handler, herr := r.pool.Handler(id)
		if herr != nil {
			r.log.Warn("skipping unknown support handler", "handler", id)
			continue
		}
		wg.Add(1)
		go func(index int, h agents.Handler) {
			defer wg.Done()
			supportCtx, cancel := context.WithTimeout(ctx, r.cfg.SupportTimeout)
			defer cancel()
			resp, perr := h.Process(supportCtx, interaction, decision)
			if perr != nil {
				r.log.Warn("support handler dropped",
					"handler", h.ID(), "error", perr)
				return
			}
			results <- supportResult{index: index, resp: resp}
		}(i, handler)
	}

	primary, err := primaryHandler.Process(ctx, interaction, decision)

	wg.Wait()
	close(results)

	if err != nil {
		return nil, nil, fmt.Errorf("primary handler %s failed: %w", decision.Primary, err)
	}

	ordered := make([]*models.HandlerResponse, len(decision.Support))
	for res := range results {
		ordered[res.index] = res.resp
	}
	contributors := make([]*models.HandlerResponse, 0, len(ordered))
	for _, resp := range ordered {
		if resp != nil {
			contributors = append(contributors, resp)
		}
	}

	return primary, contributors, nil
}

// DelegateTask delegates a task on behalf of a handler, executes the
// delegated handler, and returns the handoff rewritten for the delegating
// handler to present.
func (r *Router) DelegateTask(ctx context.Context, from models.HandlerID, task string,
	userContext map[string]interface{}, urgency models.Urgency) (*models.HandlerResponse, error) {

	check := r.delegator.ShouldDelegate(from, task, userContext)
	target := check.RecommendedHandler
	if target == "" {
		target = r.registry.AnalystHandler(personaFromContext(userContext))
	}

	result, err := r.delegator.Delegate(from, target, task, userContext, urgency)
	if err != nil {
		return nil, err
	}

	handler, err := r.pool.Handler(target)
	if err != nil {
		return nil, err
	}

	cls := r.classifier.Describe(task)
	interaction := &models.Interaction{
		Query:   task,
		Persona: personaFromContext(userContext),
		Context: userContext,
	}
	resp, err := handler.Process(ctx, interaction, models.RoutingDecision{
		Primary:  target,
		Approach: models.ApproachTaskFocused,
		Category: cls.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("delegated handler %s failed: %w", target, err)
	}

	handoff, err := r.delegator.Handoff(result.ID, map[string]interface{}{
		"summary":    resp.Content,
		"confidence": resp.Confidence(0.8),
	}, from, target)
	if err != nil {
		return nil, err
	}

	return &models.HandlerResponse{
		ID:          uuid.NewString(),
		Handler:     from,
		Content:     handoff.SynthesizedResponse,
		Suggestions: handoff.FollowUpSuggestions,
		Insights:    resp.Insights,
		Metadata: map[string]interface{}{
			"delegation_id": result.ID,
			"delegated_to":  string(target),
			"confidence":    handoff.Confidence,
		},
		Timestamp: time.Now(),
	}, nil
}

// ShouldEscalate checks whether the current handler should hand off to a
// different tier for this category.
func (r *Router) ShouldEscalate(current models.HandlerID, category models.QueryCategory,
	persona models.Persona, context map[string]interface{}) models.EscalationDecision {
	return r.selector.ShouldEscalate(current, category, persona, context)
}

// GetAgentRecommendations lists the handlers available to the user for
// UI display.
func (r *Router) GetAgentRecommendations(userContext map[string]interface{}) []models.Recommendation {
	return r.registry.Recommendations(personaFromContext(userContext))
}

// Metrics returns a snapshot of router metrics.
func (r *Router) Metrics() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}

// fallback is the single error boundary output: a concierge-authored
// apology carrying the error in metadata. No retry is attempted.
func (r *Router) fallback(interaction *models.Interaction, err error) *models.CombinedResponse {
	r.log.Error("routing failed, serving fallback",
		"persona", interaction.Persona, "error", err)
	r.recordError()

	primary := &models.HandlerResponse{
		ID:      uuid.NewString(),
		Handler: agents.HandlerConcierge,
		Content: "I'm sorry, something went wrong while putting your answer together. " +
			"Your request was not lost; please try again in a moment.",
		Metadata: map[string]interface{}{
			"error": err.Error(),
		},
		Timestamp: time.Now(),
	}
	return &models.CombinedResponse{
		Primary: primary,
		CollaborationMeta: map[string]interface{}{
			"template": "fallback",
		},
	}
}

func (r *Router) recordSuccess(combined *models.CombinedResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.QueriesHandled++
	if conf, ok := combined.CollaborationMeta["confidence"].(float64); ok {
		n := float64(r.metrics.QueriesHandled - r.metrics.ErrorCount)
		r.metrics.AverageConfidence += (conf - r.metrics.AverageConfidence) / n
	}
	r.metrics.SuccessRate = float64(r.metrics.QueriesHandled-r.metrics.ErrorCount) /
		float64(r.metrics.QueriesHandled)
}

func (r *Router) recordError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.QueriesHandled++
	r.metrics.ErrorCount++
	r.metrics.SuccessRate = float64(r.metrics.QueriesHandled-r.metrics.ErrorCount) /
		float64(r.metrics.QueriesHandled)
}

func personaFromContext(context map[string]interface{}) models.Persona {
	if context != nil {
		if s, ok := context["persona"].(string); ok {
			return models.ParsePersona(s)
		}
	}
	return models.PersonaEntrepreneur
}
