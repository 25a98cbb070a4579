// Why this file: ./internal/delegation/delegator.go
// This implements task delegation between handlers: tracked records with
// urgency-derived deadlines, expectation bundles, should-delegate heuristics,
// and conversion of delegated output into a handoff package for presentation.
package delegation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// Auditor records delegation lifecycle events. Implementations must be
// fire-and-forget: failures are their own problem and never surface here.
type Auditor interface {
	DelegationCreated(d models.Delegation)
	DelegationUpdated(d models.Delegation)
	HandoffCompleted(delegationID string, from, to models.HandlerID, summary string)
}

// NopAuditor discards all events.
type NopAuditor struct{}

func (NopAuditor) DelegationCreated(models.Delegation) {}
func (NopAuditor) DelegationUpdated(models.Delegation) {}

func (NopAuditor) HandoffCompleted(string, models.HandlerID, models.HandlerID, string) {}

// VoiceFunc rewrites a delegated handler's output so the delegating handler
// can present it in their own tone.
type VoiceFunc func(content string, from, to models.HandlerID) string

// Delegator builds and tracks delegations. Records are keyed by unique id
// and status transitions happen under the store lock, so no further
// synchronization is needed by callers.
type Delegator struct {
	mu       sync.RWMutex
	records  map[string]*models.Delegation
	registry *agents.Registry
	workload WorkloadProvider
	auditor  Auditor
	voice    VoiceFunc
	log      logger.Logger
	now      func() time.Time
}

// Option configures a Delegator.
type Option func(*Delegator)

// WithClock overrides the time source. Tests use this for exact deadlines.
func WithClock(now func() time.Time) Option {
	return func(d *Delegator) { d.now = now }
}

// WithWorkload overrides the workload provider. A real scheduler can
// supply live figures here; the default is static simulation.
func WithWorkload(w WorkloadProvider) Option {
	return func(d *Delegator) { d.workload = w }
}

// WithAuditor sets the audit collaborator.
func WithAuditor(a Auditor) Option {
	return func(d *Delegator) { d.auditor = a }
}

// WithVoice sets the handoff rewrite applied when a relationship-tier
// handler presents a delegated handler's results.
func WithVoice(v VoiceFunc) Option {
	return func(d *Delegator) { d.voice = v }
}

// New creates a Delegator.
func New(registry *agents.Registry, log logger.Logger, opts ...Option) *Delegator {
	if log == nil {
		log = logger.NewNop()
	}
	d := &Delegator{
		records:  map[string]*models.Delegation{},
		registry: registry,
		workload: StaticWorkload(),
		auditor:  NopAuditor{},
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delegate creates a tracked delegation from one handler to another. The
// deadline is fixed from the urgency at creation time and never recomputed.
func (d *Delegator) Delegate(from, to models.HandlerID, task string,
	context map[string]interface{}, urgency models.Urgency) (*models.DelegationResult, error) {

	if task == "" {
		return nil, fmt.Errorf("cannot delegate an empty task")
	}

	now := d.now()
	offset := urgency.DeadlineOffset()

	record := &models.Delegation{
		ID:           uuid.NewString(),
		From:         from,
		To:           to,
		Task:         task,
		Urgency:      urgency,
		CreatedAt:    now,
		Deadline:     now.Add(offset),
		Expectations: expectationsFor(urgency),
		Status:       models.DelegationPending,
		Metadata:     map[string]interface{}{},
	}
	if context != nil {
		record.Metadata["context"] = context
	}

	d.mu.Lock()
	d.records[record.ID] = record
	d.mu.Unlock()

	d.auditor.DelegationCreated(*record)
	d.log.Info("delegation created",
		"id", record.ID, "from", from, "to", to, "urgency", urgency,
		"deadline", record.Deadline)

	return &models.DelegationResult{
		ID:               record.ID,
		Status:           models.DelegationPending,
		EstimatedMinutes: int(offset.Minutes()),
		TrackingInfo: fmt.Sprintf("delegation %s: %s -> %s, due %s",
			record.ID, from, to, record.Deadline.Format(time.RFC3339)),
	}, nil
}

// expectationsFor builds the expectation bundle for an urgency level.
// All tiers request structured, accurate output with recommendations and
// sources; response time and detail level vary with urgency.
func expectationsFor(urgency models.Urgency) map[string]interface{} {
	exp := map[string]interface{}{
		"format":                  "structured",
		"accuracy":                "high",
		"include_recommendations": true,
		"include_sources":         true,
	}
	switch urgency {
	case models.UrgencyHigh:
		exp["response_time"] = "immediate"
		exp["detail_level"] = "summary"
	case models.UrgencyMedium:
		exp["response_time"] = "standard"
		exp["detail_level"] = "comprehensive"
	default:
		exp["response_time"] = "when_available"
		exp["detail_level"] = "thorough"
	}
	return exp
}

// ShouldDelegate decides whether the current handler ought to hand the
// task to a specialist, from task complexity and current workload.
func (d *Delegator) ShouldDelegate(current models.HandlerID, task string,
	context map[string]interface{}) models.DelegationCheck {

	persona := personaFrom(context)
	est := EstimateComplexity(task)

	if d.registry.TierOf(current) == models.TierRelationship {
		if est.Technical > 0.7 {
			return models.DelegationCheck{
				ShouldDelegate:     true,
				RecommendedHandler: agents.HandlerTechSpecialist,
				Reason:             "task is technically complex for a relationship handler",
				Confidence:         est.Technical,
			}
		}
		if est.Analytical > 0.8 {
			return models.DelegationCheck{
				ShouldDelegate:     true,
				RecommendedHandler: d.registry.AnalystHandler(persona),
				Reason:             "task is analytically heavy for a relationship handler",
				Confidence:         est.Analytical,
			}
		}
	}

	load, capacity := d.workload.Workload(current)
	if capacity > 0 && float64(load) > 0.9*float64(capacity) {
		return models.DelegationCheck{
			ShouldDelegate:     true,
			RecommendedHandler: d.registry.AnalystHandler(persona),
			Reason:             fmt.Sprintf("handler at %d/%d capacity", load, capacity),
			Confidence:         0.9,
		}
	}

	return models.DelegationCheck{
		ShouldDelegate: false,
		Reason:         "task fits the current handler",
		Confidence:     0.6,
	}
}

// Handoff converts a delegated handler's raw results into a package the
// delegating handler can present, and completes the delegation record.
func (d *Delegator) Handoff(delegationID string, results map[string]interface{},
	from, to models.HandlerID) (*models.HandoffResult, error) {

	d.mu.Lock()
	record, ok := d.records[delegationID]
	if !ok {
		d.mu.Unlock()
		return nil, fmt.Errorf("unknown delegation %q", delegationID)
	}
	if record.Status.Terminal() {
		status := record.Status
		d.mu.Unlock()
		return nil, fmt.Errorf("delegation %s already %s", delegationID, status)
	}
	record.Status = models.DelegationCompleted
	snapshot := *record
	d.mu.Unlock()

	d.auditor.DelegationUpdated(snapshot)

	toName := d.registry.DisplayName(to)
	summary := resultSummary(results)

	var synthesized string
	if d.voice != nil && d.registry.TierOf(from) == models.TierRelationship {
		synthesized = d.voice(summary, from, to)
	} else {
		synthesized = fmt.Sprintf(
			"I brought in %s on this. %s Happy to unpack any part of it with you.",
			toName, summary)
	}

	result := &models.HandoffResult{
		Success:             true,
		SynthesizedResponse: synthesized,
		ActionItems:         resultActionItems(results),
		FollowUpSuggestions: []string{
			"Ask for the detail behind any point",
			fmt.Sprintf("Request a follow-up pass from %s", toName),
		},
		Confidence: resultConfidence(results),
	}

	d.auditor.HandoffCompleted(delegationID, from, to, summary)
	d.log.Info("handoff completed", "id", delegationID, "from", from, "to", to)
	return result, nil
}

// Status returns a snapshot of a delegation record.
func (d *Delegator) Status(id string) (models.Delegation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	record, ok := d.records[id]
	if !ok {
		return models.Delegation{}, false
	}
	return *record, true
}

// Pending returns snapshots of all non-terminal delegations.
func (d *Delegator) Pending() []models.Delegation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Delegation, 0, len(d.records))
	for _, record := range d.records {
		if !record.Status.Terminal() {
			out = append(out, *record)
		}
	}
	return out
}

// markTimeout transitions a non-terminal record to timeout. Returns the
// updated snapshot and whether the transition happened.
func (d *Delegator) markTimeout(id string) (models.Delegation, bool) {
	d.mu.Lock()
	record, ok := d.records[id]
	if !ok || record.Status.Terminal() {
		d.mu.Unlock()
		return models.Delegation{}, false
	}
	record.Status = models.DelegationTimeout
	snapshot := *record
	d.mu.Unlock()

	d.auditor.DelegationUpdated(snapshot)
	return snapshot, true
}

// setMetadata annotates a record. Used by the reassignment policy.
func (d *Delegator) setMetadata(id, key string, value interface{}) {
	d.mu.Lock()
	if rec, ok := d.records[id]; ok {
		rec.Metadata[key] = value
	}
	d.mu.Unlock()
}

func resultSummary(results map[string]interface{}) string {
	if results != nil {
		if s, ok := results["summary"].(string); ok && s != "" {
			return s
		}
		if s, ok := results["content"].(string); ok && s != "" {
			return s
		}
	}
	return "They came back with a structured answer and recommendations."
}

func resultActionItems(results map[string]interface{}) []string {
	const maxItems = 3
	if results == nil {
		return nil
	}
	raw, ok := results["recommendations"].([]string)
	if !ok {
		if anyList, ok2 := results["recommendations"].([]interface{}); ok2 {
			for _, v := range anyList {
				if s, ok3 := v.(string); ok3 {
					raw = append(raw, s)
				}
			}
		}
	}
	if len(raw) > maxItems {
		raw = raw[:maxItems]
	}
	return raw
}

func resultConfidence(results map[string]interface{}) float64 {
	if results != nil {
		if c, ok := results["confidence"].(float64); ok {
			return c
		}
	}
	return 0.8
}

func personaFrom(context map[string]interface{}) models.Persona {
	if context != nil {
		if s, ok := context["persona"].(string); ok {
			return models.ParsePersona(s)
		}
	}
	return models.PersonaEntrepreneur
}
