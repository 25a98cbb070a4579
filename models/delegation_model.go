// Why this file: ./models/delegation_model.go
// This defines the delegation tracking structures: tracked handoffs between handlers
// with urgency-derived deadlines, expectation bundles, and terminal status handling.
package models

import (
	"time"
)

// Urgency drives a delegation's deadline and expectation bundle.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Deadline offsets per urgency. The deadline is fixed at creation time and
// never recomputed.
const (
	DeadlineHigh   = 5 * time.Minute
	DeadlineMedium = 30 * time.Minute
	DeadlineLow    = 2 * time.Hour
)

// DeadlineOffset returns the deadline offset for an urgency level.
// Unknown urgencies get the low-urgency offset.
func (u Urgency) DeadlineOffset() time.Duration {
	switch u {
	case UrgencyHigh:
		return DeadlineHigh
	case UrgencyMedium:
		return DeadlineMedium
	default:
		return DeadlineLow
	}
}

// DelegationStatus tracks a delegation through its lifecycle.
type DelegationStatus string

const (
	DelegationPending    DelegationStatus = "pending"
	DelegationInProgress DelegationStatus = "in_progress"
	DelegationCompleted  DelegationStatus = "completed"
	DelegationTimeout    DelegationStatus = "timeout"
	DelegationFailed     DelegationStatus = "failed"
)

// Terminal reports whether the status is final.
func (s DelegationStatus) Terminal() bool {
	return s == DelegationCompleted || s == DelegationTimeout || s == DelegationFailed
}

// Delegation is a tracked handoff of a task from one handler to another.
type Delegation struct {
	ID           string                 `json:"id"`
	From         HandlerID              `json:"from"`
	To           HandlerID              `json:"to"`
	Task         string                 `json:"task"`
	Urgency      Urgency                `json:"urgency"`
	CreatedAt    time.Time              `json:"created_at"`
	Deadline     time.Time              `json:"deadline"`
	Expectations map[string]interface{} `json:"expectations,omitempty"`
	Status       DelegationStatus       `json:"status"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// DelegationResult is returned to the caller when a delegation is created.
type DelegationResult struct {
	ID               string           `json:"id"`
	Status           DelegationStatus `json:"status"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	TrackingInfo     string           `json:"tracking_info"`
}

// DelegationCheck is the outcome of a should-delegate evaluation.
type DelegationCheck struct {
	ShouldDelegate     bool      `json:"should_delegate"`
	RecommendedHandler HandlerID `json:"recommended_handler,omitempty"`
	Reason             string    `json:"reason"`
	Confidence         float64   `json:"confidence"`
}

// HandoffResult packages a delegated handler's raw output for presentation
// by the delegating handler.
type HandoffResult struct {
	Success             bool     `json:"success"`
	SynthesizedResponse string   `json:"synthesized_response"`
	ActionItems         []string `json:"action_items,omitempty"`
	FollowUpSuggestions []string `json:"follow_up_suggestions,omitempty"`
	Confidence          float64  `json:"confidence"`
}
