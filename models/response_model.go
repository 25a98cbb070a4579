// Why this file: ./models/response_model.go
// This defines the response structures produced by handlers and the synthesizer:
// handler responses, merged combined responses, insights, actions, and stream chunks.
// It ensures responses are well-structured with proper metadata for display and auditing.
package models

import (
	"time"
)

// HandlerResponse represents a single handler's answer to an interaction.
type HandlerResponse struct {
	ID          string                 `json:"id"`
	QueryID     string                 `json:"query_id,omitempty"`
	Handler     HandlerID              `json:"handler"`
	Content     string                 `json:"content"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Actions     []Action               `json:"actions,omitempty"`
	Insights    []Insight              `json:"insights,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Confidence reads the response confidence from metadata, or def if absent.
func (r *HandlerResponse) Confidence(def float64) float64 {
	if r == nil || r.Metadata == nil {
		return def
	}
	if v, ok := r.Metadata["confidence"].(float64); ok {
		return v
	}
	return def
}

// Action represents an actionable follow-up attached to a response.
type Action struct {
	Label    string          `json:"label"`
	Command  string          `json:"command,omitempty"`
	Priority InsightPriority `json:"priority,omitempty"`
}

// InsightPriority ranks insights for merge ordering.
type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// Rank returns a numeric rank for ordering (high > medium > low).
func (p InsightPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Insight is a short, prioritized observation surfaced alongside a response.
type Insight struct {
	ID               string          `json:"id"`
	Kind             string          `json:"kind"`
	Priority         InsightPriority `json:"priority"`
	Title            string          `json:"title"`
	Message          string          `json:"message"`
	DeliveryChannels []string        `json:"delivery_channels,omitempty"`
}

// MaxMergedInsights bounds CombinedResponse.MergedInsights.
const MaxMergedInsights = 5

// CombinedResponse is the synthesized result of one primary response and
// zero or more supporting contributions.
type CombinedResponse struct {
	Primary           *HandlerResponse       `json:"primary"`
	Contributors      []HandlerID            `json:"contributors,omitempty"`
	MergedInsights    []Insight              `json:"merged_insights,omitempty"`
	CollaborationMeta map[string]interface{} `json:"collaboration_meta,omitempty"`
}

// Risk describes a decision-support risk entry.
type Risk struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Probability float64 `json:"probability"`
}

// StreamChunkType identifies the kind of a streamed fragment.
type StreamChunkType string

const (
	ChunkRouting StreamChunkType = "routing"
	ChunkContent StreamChunkType = "content"
	ChunkStatus  StreamChunkType = "status"
	ChunkFinal   StreamChunkType = "final"
)

// SupportStatus reports a support handler triggered during streaming.
// Support work started mid-stream is not awaited inline; the host polls
// the delegator with the delegation id for completion.
type SupportStatus struct {
	Handler      HandlerID `json:"handler"`
	DelegationID string    `json:"delegation_id,omitempty"`
	Status       string    `json:"status"`
}

// StreamChunk is one fragment of a streaming routing response. The sequence
// is finite, forward-only and non-restartable: one routing chunk, then
// content chunks, then a final chunk.
type StreamChunk struct {
	Type        StreamChunkType  `json:"type"`
	Content     string           `json:"content,omitempty"`
	Routing     *RoutingDecision `json:"routing,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Insights    []Insight        `json:"insights,omitempty"`
	Support     []SupportStatus  `json:"support,omitempty"`
	Done        bool             `json:"done"`
	Err         string           `json:"error,omitempty"`
}
