// Why this file: ./internal/router/streaming.go
// This implements the streaming variant of routing: a finite, forward-only,
// non-restartable sequence of chunks with explicit cancellation between emissions.
// Support handlers triggered mid-stream are reported in progress, not awaited.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/coachflow/models"
)

// RouteStreaming processes an interaction and yields partial fragments:
// one routing chunk, a status chunk when support work starts in the
// background, the primary content in fixed-size word groups with a pacing
// delay, then a final chunk with suggestions, insights and support status.
// The channel is closed after the final chunk. Cancellation is observed
// between chunk emissions.
func (r *Router) RouteStreaming(ctx context.Context, interaction *models.Interaction) <-chan models.StreamChunk {
	out := make(chan models.StreamChunk)

	go func() {
		defer close(out)
		defer func() {
			if rec := recover(); rec != nil {
				r.emitFailure(ctx, out, interaction, fmt.Errorf("panic: %v", rec))
			}
		}()

		cls := r.classifier.Describe(interaction.Query)
		decision := r.selector.Select(interaction, cls)

		if !r.emit(ctx, out, models.StreamChunk{Type: models.ChunkRouting, Routing: &decision}) {
			return
		}

		handler, err := r.pool.Handler(decision.Primary)
		if err != nil {
			r.emitFailure(ctx, out, interaction, err)
			return
		}
		primary, err := handler.Process(ctx, interaction, decision)
		if err != nil {
			r.emitFailure(ctx, out, interaction, fmt.Errorf("primary handler %s failed: %w", decision.Primary, err))
			return
		}

		// Support work is kicked off as tracked delegations and reported
		// in progress; completion is polled out of band via the delegator.
		support := r.startSupportDelegations(interaction, decision)
		if len(support) > 0 {
			names := make([]string, 0, len(support))
			for _, s := range support {
				names = append(names, r.registry.DisplayName(s.Handler))
			}
			status := models.StreamChunk{
				Type:    models.ChunkStatus,
				Content: fmt.Sprintf("Working with %s in the background.", strings.Join(names, " and ")),
				Support: support,
			}
			if !r.emit(ctx, out, status) {
				return
			}
		}

		words := strings.Fields(primary.Content)
		for start := 0; start < len(words); start += r.cfg.StreamChunkWords {
			end := start + r.cfg.StreamChunkWords
			if end > len(words) {
				end = len(words)
			}
			chunk := models.StreamChunk{
				Type:    models.ChunkContent,
				Content: strings.Join(words[start:end], " ") + " ",
			}
			if !r.emit(ctx, out, chunk) {
				return
			}
			if r.cfg.StreamChunkDelay > 0 && end < len(words) {
				select {
				case <-ctx.Done():
					return
				case <-time.After(r.cfg.StreamChunkDelay):
				}
			}
		}

		final := models.StreamChunk{
			Type:        models.ChunkFinal,
			Suggestions: primary.Suggestions,
			Insights:    primary.Insights,
			Support:     support,
			Done:        true,
		}
		if r.emit(ctx, out, final) {
			r.recordSuccess(&models.CombinedResponse{CollaborationMeta: map[string]interface{}{
				"confidence": primary.Confidence(defaultStreamConfidence),
			}})
		}
	}()

	return out
}

const defaultStreamConfidence = 0.8

// startSupportDelegations opens a delegation per support handler so the
// work is tracked and the host can poll its status.
func (r *Router) startSupportDelegations(interaction *models.Interaction,
	decision models.RoutingDecision) []models.SupportStatus {

	statuses := make([]models.SupportStatus, 0, len(decision.Support))
	for _, id := range decision.Support {
		result, err := r.delegator.Delegate(decision.Primary, id, interaction.Query,
			interaction.Context, models.UrgencyMedium)
		if err != nil {
			r.log.Warn("support delegation failed", "handler", id, "error", err)
			continue
		}
		statuses = append(statuses, models.SupportStatus{
			Handler:      id,
			DelegationID: result.ID,
			Status:       "in_progress",
		})
	}
	return statuses
}

// emit sends one chunk unless the stream is cancelled. Returns false when
// the consumer is gone.
func (r *Router) emit(ctx context.Context, out chan<- models.StreamChunk, chunk models.StreamChunk) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- chunk:
		return true
	}
}

// emitFailure converts a streaming error into the concierge fallback,
// delivered as a content chunk plus an error-flagged final chunk.
func (r *Router) emitFailure(ctx context.Context, out chan<- models.StreamChunk,
	interaction *models.Interaction, err error) {

	fallback := r.fallback(interaction, err)
	r.emit(ctx, out, models.StreamChunk{
		Type:    models.ChunkContent,
		Content: fallback.Primary.Content,
	})
	r.emit(ctx, out, models.StreamChunk{
		Type: models.ChunkFinal,
		Done: true,
		Err:  err.Error(),
	})
}
