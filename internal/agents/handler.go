// Why this file: ./internal/agents/handler.go
// This defines the Handler interface every responder implements and the pool that
// owns one handler instance per roster identity. Handlers prepare deterministic
// content plus a prompt spec the host layer may send to a text-generation provider.
package agents

import (
	"context"
	"fmt"

	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// PromptSpec is the prepared prompt for the external generation collaborator.
// The core never calls the provider itself; the host layer does (if at all).
type PromptSpec struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Handler is a named responder capable of producing a HandlerResponse.
type Handler interface {
	ID() models.HandlerID
	Tier() models.HandlerTier
	DisplayName() string
	Process(ctx context.Context, interaction *models.Interaction, decision models.RoutingDecision) (*models.HandlerResponse, error)
	Prompt(interaction *models.Interaction, decision models.RoutingDecision) PromptSpec
}

// Pool owns one handler per roster identity.
type Pool struct {
	registry *Registry
	handlers map[models.HandlerID]Handler
}

// NewPool instantiates a handler for every profile in the registry.
func NewPool(registry *Registry, log logger.Logger) *Pool {
	if log == nil {
		log = logger.NewNop()
	}
	p := &Pool{registry: registry, handlers: map[models.HandlerID]Handler{}}
	for id, profile := range registry.profiles {
		p.handlers[id] = newTemplateHandler(profile, log)
	}
	return p
}

// Handler returns the handler for an identity, or an error for unknown ids.
func (p *Pool) Handler(id models.HandlerID) (Handler, error) {
	h, ok := p.handlers[id]
	if !ok {
		return nil, fmt.Errorf("unknown handler %q", id)
	}
	return h, nil
}

// Registry exposes the underlying lookup tables.
func (p *Pool) Registry() *Registry {
	return p.registry
}
