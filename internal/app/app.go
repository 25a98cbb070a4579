// Why this file: ./internal/app/app.go
// This wires the application together: configuration, logging, classifier
// rules, the agent pool, delegation with audit storage, the timeout monitor
// and the router. Hosts talk to Application, never to individual components.
package app

import (
	"context"
	"fmt"

	"github.com/yourusername/coachflow/config"
	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/classifier"
	"github.com/yourusername/coachflow/internal/delegation"
	"github.com/yourusername/coachflow/internal/llm"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/internal/router"
	"github.com/yourusername/coachflow/internal/synthesis"
	"github.com/yourusername/coachflow/models"
	"github.com/yourusername/coachflow/storage"
)

// Application represents the assembled routing pipeline
type Application struct {
	config        *config.Config
	log           logger.Logger
	registry      *agents.Registry
	classifier    *classifier.Classifier
	delegator     *delegation.Delegator
	monitor       *delegation.Monitor
	router        *router.Router
	audit         *storage.AuditStore
	generator     llm.TextGenerator
	generatorLive bool
	watchStop     chan struct{}
}

// New creates a new application instance
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}

	app := &Application{config: cfg, log: log}

	if err := app.initializeStorage(); err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	if err := app.initializeClassifier(); err != nil {
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	app.initializeGenerator()
	app.initializeRouting()

	return app, nil
}

// Route processes one interaction and returns the synthesized response
func (app *Application) Route(ctx context.Context, interaction *models.Interaction) *models.CombinedResponse {
	return app.router.Route(ctx, interaction)
}

// RouteStreaming processes one interaction as a chunked stream
func (app *Application) RouteStreaming(ctx context.Context, interaction *models.Interaction) <-chan models.StreamChunk {
	return app.router.RouteStreaming(ctx, interaction)
}

// Recommendations returns the agent roster for the given user context
func (app *Application) Recommendations(userContext map[string]interface{}) []models.Recommendation {
	return app.router.GetAgentRecommendations(userContext)
}

// DelegationStatus looks up a tracked delegation by id
func (app *Application) DelegationStatus(id string) (models.Delegation, bool) {
	return app.delegator.Status(id)
}

// PendingDelegations lists delegations that have not reached a terminal state
func (app *Application) PendingDelegations() []models.Delegation {
	return app.delegator.Pending()
}

// History returns recent audit events, newest first
func (app *Application) History(limit int) ([]storage.AuditEvent, error) {
	if app.audit == nil {
		return nil, fmt.Errorf("audit store not initialized")
	}
	return app.audit.RecentEvents(limit)
}

// Metrics returns router performance counters
func (app *Application) Metrics() router.Metrics {
	return app.router.Metrics()
}

// Registry exposes handler display names for presentation layers
func (app *Application) Registry() *agents.Registry {
	return app.registry
}

// Generator returns the configured text generator, if any
func (app *Application) Generator() llm.TextGenerator {
	return app.generator
}

// GenerateText runs the primary handler's prepared prompt through the
// configured provider and returns the generated text. Returns false when no
// live provider is configured, the response carries no prompt, or generation
// fails; callers present the prepared content in those cases.
func (app *Application) GenerateText(ctx context.Context, combined *models.CombinedResponse) (string, bool) {
	if !app.generatorLive {
		return "", false
	}
	spec, ok := promptFrom(combined)
	if !ok {
		return "", false
	}
	resp, err := app.generator.Generate(ctx, llm.GenerationRequest{
		System: spec.System,
		User:   spec.User,
	})
	if err != nil {
		app.log.Warn("generation failed, keeping prepared content", "error", err)
		return "", false
	}
	return resp.Text, true
}

// promptFrom extracts the prompt spec a handler attached to its response.
func promptFrom(combined *models.CombinedResponse) (agents.PromptSpec, bool) {
	if combined == nil || combined.Primary == nil || combined.Primary.Metadata == nil {
		return agents.PromptSpec{}, false
	}
	spec, ok := combined.Primary.Metadata["prompt"].(agents.PromptSpec)
	return spec, ok
}

// Close gracefully shuts down the application
func (app *Application) Close() error {
	if app.monitor != nil {
		app.monitor.Stop()
	}
	if app.watchStop != nil {
		close(app.watchStop)
	}
	if app.audit != nil {
		app.audit.Close()
	}
	return nil
}

func (app *Application) initializeStorage() error {
	store, err := storage.NewAuditStore(app.config.Database.Path, app.log)
	if err != nil {
		// Audit storage is an observability concern; routing works without it.
		app.log.Warn("audit store unavailable, delegation history disabled", "error", err)
		return nil
	}
	app.audit = store
	return nil
}

func (app *Application) initializeClassifier() error {
	app.classifier = classifier.New(app.log)

	rulesFile := app.config.Classifier.RulesFile
	if rulesFile == "" {
		return nil
	}
	if err := app.classifier.LoadRulesFile(rulesFile); err != nil {
		return fmt.Errorf("loading rules from %s: %w", rulesFile, err)
	}
	if app.config.Classifier.HotReload {
		app.watchStop = make(chan struct{})
		if err := app.classifier.Watch(rulesFile, app.watchStop); err != nil {
			app.log.Warn("rules hot reload unavailable", "error", err)
		}
	}
	return nil
}

func (app *Application) initializeGenerator() {
	gen, err := llm.NewOpenAIGenerator(app.config.AI.OpenAI)
	if err != nil {
		app.log.Info("no AI provider configured, using prepared content", "reason", err.Error())
		app.generator = llm.StaticGenerator{}
		return
	}
	app.generator = gen
	app.generatorLive = true
}

func (app *Application) initializeRouting() {
	app.registry = agents.NewRegistry()
	selector := agents.NewSelector(app.registry, app.log)
	pool := agents.NewPool(app.registry, app.log)
	synth := synthesis.New(app.registry, app.log)

	opts := []delegation.Option{delegation.WithVoice(synth.HandoffVoice)}
	if app.audit != nil {
		opts = append(opts, delegation.WithAuditor(app.audit))
	}
	app.delegator = delegation.New(app.registry, app.log, opts...)

	app.monitor = delegation.NewMonitor(app.delegator, app.config.Delegation.MonitorInterval,
		delegation.ReassignOnTimeout(app.delegator, app.registry, app.log), app.log)
	app.monitor.Start()

	app.router = router.New(app.classifier, selector, pool, synth, app.delegator,
		router.Config{
			SupportTimeout:   app.config.Router.SupportTimeout,
			StreamChunkWords: app.config.Router.StreamChunkWords,
			StreamChunkDelay: app.config.Router.StreamChunkDelay,
		}, app.log)
}
