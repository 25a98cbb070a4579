// Why this file: ./cmd/coachflow/main.go
// This is the interactive CLI host: it assembles the application, reads
// queries, routes or streams them, and renders results. All routing semantics
// live in internal packages; this file only drives the loop.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/yourusername/coachflow/display"
	"github.com/yourusername/coachflow/internal/app"
	"github.com/yourusername/coachflow/models"
)

var version = "1.0.0"

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	fmt.Printf("🧭 CoachFlow v%s\n", version)

	application, err := app.New()
	if err != nil {
		fmt.Printf("❌ Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		fmt.Println("\n👋 Shutting down...")
		cancel()
		os.Exit(0)
	}()

	showWelcome()
	runInteractiveLoop(ctx, application)
}

func showWelcome() {
	muted := color.New(color.FgHiBlack)
	fmt.Println("Ask anything, or use a command:")
	muted.Println("  /stream <query>     stream the response")
	muted.Println("  /persona <name>     set persona (entrepreneur, investor, lender, grantor, partner, admin)")
	muted.Println("  /agents             show your agent team")
	muted.Println("  /pending            show background work in flight")
	muted.Println("  /history [n]        show recent delegation events")
	muted.Println("  /metrics            show routing metrics")
	muted.Println("  /help               show this help")
	muted.Println("  /exit               quit")
	fmt.Println()
}

func runInteractiveLoop(ctx context.Context, application *app.Application) {
	promptColor := color.New(color.FgCyan, color.Bold)
	renderer := display.NewRenderer(display.Config{EnableIcons: true})
	namer := &display.RegistryNamer{Lookup: application.Registry().DisplayName}
	scanner := bufio.NewScanner(os.Stdin)
	persona := models.PersonaEntrepreneur

	for {
		promptColor.Printf("%s> ", persona)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/exit" || line == "/quit":
			return

		case line == "/help":
			showWelcome()

		case strings.HasPrefix(line, "/persona"):
			arg := strings.TrimSpace(strings.TrimPrefix(line, "/persona"))
			persona = models.ParsePersona(arg)
			fmt.Printf("persona set to %s\n", persona)

		case line == "/agents":
			recs := application.Recommendations(map[string]interface{}{"persona": string(persona)})
			renderer.RenderRecommendations(recs)

		case line == "/pending":
			showPending(application, namer)

		case strings.HasPrefix(line, "/history"):
			showHistory(application, line)

		case line == "/metrics":
			m := application.Metrics()
			fmt.Printf("queries %d, errors %d, success %.0f%%, avg confidence %.2f\n",
				m.QueriesHandled, m.ErrorCount, m.SuccessRate*100, m.AverageConfidence)

		case strings.HasPrefix(line, "/stream"):
			query := strings.TrimSpace(strings.TrimPrefix(line, "/stream"))
			if query == "" {
				fmt.Println("usage: /stream <query>")
				continue
			}
			streamQuery(ctx, application, renderer, namer, persona, query)

		default:
			routeQuery(ctx, application, renderer, namer, persona, line)
		}
	}
}

func routeQuery(ctx context.Context, application *app.Application, renderer *display.Renderer,
	namer *display.RegistryNamer, persona models.Persona, query string) {

	spinner := display.StartSpinner("routing")
	resp := application.Route(ctx, &models.Interaction{Query: query, Persona: persona})
	if text, ok := application.GenerateText(ctx, resp); ok {
		resp.Primary.Content = text
	}
	spinner.Stop()

	if resp.CollaborationMeta != nil {
		if decision, ok := resp.CollaborationMeta["routing"].(models.RoutingDecision); ok {
			renderer.RenderRouting(&decision, namer)
		}
	}
	renderer.RenderCombined(resp, namer)
	fmt.Println()
}

func streamQuery(ctx context.Context, application *app.Application, renderer *display.Renderer,
	namer *display.RegistryNamer, persona models.Persona, query string) {

	chunks := application.RouteStreaming(ctx, &models.Interaction{Query: query, Persona: persona})
	pending := renderer.RenderStream(chunks, namer)
	for _, id := range pending {
		fmt.Printf("track with /pending (delegation %s)\n", id)
	}
	fmt.Println()
}

func showPending(application *app.Application, namer *display.RegistryNamer) {
	pending := application.PendingDelegations()
	if len(pending) == 0 {
		fmt.Println("nothing in flight")
		return
	}
	for _, d := range pending {
		fmt.Printf("  %s  %s → %s  (%s, due %s)\n",
			d.ID, namer.DisplayName(d.From), namer.DisplayName(d.To),
			d.Status, d.Deadline.Format("15:04:05"))
	}
}

func showHistory(application *app.Application, line string) {
	limit := 10
	if arg := strings.TrimSpace(strings.TrimPrefix(line, "/history")); arg != "" {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := application.History(limit)
	if err != nil {
		fmt.Printf("history unavailable: %v\n", err)
		return
	}
	if len(events) == 0 {
		fmt.Println("no delegation history yet")
		return
	}
	for _, e := range events {
		fmt.Printf("  %s  %-20s %s → %s\n",
			e.CreatedAt.Format("15:04:05"), e.Event, e.FromHandler, e.ToHandler)
	}
}
