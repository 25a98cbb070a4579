// Why this file: ./display/renderer.go
// This handles all CLI display operations: routing headers, synthesized
// responses, insights, suggestions and agent recommendations. Rendering is
// kept out of the routing core so hosts can swap their own presentation.
package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/yourusername/coachflow/models"
)

// Renderer handles CLI display operations
type Renderer struct {
	config  Config
	colors  ColorScheme
	symbols SymbolSet
	width   int
}

// Config holds display configuration
type Config struct {
	EnableIcons  bool `json:"enable_icons"`
	CompactMode  bool `json:"compact_mode"`
	MaxWidth     int  `json:"max_width"`
	ShowMetadata bool `json:"show_metadata"`
}

// SymbolSet defines icons/symbols for different elements
type SymbolSet struct {
	Bullet     string
	LastBullet string
	Success    string
	Warning    string
	Info       string
	Route      string
	Support    string
	Arrow      string
}

// ColorScheme defines colors for different elements
type ColorScheme struct {
	Primary   *color.Color
	Secondary *color.Color
	Success   *color.Color
	Warning   *color.Color
	Info      *color.Color
	Muted     *color.Color
}

// NewRenderer creates a new display renderer
func NewRenderer(config Config) *Renderer {
	r := &Renderer{
		config: config,
		width:  config.MaxWidth,
	}
	if r.width <= 0 {
		r.width = 100
	}

	r.initializeSymbols()
	r.initializeColors()

	return r
}

func (r *Renderer) initializeSymbols() {
	if r.config.EnableIcons {
		r.symbols = SymbolSet{
			Bullet:     "├─",
			LastBullet: "└─",
			Success:    "✅",
			Warning:    "⚠️",
			Info:       "💡",
			Route:      "🧭",
			Support:    "🤝",
			Arrow:      "→",
		}
	} else {
		r.symbols = SymbolSet{
			Bullet:     "├─",
			LastBullet: "└─",
			Success:    "[✓]",
			Warning:    "[!]",
			Info:       "[i]",
			Route:      "[>]",
			Support:    "[+]",
			Arrow:      "->",
		}
	}
}

func (r *Renderer) initializeColors() {
	r.colors = ColorScheme{
		Primary:   color.New(color.FgCyan, color.Bold),
		Secondary: color.New(color.FgWhite),
		Success:   color.New(color.FgGreen),
		Warning:   color.New(color.FgYellow),
		Info:      color.New(color.FgBlue),
		Muted:     color.New(color.FgHiBlack),
	}
}

// RenderRouting prints the routing decision header for an interaction
func (r *Renderer) RenderRouting(decision *models.RoutingDecision, registry *RegistryNamer) {
	if decision == nil {
		return
	}
	primary := string(decision.Primary)
	if registry != nil {
		primary = registry.DisplayName(decision.Primary)
	}
	r.colors.Primary.Printf("%s %s", r.symbols.Route, primary)
	r.colors.Muted.Printf("  (%s, confidence %.2f)\n", decision.Category, decision.Confidence)

	for i, support := range decision.Support {
		bullet := r.symbols.Bullet
		if i == len(decision.Support)-1 {
			bullet = r.symbols.LastBullet
		}
		name := string(support)
		if registry != nil {
			name = registry.DisplayName(support)
		}
		r.colors.Muted.Printf("  %s %s supporting %s\n", bullet, r.symbols.Support, name)
	}
	if decision.NotifyPrimaryTier {
		r.colors.Muted.Printf("  %s primary coach notified\n", r.symbols.Info)
	}
}

// RenderCombined prints a synthesized response: content, insights, suggestions
func (r *Renderer) RenderCombined(resp *models.CombinedResponse, registry *RegistryNamer) {
	if resp == nil || resp.Primary == nil {
		r.colors.Warning.Printf("%s no response\n", r.symbols.Warning)
		return
	}

	fmt.Println()
	fmt.Println(wrap(resp.Primary.Content, r.width))

	if len(resp.MergedInsights) > 0 {
		fmt.Println()
		r.colors.Info.Printf("%s Insights\n", r.symbols.Info)
		for i, insight := range resp.MergedInsights {
			bullet := r.symbols.Bullet
			if i == len(resp.MergedInsights)-1 {
				bullet = r.symbols.LastBullet
			}
			r.renderInsight(bullet, insight)
		}
	}

	if len(resp.Primary.Suggestions) > 0 && !r.config.CompactMode {
		fmt.Println()
		r.colors.Muted.Println("You could also ask:")
		for _, s := range resp.Primary.Suggestions {
			r.colors.Muted.Printf("  %s %s\n", r.symbols.Arrow, s)
		}
	}

	if len(resp.Contributors) > 0 {
		names := make([]string, 0, len(resp.Contributors))
		for _, c := range resp.Contributors {
			if registry != nil {
				names = append(names, registry.DisplayName(c))
			} else {
				names = append(names, string(c))
			}
		}
		fmt.Println()
		r.colors.Muted.Printf("With input from %s\n", strings.Join(names, ", "))
	}

	if r.config.ShowMetadata && resp.CollaborationMeta != nil {
		if conf, ok := resp.CollaborationMeta["confidence"].(float64); ok {
			r.colors.Muted.Printf("confidence %.2f\n", conf)
		}
	}
}

func (r *Renderer) renderInsight(bullet string, insight models.Insight) {
	c := r.colors.Secondary
	switch insight.Priority {
	case models.PriorityHigh:
		c = r.colors.Warning
	case models.PriorityLow:
		c = r.colors.Muted
	}
	c.Printf("  %s %s", bullet, insight.Title)
	if insight.Message != "" {
		r.colors.Muted.Printf(": %s", insight.Message)
	}
	fmt.Println()
}

// RenderRecommendations prints the agent roster for a persona
func (r *Renderer) RenderRecommendations(recs []models.Recommendation) {
	if len(recs) == 0 {
		r.colors.Muted.Println("no agents available")
		return
	}
	r.colors.Primary.Println("Your team:")
	for i, rec := range recs {
		bullet := r.symbols.Bullet
		if i == len(recs)-1 {
			bullet = r.symbols.LastBullet
		}
		r.colors.Secondary.Printf("  %s %s", bullet, rec.DisplayName)
		r.colors.Muted.Printf(" (%s) %s %s\n", rec.Tier, r.symbols.Arrow, rec.Reason)
	}
}

// RenderError prints an error message
func (r *Renderer) RenderError(err error) {
	if err == nil {
		return
	}
	r.colors.Warning.Printf("%s %v\n", r.symbols.Warning, err)
}

// RegistryNamer resolves handler ids to display names. Defined here as a
// narrow interface-like adapter so display does not import internal packages.
type RegistryNamer struct {
	Lookup func(models.HandlerID) string
}

// DisplayName resolves an id, falling back to the raw id string.
func (n *RegistryNamer) DisplayName(id models.HandlerID) string {
	if n == nil || n.Lookup == nil {
		return string(id)
	}
	return n.Lookup(id)
}

// wrap breaks text into lines no longer than width, preserving paragraphs
func wrap(text string, width int) string {
	var out strings.Builder
	for i, paragraph := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		lineLen := 0
		for j, word := range strings.Fields(paragraph) {
			if j > 0 {
				if lineLen+1+len(word) > width {
					out.WriteString("\n")
					lineLen = 0
				} else {
					out.WriteString(" ")
					lineLen++
				}
			}
			out.WriteString(word)
			lineLen += len(word)
		}
	}
	return out.String()
}
