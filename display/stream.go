// Why this file: ./display/stream.go
// This renders a streaming response chunk by chunk: the routing header first,
// content fragments as they arrive, then the final summary with any support
// work still running in the background.
package display

import (
	"fmt"

	"github.com/yourusername/coachflow/models"
)

// RenderStream consumes a stream of chunks and renders them as they arrive.
// Returns the ids of delegations still pending when the stream finished, so
// the host can poll for their completion.
func (r *Renderer) RenderStream(chunks <-chan models.StreamChunk, registry *RegistryNamer) []string {
	var pending []string
	sawContent := false

	for chunk := range chunks {
		switch chunk.Type {
		case models.ChunkRouting:
			r.RenderRouting(chunk.Routing, registry)
			fmt.Println()

		case models.ChunkContent:
			fmt.Print(chunk.Content)
			sawContent = true

		case models.ChunkStatus:
			r.colors.Muted.Printf("\n%s %s\n", r.symbols.Info, chunk.Content)

		case models.ChunkFinal:
			if sawContent {
				fmt.Println()
			}
			pending = append(pending, r.renderFinal(chunk, registry)...)
		}
	}
	return pending
}

func (r *Renderer) renderFinal(chunk models.StreamChunk, registry *RegistryNamer) []string {
	if chunk.Err != "" {
		r.colors.Warning.Printf("\n%s %s\n", r.symbols.Warning, chunk.Err)
		return nil
	}

	if len(chunk.Insights) > 0 {
		fmt.Println()
		r.colors.Info.Printf("%s Insights\n", r.symbols.Info)
		for i, insight := range chunk.Insights {
			bullet := r.symbols.Bullet
			if i == len(chunk.Insights)-1 {
				bullet = r.symbols.LastBullet
			}
			r.renderInsight(bullet, insight)
		}
	}

	if len(chunk.Suggestions) > 0 && !r.config.CompactMode {
		fmt.Println()
		r.colors.Muted.Println("You could also ask:")
		for _, s := range chunk.Suggestions {
			r.colors.Muted.Printf("  %s %s\n", r.symbols.Arrow, s)
		}
	}

	var pending []string
	for _, support := range chunk.Support {
		name := string(support.Handler)
		if registry != nil {
			name = registry.DisplayName(support.Handler)
		}
		r.colors.Muted.Printf("%s %s is still working (%s)\n", r.symbols.Support, name, support.Status)
		if support.DelegationID != "" {
			pending = append(pending, support.DelegationID)
		}
	}
	return pending
}
