// Why this file: ./internal/classifier/classifier.go
// This implements the query classifier: weighted pattern scoring per category,
// context-clue boosts, and a deterministic tie-break over the declared category order.
// Classification never fails; unmatched text yields the general category at confidence 0.
package classifier

import (
	"strings"
	"sync"

	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// Classifier assigns exactly one QueryCategory to a query string.
type Classifier struct {
	mu    sync.RWMutex
	rules *RuleSet
	log   logger.Logger
}

// New creates a classifier with the built-in rule set.
func New(log logger.Logger) *Classifier {
	return NewWithRules(DefaultRuleSet(), log)
}

// NewWithRules creates a classifier with an injected rule set.
func NewWithRules(rules *RuleSet, log logger.Logger) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{rules: rules, log: log}
}

// SetRules atomically replaces the active rule set.
func (c *Classifier) SetRules(rules *RuleSet) {
	c.mu.Lock()
	c.rules = rules
	c.mu.Unlock()
}

// Classify returns the single category for the text.
func (c *Classifier) Classify(text string) models.QueryCategory {
	return c.Describe(text).Category
}

// Describe returns the category plus confidence and context flags.
//
// Scoring: each matching rule contributes its weight to its category, then
// context clues add fixed boosts. The winner is the first category in
// models.QueryCategories order reaching the maximum total; a zero maximum
// yields general. Confidence is min(matchedRules/2, 1) counting base rule
// matches for the winning category only.
func (c *Classifier) Describe(text string) models.Classification {
	c.mu.RLock()
	rules := c.rules
	c.mu.RUnlock()

	lowered := strings.ToLower(text)

	scores := make(map[models.QueryCategory]float64, len(models.QueryCategories))
	matches := make(map[models.QueryCategory]int, len(models.QueryCategories))
	for _, cat := range models.QueryCategories {
		for _, r := range rules.Rules[cat] {
			if r.Pattern.MatchString(lowered) {
				scores[cat] += r.Weight
				matches[cat]++
			}
		}
	}

	flags := map[string]bool{}
	for _, clue := range rules.Clues {
		if !clue.Pattern.MatchString(lowered) {
			continue
		}
		flags[clue.Name] = true
		for cat, boost := range clue.Boosts {
			scores[cat] += boost
		}
	}

	winner := models.CategoryGeneral
	best := 0.0
	for _, cat := range models.QueryCategories {
		if scores[cat] > best {
			best = scores[cat]
			winner = cat
		}
	}

	if best == 0 {
		return models.Classification{
			Category:     models.CategoryGeneral,
			Confidence:   0,
			ContextFlags: flags,
		}
	}

	confidence := float64(matches[winner]) / 2
	if confidence > 1 {
		confidence = 1
	}

	c.log.Debug("query classified",
		"category", winner,
		"score", best,
		"confidence", confidence)

	return models.Classification{
		Category:     winner,
		Confidence:   confidence,
		ContextFlags: flags,
	}
}
