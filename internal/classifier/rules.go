// Why this file: ./internal/classifier/rules.go
// This holds the pattern rule tables for query classification: per-category ordered
// (pattern, weight) rules plus context-clue detectors that boost specific categories.
// The defaults below are compiled in; an equivalent YAML file can replace them at runtime.
package classifier

import (
	"regexp"

	"github.com/yourusername/coachflow/models"
)

// Rule contributes its weight to a category's score when its pattern
// matches the lower-cased query text.
type Rule struct {
	Pattern *regexp.Regexp
	Weight  float64
}

// ContextClue detects a contextual signal (urgency, confusion, ...) and adds
// small fixed boosts to specific category scores.
type ContextClue struct {
	Name    string
	Pattern *regexp.Regexp
	Boosts  map[models.QueryCategory]float64
}

// RuleSet is the full classification rule table. Rule order within a
// category is significant only for readability; tie-breaks between
// categories follow models.QueryCategories order.
type RuleSet struct {
	Rules map[models.QueryCategory][]Rule
	Clues []ContextClue
}

func rule(pattern string, weight float64) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Weight: weight}
}

// DefaultRuleSet returns the built-in rule table.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Rules: map[models.QueryCategory][]Rule{
			models.CategoryStrategic: {
				rule(`\b(strategy|strategic|long[- ]term|vision|roadmap|big picture)\b`, 0.9),
				rule(`\b(grow|growth|scale|scaling|expand|expansion)\b`, 0.7),
				rule(`\b(decision|decide|choice)\b|\bshould (i|we)\b`, 0.6),
				rule(`\b(goals?|priorit(y|ies|ize))\b`, 0.5),
			},
			models.CategoryAccountability: {
				rule(`\b(accountab\w*|commitments?|follow[- ]?up|check[- ]?in)\b`, 0.9),
				rule(`\b(progress|on track|milestones?)\b`, 0.7),
				rule(`\b(missed|behind|slipping|procrastinat\w*)\b`, 0.6),
			},
			models.CategoryEmotional: {
				rule(`\b(anxious|worried|stressed|overwhelmed|afraid|scared|frustrated|burn(ed)?[- ]?out)\b`, 0.9),
				rule(`\bi feel\b|\bfeeling\b|\bi'?m (sad|upset|down|exhausted)\b`, 0.8),
				rule(`\b(self[- ]doubt|doubting|imposter)\b`, 0.6),
			},
			models.CategoryRelationship: {
				rule(`\b(thanks?|thank you|appreciate|grateful)\b`, 0.8),
				rule(`\bour (work|sessions?|conversations?)\b|\bworking with you\b`, 0.7),
				rule(`\b(catch up|check in with you|just wanted to talk)\b`, 0.5),
			},
			models.CategoryBrainstorm: {
				rule(`\b(brainstorm\w*|ideas?|creative|come up with|think of)\b`, 0.9),
				rule(`\bwhat if\b|\b(possibilit(y|ies)|options)\b`, 0.7),
				rule(`\b(alternatives?|different (ways|approaches))\b`, 0.6),
			},
			models.CategoryAnalysis: {
				rule(`\b(analy[sz]\w*|compare|comparison|evaluate|assess\w*)\b`, 0.9),
				rule(`\b(numbers|metrics|data|figures|margins?)\b`, 0.7),
				rule(`\bpros and cons\b|\btrade[- ]?offs?\b`, 0.6),
			},
			models.CategoryResearch: {
				rule(`\b(research|investigate|find out|look into|dig into)\b`, 0.9),
				rule(`\b(market|competitors?|industry|trends?|benchmarks?)\b`, 0.7),
				rule(`\bwhat are others\b|\bbest practices\b`, 0.5),
			},
			models.CategoryDocument: {
				rule(`\b(documents?|draft|write up|templates?)\b`, 0.9),
				rule(`\b(proposal|pitch deck|business plan|contract|grant application)\b`, 0.8),
				rule(`\b(letter|memo|one[- ]pager)\b`, 0.6),
			},
			models.CategoryTechnical: {
				rule(`\b(technical|integrat\w*|api|software|platform|website|database)\b`, 0.9),
				rule(`\b(bug|error|broken|not working|crash\w*)\b`, 0.8),
				rule(`\b(set ?up|configure|install)\b`, 0.6),
			},
			models.CategoryReporting: {
				rule(`\b(reports?|status update|summar(y|ize) (of|the))\b`, 0.9),
				rule(`\b(quarterly|monthly|weekly)\b`, 0.7),
				rule(`\b(kpis?|dashboards?)\b`, 0.6),
			},
			// general has no rules: it is the zero-score fallback.
			models.CategoryGeneral: {},
		},
		Clues: []ContextClue{
			{
				Name:    "urgency",
				Pattern: regexp.MustCompile(`\b(urgent\w*|asap|immediately|right away|right now|emergency)\b`),
				Boosts:  map[models.QueryCategory]float64{models.CategoryAccountability: 0.3},
			},
			{
				Name:    "confusion",
				Pattern: regexp.MustCompile(`\b(confused|confusing|unsure|not sure|don'?t understand|unclear)\b`),
				Boosts:  map[models.QueryCategory]float64{models.CategoryEmotional: 0.3},
			},
			{
				Name:    "deadline",
				Pattern: regexp.MustCompile(`\b(deadline|overdue|due (date|by|on|tomorrow))\b|\bby (monday|tuesday|wednesday|thursday|friday|tomorrow|end of)\b`),
				Boosts: map[models.QueryCategory]float64{
					models.CategoryReporting:      0.3,
					models.CategoryAccountability: 0.2,
				},
			},
			{
				Name:    "specificity",
				Pattern: regexp.MustCompile(`\b(exactly|specifically|precise\w*|in detail)\b`),
				Boosts:  map[models.QueryCategory]float64{models.CategoryAnalysis: 0.3},
			},
			{
				Name:    "exploratory",
				Pattern: regexp.MustCompile(`\b(explore|exploring|open[- ]ended|what if|possibilities)\b`),
				Boosts: map[models.QueryCategory]float64{
					models.CategoryStrategic:  0.3,
					models.CategoryBrainstorm: 0.3,
				},
			},
			{
				Name:    "decisiveness",
				Pattern: regexp.MustCompile(`\b(decide|decision|choose|commit|pick one)\b`),
				Boosts:  map[models.QueryCategory]float64{models.CategoryStrategic: 0.3},
			},
			{
				Name:    "satisfaction",
				Pattern: regexp.MustCompile(`\b(happy|satisfied|love|appreciate|thank you|grateful)\b`),
				Boosts:  map[models.QueryCategory]float64{models.CategoryRelationship: 0.3},
			},
		},
	}
}
