// Why this file: ./internal/delegation/complexity.go
// This implements the cheap keyword complexity estimator used by the
// should-delegate decision: three scores in [0,1] from regex families.
package delegation

import (
	"regexp"
	"strings"
)

// ComplexityEstimate scores a task along three axes, each in [0,1].
type ComplexityEstimate struct {
	Technical  float64 `json:"technical"`
	Analytical float64 `json:"analytical"`
	Creative   float64 `json:"creative"`
}

var (
	technicalVocab = []*regexp.Regexp{
		regexp.MustCompile(`\b(api|database|server|integrat\w*|deploy\w*|infrastructure)\b`),
		regexp.MustCompile(`\b(code|software|bug|error|crash\w*|authentication)\b`),
		regexp.MustCompile(`\b(configure|migration|endpoint|webhook)\b`),
	}
	analyticalVocab = []*regexp.Regexp{
		regexp.MustCompile(`\b(analy[sz]\w*|evaluate|assess\w*|compare|model\w*)\b`),
		regexp.MustCompile(`\b(metrics|data|figures|forecast|projection|trends?)\b`),
		regexp.MustCompile(`\b(margins?|valuation|unit economics|cohorts?)\b`),
	}
	creativeVocab = []*regexp.Regexp{
		regexp.MustCompile(`\b(brainstorm\w*|ideas?|creative|imagine|concept)\b`),
		regexp.MustCompile(`\b(design|naming|story|campaign)\b`),
	}
)

// EstimateComplexity scores the task text. A family with no matching
// vocabulary scores 0.2, one match 0.8, two or more 0.9.
func EstimateComplexity(task string) ComplexityEstimate {
	lowered := strings.ToLower(task)
	return ComplexityEstimate{
		Technical:  familyScore(lowered, technicalVocab),
		Analytical: familyScore(lowered, analyticalVocab),
		Creative:   familyScore(lowered, creativeVocab),
	}
}

func familyScore(text string, family []*regexp.Regexp) float64 {
	matches := 0
	for _, re := range family {
		if re.MatchString(text) {
			matches++
		}
	}
	switch {
	case matches >= 2:
		return 0.9
	case matches == 1:
		return 0.8
	default:
		return 0.2
	}
}
