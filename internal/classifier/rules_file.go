// Why this file: ./internal/classifier/rules_file.go
// This loads classifier rule tables from YAML and optionally hot-reloads them
// when the file changes, so alternative rule sets are testable without code changes.
package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/coachflow/models"
)

type ruleFile struct {
	Categories map[string][]struct {
		Pattern string  `yaml:"pattern"`
		Weight  float64 `yaml:"weight"`
	} `yaml:"categories"`
	Clues []struct {
		Name    string             `yaml:"name"`
		Pattern string             `yaml:"pattern"`
		Boosts  map[string]float64 `yaml:"boosts"`
	} `yaml:"clues"`
}

func knownCategory(name string) (models.QueryCategory, bool) {
	cat := models.QueryCategory(name)
	for _, known := range models.QueryCategories {
		if cat == known {
			return cat, true
		}
	}
	return "", false
}

// ParseRules compiles a YAML rule document into a RuleSet.
func ParseRules(data []byte) (*RuleSet, error) {
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rs := &RuleSet{Rules: make(map[models.QueryCategory][]Rule, len(doc.Categories))}

	for name, rules := range doc.Categories {
		cat, ok := knownCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q in rules file", name)
		}
		// A declared category with no rules still registers, so zero-score
		// fallbacks like general can be listed explicitly.
		rs.Rules[cat] = []Rule{}
		for _, r := range rules {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern for %s: %w", name, err)
			}
			rs.Rules[cat] = append(rs.Rules[cat], Rule{Pattern: re, Weight: r.Weight})
		}
	}

	for _, c := range doc.Clues {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for clue %s: %w", c.Name, err)
		}
		clue := ContextClue{Name: c.Name, Pattern: re, Boosts: map[models.QueryCategory]float64{}}
		for name, boost := range c.Boosts {
			cat, ok := knownCategory(name)
			if !ok {
				return nil, fmt.Errorf("unknown category %q in clue %s", name, c.Name)
			}
			clue.Boosts[cat] = boost
		}
		rs.Clues = append(rs.Clues, clue)
	}

	return rs, nil
}

// LoadRulesFile reads and installs a rule set from disk.
func (c *Classifier) LoadRulesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rules file: %w", err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return err
	}
	c.SetRules(rs)
	c.log.Info("classifier rules loaded", "path", path)
	return nil
}

// Watch reloads the rules file on change until stop is closed. A reload
// that fails to parse keeps the previous rule set active.
func (c *Classifier) Watch(path string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: editors replace files, which drops file-level watches.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch rules dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := c.LoadRulesFile(path); err != nil {
					c.log.Warn("rules reload failed, keeping previous rules", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Warn("rules watcher error", "error", err)
			}
		}
	}()

	return nil
}
