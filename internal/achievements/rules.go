package achievements

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/stats"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule unlocks an achievement once Metric reaches Threshold.
type Rule struct {
	ID          string                     `yaml:"id"`
	Title       string                     `yaml:"title"`
	Description string                     `yaml:"description"`
	Icon        string                     `yaml:"icon"`
	Category    models.AchievementCategory `yaml:"category"`
	Points      int                        `yaml:"points"`
	Metric      stats.Metric               `yaml:"metric"`
	Threshold   int                        `yaml:"threshold"`
}

// Satisfied reports whether s meets the rule. It is a pure function of s.
func (r Rule) Satisfied(s stats.Stats) bool {
	v, err := s.Value(r.Metric)
	return err == nil && v >= r.Threshold
}

// Progress returns how close s is to the rule as a 0-100 percentage.
func (r Rule) Progress(s stats.Stats) int {
	v, err := s.Value(r.Metric)
	if err != nil {
		return 0
	}
	if r.Threshold <= 0 || v >= r.Threshold {
		return 100
	}
	if v <= 0 {
		return 0
	}
	return int(float64(v)/float64(r.Threshold)*100 + 0.5)
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseRules decodes and validates a YAML rule table. Order is preserved.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := ValidateRules(f.Rules); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

// LoadRules reads a rule table from path.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in achievement rules are invalid: %v", err))
	}
	return rules
}

// ValidateRules checks ids are present and unique and that every rule names a
// known metric and category.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("rule table is empty")
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		switch {
		case r.ID == "":
			return fmt.Errorf("rule %d: missing id", i)
		case seen[r.ID]:
			return fmt.Errorf("rule %s: duplicate id", r.ID)
		case r.Title == "":
			return fmt.Errorf("rule %s: missing title", r.ID)
		case !r.Metric.Valid():
			return fmt.Errorf("rule %s: unknown metric %q", r.ID, r.Metric)
		case !r.Category.Valid():
			return fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
		case r.Threshold < 0:
			return fmt.Errorf("rule %s: threshold must not be negative", r.ID)
		case r.Points < 0:
			return fmt.Errorf("rule %s: points must not be negative", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
