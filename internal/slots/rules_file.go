package slots

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/hmunir/eduguide/memory"
)

// rulesFile is the on-disk shape of a rule override document:
//
//	rules:
//	  - slot: name
//	    patterns:
//	      - '\bcall me\s+([A-Za-z]+)'
type rulesFile struct {
	Rules []struct {
		Slot     string   `yaml:"slot"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"rules"`
}

// LoadRules reads a YAML rule file and compiles it into a rule table that
// replaces the built-in rules. Patterns are compiled case-insensitively.
// Unknown slot names and invalid patterns are startup errors; extraction
// itself never fails.
func LoadRules(path string) ([]Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf rulesFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("%s: no rules defined", path)
	}

	known := make(map[string]bool, len(memory.SlotOrder))
	for _, s := range memory.SlotOrder {
		known[s] = true
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for _, r := range rf.Rules {
		if !known[r.Slot] {
			return nil, fmt.Errorf("%s: unknown slot %q", path, r.Slot)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("%s: slot %q has no patterns", path, r.Slot)
		}
		compiled := make([]*regexp.Regexp, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("%s: slot %q pattern %q: %w", path, r.Slot, p, err)
			}
			compiled = append(compiled, re)
		}
		rules = append(rules, Rule{Slot: r.Slot, Patterns: compiled})
	}
	return rules, nil
}
