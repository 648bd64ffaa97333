// Package slots fills session slots from user utterances with ordered
// regular-expression rules. This is deliberately shallow pattern matching,
// not language understanding: per slot the first matching pattern wins for
// the current turn, and a later turn that matches overwrites the old value.
package slots

import (
	"regexp"
	"strings"

	"github.com/hmunir/eduguide/memory"
)

// Rule binds one slot to an ordered list of patterns. The value captured is
// the last capture group of the matching pattern.
type Rule struct {
	Slot     string
	Patterns []*regexp.Regexp
}

// maxValueWords rejects runaway captures from the open-ended character classes.
const maxValueWords = 6

// DefaultRules returns the built-in extraction rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Slot: memory.SlotName,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bmy name is\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
				regexp.MustCompile(`(?i)\bi am\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
			},
		},
		{
			Slot: memory.SlotDestination,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(study|want to study|plan to study)\s+(?:in|at)\s+([A-Za-z\s]+)`),
				regexp.MustCompile(`(?i)\bdestination\s*:\s*([A-Za-z\s]+)`),
			},
		},
		{
			Slot: memory.SlotCourse,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(interested in|want to study|course is)\s+([A-Za-z\s]+)`),
				regexp.MustCompile(`(?i)\bmajor\s*:\s*([A-Za-z\s]+)`),
			},
		},
	}
}

// Extractor applies a rule table to utterances.
type Extractor struct {
	rules []Rule
}

func New(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Extract applies the rules to text and writes captured values into slotSet.
// It returns the names of slots written this call. Non-matching input leaves
// slotSet unchanged; there are no error conditions.
func (e *Extractor) Extract(text string, slotSet map[string]string) []string {
	var captured []string
	for _, rule := range e.rules {
		for _, pat := range rule.Patterns {
			m := pat.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			value := strings.Trim(m[len(m)-1], " .!?")
			if value != "" && len(strings.Fields(value)) <= maxValueWords {
				slotSet[rule.Slot] = value
				captured = append(captured, rule.Slot)
			}
			// First matching pattern settles this slot for the turn,
			// even when the capture was rejected.
			break
		}
	}
	return captured
}
