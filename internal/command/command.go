// Package command intercepts the reserved session keywords before normal
// turn handling: reset, summary, exit.
package command

import (
	"fmt"
	"strings"

	"github.com/hmunir/eduguide/memory"
)

// Kind classifies one input line.
type Kind int

const (
	// None means the line is a normal utterance for the assistant.
	None Kind = iota
	Reset
	Summary
	Exit
)

// Parse recognises the reserved keywords case-insensitively. Surrounding
// whitespace is ignored; anything else is a normal turn.
func Parse(line string) Kind {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "reset":
		return Reset
	case "summary":
		return Summary
	case "exit":
		return Exit
	default:
		return None
	}
}

// slotLabels maps slot keys to their summary headings.
var slotLabels = map[string]string{
	memory.SlotName:        "Name",
	memory.SlotDestination: "Destination",
	memory.SlotCourse:      "Course",
}

// RenderSummary renders the current slot set as human-readable text.
// It only reads the state.
func RenderSummary(s *memory.State) string {
	var b strings.Builder
	b.WriteString("--- Session summary ---\n")
	for _, key := range memory.SlotOrder {
		value, ok := s.Slots[key]
		if !ok || value == "" {
			value = "(not captured)"
		}
		fmt.Fprintf(&b, "%-12s %s\n", slotLabels[key]+":", value)
	}
	fmt.Fprintf(&b, "Turns recorded: %d\n", len(s.Transcript))
	b.WriteString("-----------------------")
	return b.String()
}
