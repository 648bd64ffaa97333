// Package windowing prepares the transcript slice sent to the completion
// service: the newest suffix whose whole groups fit a rune budget.
//
// Invariant:
//   - a user turn and its adjacent assistant reply form one group and are
//     included or skipped together, so the model never sees a question
//     without the answer it was given.
package windowing

import (
	"unicode/utf8"

	"github.com/hmunir/eduguide/memory"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of turns [Start, End) in the transcript.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into turns
	End   int // exclusive index into turns
}

// Stats summarizes the result of window preparation.
type Stats struct {
	Total            int // estimated cost of included groups only
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool // the newest group alone exceeds Budget (it is sent anyway)
}

// GroupTurns groups the transcript into atomic units: a user turn directly
// followed by an assistant turn is a pair; anything else is a singleton.
func GroupTurns(turns []memory.Turn) []Group {
	groups := make([]Group, 0, len(turns))
	for i := 0; i < len(turns); {
		if turns[i].Role == memory.RoleUser && i+1 < len(turns) && turns[i+1].Role == memory.RoleAssistant {
			groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
			i += 2
			continue
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// Counter estimates the prompt cost of turns or groups.
type Counter interface {
	CountTurn(t memory.Turn) int
	CountGroup(g Group, all []memory.Turn) int
}

// PrepareSendWindow returns a suffix of turns (oldest→newest) whose groups
// fit within budget, plus stats about what was included.
//
// Rules:
//   - Scan groups newest→oldest, including whole groups while total ≤ budget.
//   - The newest group is always included, even over budget; the current
//     question must never be dropped. Stats records the overrun.
//   - budget ≤ 0 degrades to the newest group only.
func PrepareSendWindow(turns []memory.Turn, budget int, c Counter) ([]memory.Turn, Stats) {
	if len(turns) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupTurns(turns)

	newest := groups[len(groups)-1]
	newestCost := c.CountGroup(newest, turns)

	total := newestCost
	included := 1
	startIdx := len(groups) - 1
	over := newestCost > budget

	if !over {
		for gi := len(groups) - 2; gi >= 0; gi-- {
			cost := c.CountGroup(groups[gi], turns)
			if total+cost > budget {
				break
			}
			total += cost
			included++
			startIdx = gi
		}
	}

	window := turns[groups[startIdx].Start:]
	stats := Stats{
		Total:            total,
		Budget:           budget,
		IncludedGroups:   included,
		SkippedGroups:    len(groups) - included,
		OverBudgetNewest: over,
	}
	return window, stats
}

// HeuristicCounter is the default deterministic estimator: rune count of the
// turn text plus a fixed per-turn overhead for role framing.
type HeuristicCounter struct{}

const turnOverhead = 4

func (HeuristicCounter) CountTurn(t memory.Turn) int {
	return utf8.RuneCountInString(t.Text) + turnOverhead
}

func (h HeuristicCounter) CountGroup(g Group, all []memory.Turn) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountTurn(all[i])
	}
	return total
}
