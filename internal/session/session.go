package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hmunir/eduguide/internal/slots"
	"github.com/hmunir/eduguide/internal/telemetry"
	"github.com/hmunir/eduguide/internal/windowing"
	"github.com/hmunir/eduguide/memory"
)

// BasePrompt is the assistant persona. Slot context is appended per turn.
const BasePrompt = "You are EduGuide, a helpful academic assistant. " +
	"You should only answer questions related to education: universities, " +
	"scholarships, study abroad, courses, exams, and student life. " +
	"If asked about something else, politely say that you only answer education-related questions.\n\n" +
	"Consider any context provided (name, destination, course) when shaping your replies."

// ApologyReply is returned when the completion service fails. No retries.
const ApologyReply = "Sorry, I'm having trouble reaching the assistant service right now. Please try again in a moment."

const maxReplyTokens = 1024

// slotLabels renders slot context lines in the system prompt.
var slotLabels = map[string]string{
	memory.SlotName:        "User's name",
	memory.SlotDestination: "Preferred study destination",
	memory.SlotCourse:      "Interested course/degree",
}

// Controller runs turns for one session.
type Controller struct {
	Client  *anthropic.Client
	Store   *memory.Store
	Extract *slots.Extractor
	Model   anthropic.Model
	Budget  int // estimated-rune budget for the transcript window
}

func New(client *anthropic.Client, store *memory.Store, extract *slots.Extractor, model anthropic.Model, budget int) *Controller {
	return &Controller{Client: client, Store: store, Extract: extract, Model: model, Budget: budget}
}

// SystemPrompt builds the per-turn system instructions from the slot set.
func SystemPrompt(s *memory.State) string {
	var lines []string
	for _, key := range memory.SlotOrder {
		if v := s.Slots[key]; v != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", slotLabels[key], v))
		}
	}
	if len(lines) == 0 {
		return BasePrompt
	}
	return BasePrompt + "\n\nContext:\n" + strings.Join(lines, "\n")
}

// HandleTurn runs one exchange: record the user turn, update slots, call the
// completion service over the windowed transcript, record the reply, persist.
// It always returns a displayable reply; service failure yields the apology.
func (c *Controller) HandleTurn(ctx context.Context, state *memory.State, userText string) string {
	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = fmt.Sprintf("turn-%d", time.Now().UnixNano())
		ctx = telemetry.WithTurnID(ctx, turnID)
	}

	state.AppendTurn(memory.RoleUser, userText)

	if captured := c.Extract.Extract(userText, state.Slots); len(captured) > 0 {
		telemetry.Emit("slot_capture", map[string]any{
			"turn_id": turnID,
			"slots":   captured,
		})
	}
	telemetry.EmitLocalFeatures(ctx, userText)

	system := SystemPrompt(state)
	window, stats := windowing.PrepareSendWindow(state.Transcript, c.Budget, windowing.HeuristicCounter{})

	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"model":              string(c.Model),
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})
	telemetry.PersistPrompt(turnID, renderPrompt(system, window))

	params := anthropic.MessageNewParams{
		Model:     c.Model,
		MaxTokens: int64(maxReplyTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  toMessageParams(window),
	}

	reply, callErr := c.complete(ctx, params)
	if callErr != nil {
		reply = ApologyReply
	}

	state.AppendTurn(memory.RoleAssistant, reply)

	if err := c.Store.Save(state); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save session: %v\n", err)
		telemetry.Emit("save_failed", map[string]any{
			"turn_id": turnID,
			"error":   err.Error(),
		})
	}

	fields := map[string]any{
		"turn_id":     turnID,
		"reply_runes": len([]rune(reply)),
	}
	if callErr != nil {
		fields["error"] = callErr.Error()
	} else {
		fields["error"] = nil
	}
	telemetry.Emit("turn_complete", fields)

	return reply
}

// complete performs the blocking service call and flattens the text blocks.
func (c *Controller) complete(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	msg, err := c.Client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	reply := strings.TrimSpace(strings.Join(parts, "\n"))
	if reply == "" {
		return "", fmt.Errorf("completion returned no text content")
	}
	return reply, nil
}

func toMessageParams(window []memory.Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(window))
	for _, t := range window {
		if t.Role == memory.RoleUser {
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		} else {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
		}
	}
	return out
}

// renderPrompt flattens the built prompt for the optional per-turn dump.
func renderPrompt(system string, window []memory.Turn) string {
	var b strings.Builder
	b.WriteString("system: ")
	b.WriteString(system)
	b.WriteString("\n")
	for _, t := range window {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Text)
	}
	return b.String()
}
