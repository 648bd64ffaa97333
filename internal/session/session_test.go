package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hmunir/eduguide/internal/provider"
	"github.com/hmunir/eduguide/internal/session"
	"github.com/hmunir/eduguide/internal/slots"
	"github.com/hmunir/eduguide/memory"
)

type capture struct {
	method string
	url    string
	body   []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if f.captured != nil {
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func newClientWithTransport(rt http.RoundTripper) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return &c
}

type reqBody struct {
	System []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func textReply(text string) []byte {
	return []byte(`{"role":"assistant","content":[{"type":"text","text":` + mustJSON(text) + `}]}`)
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newController(t *testing.T, rt http.RoundTripper, budget int) (*session.Controller, *memory.Store) {
	t.Helper()
	store := memory.NewStore(filepath.Join(t.TempDir(), "session.json"))
	ctrl := session.New(newClientWithTransport(rt), store, slots.New(slots.DefaultRules()), provider.DefaultModel, budget)
	return ctrl, store
}

func TestHandleTurn_RecordsBothTurnsAndPersists(t *testing.T) {
	fake := &fakeTransport{respStatus: 200, respBody: textReply("Hello Ayesha!"), captured: &capture{}}
	ctrl, store := newController(t, fake, 12000)

	state := memory.NewState()
	reply := ctrl.HandleTurn(context.Background(), state, "my name is Ayesha")

	if reply != "Hello Ayesha!" {
		t.Fatalf("reply: %q", reply)
	}
	if len(state.Transcript) != 2 {
		t.Fatalf("transcript length: %d", len(state.Transcript))
	}
	if state.Transcript[0].Role != memory.RoleUser || state.Transcript[1].Role != memory.RoleAssistant {
		t.Fatalf("unexpected roles: %+v", state.Transcript)
	}

	// The turn must already be on disk.
	persisted, err := store.Load()
	if err != nil {
		t.Fatalf("load persisted: %v", err)
	}
	if len(persisted.Transcript) != 2 || persisted.Slots[memory.SlotName] != "Ayesha" {
		t.Fatalf("persisted state: %+v", persisted)
	}
}

func TestHandleTurn_SendsSlotContextInSystemPrompt(t *testing.T) {
	capReq := &capture{}
	fake := &fakeTransport{respStatus: 200, respBody: textReply("ok"), captured: capReq}
	ctrl, _ := newController(t, fake, 12000)

	state := memory.NewState()
	state.Slots[memory.SlotDestination] = "Canada"
	ctrl.HandleTurn(context.Background(), state, "my name is Ayesha")

	var rb reqBody
	if err := json.Unmarshal(capReq.body, &rb); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, string(capReq.body))
	}
	if len(rb.System) != 1 {
		t.Fatalf("expected one system block, got %d", len(rb.System))
	}
	sys := rb.System[0].Text
	if !strings.Contains(sys, "EduGuide") {
		t.Fatalf("system prompt missing persona: %q", sys)
	}
	// The slot captured this very turn must already be in context.
	if !strings.Contains(sys, "User's name: Ayesha") {
		t.Fatalf("system prompt missing fresh slot: %q", sys)
	}
	if !strings.Contains(sys, "Preferred study destination: Canada") {
		t.Fatalf("system prompt missing prior slot: %q", sys)
	}
}

func TestHandleTurn_SendsOnlyPreparedWindow(t *testing.T) {
	capReq := &capture{}
	fake := &fakeTransport{respStatus: 200, respBody: textReply("ok"), captured: capReq}
	// Small budget: only the newest group fits.
	ctrl, _ := newController(t, fake, 30)

	state := memory.NewState()
	state.AppendTurn(memory.RoleUser, "an old question about scholarships in general")
	state.AppendTurn(memory.RoleAssistant, "an old and fairly long answer about scholarships")
	ctrl.HandleTurn(context.Background(), state, "thanks")

	var rb reqBody
	if err := json.Unmarshal(capReq.body, &rb); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, string(capReq.body))
	}
	if len(rb.Messages) != 1 {
		t.Fatalf("expected only the newest turn, got %d messages", len(rb.Messages))
	}
	if rb.Messages[0].Role != "user" || rb.Messages[0].Content[0].Text != "thanks" {
		t.Fatalf("unexpected window payload: %+v", rb.Messages[0])
	}
}

func TestHandleTurn_ServiceFailureKeepsUserTurn(t *testing.T) {
	fake := &fakeTransport{respStatus: 500, respBody: []byte(`{"error":{"type":"api_error","message":"boom"}}`)}
	ctrl, store := newController(t, fake, 12000)

	state := memory.NewState()
	reply := ctrl.HandleTurn(context.Background(), state, "what about exams?")

	if reply != session.ApologyReply {
		t.Fatalf("expected apology reply, got %q", reply)
	}
	if len(state.Transcript) != 2 {
		t.Fatalf("transcript length: %d", len(state.Transcript))
	}
	if state.Transcript[0] != (memory.Turn{Role: memory.RoleUser, Text: "what about exams?"}) {
		t.Fatalf("user turn lost: %+v", state.Transcript[0])
	}
	if state.Transcript[1].Text != session.ApologyReply {
		t.Fatalf("apology not recorded: %+v", state.Transcript[1])
	}

	// Failure must not corrupt what is on disk either.
	persisted, err := store.Load()
	if err != nil {
		t.Fatalf("load persisted: %v", err)
	}
	if len(persisted.Transcript) != 2 || persisted.Transcript[0].Text != "what about exams?" {
		t.Fatalf("persisted transcript: %+v", persisted.Transcript)
	}
}

func TestHandleTurn_EmptyCompletionTreatedAsFailure(t *testing.T) {
	fake := &fakeTransport{respStatus: 200, respBody: []byte(`{"role":"assistant","content":[]}`)}
	ctrl, _ := newController(t, fake, 12000)

	state := memory.NewState()
	reply := ctrl.HandleTurn(context.Background(), state, "hello")
	if reply != session.ApologyReply {
		t.Fatalf("expected apology for empty completion, got %q", reply)
	}
}

func TestSystemPrompt_NoSlots(t *testing.T) {
	s := memory.NewState()
	if got := session.SystemPrompt(s); got != session.BasePrompt {
		t.Fatalf("expected bare base prompt, got %q", got)
	}
}

func TestSystemPrompt_SlotOrderStable(t *testing.T) {
	s := memory.NewState()
	s.Slots[memory.SlotCourse] = "Physics"
	s.Slots[memory.SlotName] = "Ravi"
	got := session.SystemPrompt(s)
	name := strings.Index(got, "User's name")
	course := strings.Index(got, "Interested course/degree")
	if name == -1 || course == -1 || name > course {
		t.Fatalf("context lines missing or out of order:\n%s", got)
	}
}
