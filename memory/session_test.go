package memory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hmunir/eduguide/memory"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := memory.NewStore(filepath.Join(dir, "session.json"))

	in := memory.NewState()
	in.Slots[memory.SlotName] = "Ayesha"
	in.Slots[memory.SlotDestination] = "Canada"
	in.AppendTurn(memory.RoleUser, "hi")
	in.AppendTurn(memory.RoleAssistant, "hello")

	if err := st.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out.Slots) != len(in.Slots) {
		t.Fatalf("slots mismatch: got %v want %v", out.Slots, in.Slots)
	}
	for k, v := range in.Slots {
		if out.Slots[k] != v {
			t.Fatalf("slot %q: got %q want %q", k, out.Slots[k], v)
		}
	}
	if len(out.Transcript) != len(in.Transcript) {
		t.Fatalf("transcript length: got %d want %d", len(out.Transcript), len(in.Transcript))
	}
	for i := range in.Transcript {
		if out.Transcript[i] != in.Transcript[i] {
			t.Fatalf("turn %d: got %+v want %+v", i, out.Transcript[i], in.Transcript[i])
		}
	}
}

func TestStore_LoadMissing_ReturnsEmptyNoError(t *testing.T) {
	dir := t.TempDir()
	st := memory.NewStore(filepath.Join(dir, "does-not-exist.json"))

	s, err := st.Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s == nil || len(s.Slots) != 0 || len(s.Transcript) != 0 {
		t.Fatalf("expected empty state, got %+v", s)
	}
}

func TestStore_LoadCorrupt_ReturnsEmptyWithError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(p, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("prep: %v", err)
	}

	s, err := memory.NewStore(p).Load()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	// Fail-soft contract: the state is still usable.
	if s == nil || s.Slots == nil || len(s.Transcript) != 0 {
		t.Fatalf("expected usable empty state, got %+v", s)
	}
}

func TestStore_Reset_ClearsAndPersists(t *testing.T) {
	dir := t.TempDir()
	st := memory.NewStore(filepath.Join(dir, "session.json"))

	s := memory.NewState()
	s.Slots[memory.SlotCourse] = "Computer Science"
	s.AppendTurn(memory.RoleUser, "hello")
	if err := st.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := st.Reset(s); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(s.Slots) != 0 || len(s.Transcript) != 0 {
		t.Fatalf("state not cleared: %+v", s)
	}

	// The empty session must also be what a fresh process sees.
	reloaded, err := st.Load()
	if err != nil {
		t.Fatalf("load after reset: %v", err)
	}
	if len(reloaded.Slots) != 0 || len(reloaded.Transcript) != 0 {
		t.Fatalf("persisted state not cleared: %+v", reloaded)
	}
}

func TestStore_RestartReproducesSlots(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "session.json")

	s := memory.NewState()
	s.Slots[memory.SlotName] = "Ravi"
	s.Slots[memory.SlotDestination] = "Germany"
	if err := memory.NewStore(p).Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A second store over the same path stands in for a fresh process.
	again, err := memory.NewStore(p).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if again.Slots[memory.SlotName] != "Ravi" || again.Slots[memory.SlotDestination] != "Germany" {
		t.Fatalf("slots not reproduced: %v", again.Slots)
	}
}
