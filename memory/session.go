package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Slot keys recognised by the assistant. The set is fixed; values are only
// ever overwritten, never removed individually.
const (
	SlotName        = "name"
	SlotDestination = "destination"
	SlotCourse      = "course"
)

// SlotOrder fixes the extraction and rendering order for slots.
var SlotOrder = []string{SlotName, SlotDestination, SlotCourse}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one persisted transcript entry.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// State is the full session state. It is passed explicitly through turn
// handling; there is no package-level session.
type State struct {
	Slots      map[string]string `json:"slots"`
	Transcript []Turn            `json:"transcript"`
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{Slots: make(map[string]string)}
}

// AppendTurn records one transcript entry.
func (s *State) AppendTurn(role, text string) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Text: text})
}

// Clear empties slots and transcript in place.
func (s *State) Clear() {
	s.Slots = make(map[string]string)
	s.Transcript = nil
}

// Store persists session state to a single JSON file.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the session file. It fails soft: the returned state is always
// usable, and a non-nil error only explains why a fresh session was started.
// A simply absent file is not an error.
func (st *Store) Load() (*State, error) {
	b, err := os.ReadFile(st.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewState(), nil
		}
		return NewState(), err
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return NewState(), fmt.Errorf("parse %s: %w", st.Path, err)
	}
	if s.Slots == nil {
		s.Slots = make(map[string]string)
	}
	return &s, nil
}

// Save overwrites the session file through a temp file in the same directory
// followed by a rename, which is atomic enough for the single owning process.
func (st *Store) Save(s *State) error {
	b, err := json.MarshalIndent(s, "", " ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(st.Path)
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), st.Path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Reset clears the state and persists the empty session immediately.
func (st *Store) Reset(s *State) error {
	s.Clear()
	return st.Save(s)
}
