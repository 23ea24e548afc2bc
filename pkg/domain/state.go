package domain

import (
	"strings"
	"time"
)

// Derived field names.
const (
	FieldGoal     = "goal"
	FieldCategory = "applicant_category"
)

// shownFlag prefixes the flag set once an informational question has been presented.
const shownFlag = "shown:"

// Goal is the top-level degree the applicant is aiming for.
type Goal string

const (
	GoalBachelor Goal = "bachelor"
	GoalMaster   Goal = "master"
)

// Category is the derived applicant classification that selects the evaluation path.
type Category string

const (
	CategoryUnknown        Category = ""
	CategoryBachelor       Category = "bachelor"
	CategoryMasterInternal Category = "master_internal"
	CategoryMasterExternal Category = "master_external"
)

// State represents the current snapshot of an interview session.
type State struct {
	SessionID string `json:"session_id"`

	// Answers maps question keys to the raw (or canonical choice) answer.
	Answers map[string]string `json:"answers"`

	// Derived holds fields computed from category-defining answers (goal, applicant_category).
	Derived map[string]string `json:"derived,omitempty"`

	// Flags holds transient markers that are not answers, such as
	// informational notices already shown.
	Flags map[string]bool `json:"flags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state for a session.
func NewState(sessionID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID: sessionID,
		Answers:   make(map[string]string),
		Derived:   make(map[string]string),
		Flags:     make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = copyMap(s.Answers)
	c.Derived = copyMap(s.Derived)
	c.Flags = make(map[string]bool, len(s.Flags))
	for k, v := range s.Flags {
		c.Flags[k] = v
	}
	return &c
}

// Has reports whether a question key has been answered (or shown, for informational questions).
func (s *State) Has(key string) bool {
	if _, ok := s.Answers[key]; ok {
		return true
	}
	return s.Shown(key)
}

// Shown reports whether the informational question key has been presented.
func (s *State) Shown(key string) bool {
	return s.Flags[shownFlag+key]
}

// MarkShown flags the informational question key as presented.
func (s *State) MarkShown(key string) {
	if s.Flags == nil {
		s.Flags = make(map[string]bool)
	}
	s.Flags[shownFlag+key] = true
}

// Value resolves a key against answers first, then derived fields.
func (s *State) Value(key string) (string, bool) {
	if v, ok := s.Answers[key]; ok {
		return v, true
	}
	if v, ok := s.Derived[key]; ok {
		return v, true
	}
	return "", false
}

// Answer returns the trimmed answer for key, or "" when absent.
func (s *State) Answer(key string) string {
	return strings.TrimSpace(s.Answers[key])
}

// Goal returns the derived goal.
func (s *State) Goal() Goal {
	return Goal(s.Derived[FieldGoal])
}

// Category returns the derived applicant category.
func (s *State) Category() Category {
	return Category(s.Derived[FieldCategory])
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
