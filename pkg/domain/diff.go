package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for audit hooks and debug logs.
type StateDiff struct {
	SessionID string `json:"session_id"`

	// Answers contains only added or modified answers.
	Answers map[string]string `json:"answers,omitempty"`

	// Derived contains only added or modified derived fields.
	Derived map[string]string `json:"derived,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState.
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}
	if oldState == nil {
		diff.Answers = diffMap(nil, newState.Answers)
		diff.Derived = diffMap(nil, newState.Derived)
	} else {
		diff.Answers = diffMap(oldState.Answers, newState.Answers)
		diff.Derived = diffMap(oldState.Derived, newState.Derived)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// Flatten merges answer and derived changes into a single map.
func (d *StateDiff) Flatten() map[string]string {
	if d == nil {
		return nil
	}
	out := make(map[string]string, len(d.Answers)+len(d.Derived))
	for k, v := range d.Answers {
		out[k] = v
	}
	for k, v := range d.Derived {
		out[k] = v
	}
	return out
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return len(d.Answers) == 0 && len(d.Derived) == 0
}

func diffMap(old, new map[string]string) map[string]string {
	delta := make(map[string]string)
	for k, v := range new {
		if prev, ok := old[k]; !ok || prev != v {
			delta[k] = v
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}
