package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint requires state[Key] to equal Value (case-insensitive).
type Constraint struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Precondition is a conjunction of equality constraints over the session state.
type Precondition []Constraint

// PreconditionFrom builds a precondition from a map, ordered by key.
func PreconditionFrom(m map[string]string) Precondition {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Precondition, 0, len(keys))
	for _, k := range keys {
		p = append(p, Constraint{Key: k, Value: m[k]})
	}
	return p
}

// Satisfied reports whether every constraint matches the state.
// A constraint on an absent key is not satisfied.
func (p Precondition) Satisfied(s *State) bool {
	for _, c := range p {
		v, ok := s.Value(c.Key)
		if !ok || !equalFold(v, c.Value) {
			return false
		}
	}
	return true
}

// Keys returns the keys referenced by the precondition.
func (p Precondition) Keys() []string {
	keys := make([]string, len(p))
	for i, c := range p {
		keys[i] = c.Key
	}
	return keys
}

func (p Precondition) String() string {
	if len(p) == 0 {
		return "always"
	}
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprintf("%s == %q", c.Key, c.Value)
	}
	return strings.Join(parts, " && ")
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
