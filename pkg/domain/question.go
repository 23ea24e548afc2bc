package domain

// QuestionKind defines how a question is presented and answered.
type QuestionKind string

const (
	// KindStatic is a regular question with an optional fixed choice set.
	KindStatic QuestionKind = "static"
	// KindInfo is a purely informational notice. No answer is expected;
	// it is marked as shown when presented.
	KindInfo QuestionKind = "info"
	// KindComputed is a question whose choices are resolved from the rule
	// table at the time it is offered.
	KindComputed QuestionKind = "computed"
)

// EmptyPolicy decides what happens when a computed question resolves to no options.
type EmptyPolicy string

const (
	// EmptyFreeText offers the question without a choice set.
	EmptyFreeText EmptyPolicy = "free_text"
	// EmptySkip does not offer the question at all.
	EmptySkip EmptyPolicy = "skip"
)

// Question is an immutable catalog entry defined at startup.
type Question struct {
	Key    string       `json:"key" yaml:"key"`
	Kind   QuestionKind `json:"kind" yaml:"kind"`
	Prompt string       `json:"prompt" yaml:"prompt"`

	// Choices is the ordered fixed choice set of static questions.
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`

	// When gates the question; an empty precondition is always satisfied.
	When Precondition `json:"when,omitempty" yaml:"-"`

	// Derive maps an answer (case-insensitive) to derived field assignments.
	Derive map[string]map[string]string `json:"derive,omitempty" yaml:"derive,omitempty"`

	// Source names the option resolver of a computed question.
	Source  string      `json:"source,omitempty" yaml:"source,omitempty"`
	OnEmpty EmptyPolicy `json:"on_empty,omitempty" yaml:"on_empty,omitempty"`
}

// IsInfo reports whether the question is purely informational.
func (q Question) IsInfo() bool {
	return q.Kind == KindInfo
}

// DerivedFor returns the derived assignments for an answer, if any.
func (q Question) DerivedFor(answer string) (map[string]string, bool) {
	for k, v := range q.Derive {
		if equalFold(k, answer) {
			return v, true
		}
	}
	return nil, false
}
