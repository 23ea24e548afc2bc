package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// OutcomeKind classifies what an input did to the state.
type OutcomeKind string

const (
	// OutcomeStored means the input answered a question.
	OutcomeStored OutcomeKind = "stored"
	// OutcomeControl means the input was a control token and was not stored.
	OutcomeControl OutcomeKind = "control"
	// OutcomeRejected means the input did not match the choice set; the
	// same question should be asked again.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeIgnored means there was nothing to store (empty input or a
	// finished interview).
	OutcomeIgnored OutcomeKind = "ignored"
)

// Outcome describes the effect of ApplyAnswer.
type Outcome struct {
	Kind    OutcomeKind
	Key     string
	Hint    string
	Changes *domain.StateDiff
}

var controlTokens = map[string]struct{}{
	"ok":       {},
	"okay":     {},
	"next":     {},
	"continue": {},
	"weiter":   {},
	"init":     {},
	"start":    {},
	"los":      {},
}

// IsControlToken reports whether input is a navigation token rather than an answer.
func IsControlToken(input string) bool {
	_, ok := controlTokens[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// ApplyAnswer stores a raw input into the first unanswered relevant question.
// Choice questions only accept one of their choices (case-insensitive) and
// store the canonical spelling. Answers to category-defining questions also
// set the derived fields of their derive table. The input state is never
// mutated; on anything but OutcomeStored the same pointer is returned.
func (e *Engine) ApplyAnswer(ctx context.Context, state *domain.State, raw string) (*domain.State, Outcome) {
	input := strings.TrimSpace(raw)

	out, next := e.apply(state, input)
	e.logger.Debug("answer applied", "session_id", state.SessionID, "key", out.Key, "outcome", out.Kind)
	e.emitAnswer(ctx, state, out)
	return next, out
}

func (e *Engine) apply(state *domain.State, input string) (Outcome, *domain.State) {
	if IsControlToken(input) {
		return Outcome{Kind: OutcomeControl}, state
	}
	if input == "" {
		return Outcome{Kind: OutcomeIgnored}, state
	}

	prompt, ok := e.next(state, true)
	if !ok {
		return Outcome{Kind: OutcomeIgnored}, state
	}

	value := input
	if len(prompt.Choices) > 0 {
		canonical, matched := matchChoice(prompt.Choices, input)
		if !matched {
			return Outcome{Kind: OutcomeRejected, Key: prompt.Key(), Hint: Hint(prompt.Choices)}, state
		}
		value = canonical
	}

	next := e.cloneState(state)
	next.Answers[prompt.Key()] = value
	if derived, ok := prompt.Question.DerivedFor(value); ok {
		for field, v := range derived {
			next.Derived[field] = v
		}
	}

	return Outcome{
		Kind:    OutcomeStored,
		Key:     prompt.Key(),
		Changes: domain.Diff(state, next),
	}, next
}

// Prefill seeds known answers (e.g. from a student profile) into the state,
// applying derive tables. Existing answers are never overwritten.
func (e *Engine) Prefill(state *domain.State, answers map[string]string) *domain.State {
	if len(answers) == 0 {
		return state
	}
	next := e.cloneState(state)
	for key, raw := range answers {
		value := strings.TrimSpace(raw)
		if value == "" || next.Has(key) {
			continue
		}
		q, known := e.catalog.Get(key)
		if known && len(q.Choices) > 0 {
			if canonical, ok := matchChoice(q.Choices, value); ok {
				value = canonical
			}
		}
		next.Answers[key] = value
		if !known {
			continue
		}
		if derived, ok := q.DerivedFor(value); ok {
			for field, v := range derived {
				next.Derived[field] = v
			}
		}
	}
	return next
}

func matchChoice(choices []string, input string) (string, bool) {
	for _, c := range choices {
		if strings.EqualFold(strings.TrimSpace(c), input) {
			return c, true
		}
	}
	return "", false
}
