package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// Prompt is a question ready to be presented, with its choices resolved.
type Prompt struct {
	Question domain.Question
	Choices  []string
}

// Key returns the question key.
func (p *Prompt) Key() string {
	return p.Question.Key
}

// Text returns the prompt text.
func (p *Prompt) Text() string {
	return p.Question.Prompt
}

// NextPrompt returns the first question, in declared order, whose
// precondition holds and whose key is absent from the state. It returns
// false when the interview is complete. It never mutates the state.
func (e *Engine) NextPrompt(state *domain.State) (*Prompt, bool) {
	return e.next(state, false)
}

// next scans the catalog. Computed questions are resolved in the same pass;
// skipInfo makes the scan pass over informational notices, which are never
// answered.
func (e *Engine) next(state *domain.State, skipInfo bool) (*Prompt, bool) {
	for _, q := range e.catalog.Questions() {
		if state.Has(q.Key) || !q.When.Satisfied(state) {
			continue
		}
		if skipInfo && q.IsInfo() {
			continue
		}
		choices, offered := e.resolve(q, state)
		if !offered {
			continue
		}
		return &Prompt{Question: q, Choices: choices}, true
	}
	return nil, false
}

// resolve returns the choices of a question and whether it is offered at all.
func (e *Engine) resolve(q domain.Question, state *domain.State) ([]string, bool) {
	if q.Kind != domain.KindComputed {
		return q.Choices, true
	}
	options := e.resolver.Options(q.Source, state)
	if len(options) == 0 {
		return nil, q.OnEmpty != domain.EmptySkip
	}
	return options, true
}

// relevant reports whether a question counts toward progress under the state.
func (e *Engine) relevant(q domain.Question, state *domain.State) bool {
	if !q.When.Satisfied(state) {
		return false
	}
	if state.Has(q.Key) {
		return true
	}
	_, offered := e.resolve(q, state)
	return offered
}

// Progress is the share of currently relevant questions that are answered,
// as a percentage. The denominator follows the branch the session is on.
func (e *Engine) Progress(state *domain.State) int {
	total, answered := 0, 0
	for _, q := range e.catalog.Questions() {
		if !e.relevant(q, state) {
			continue
		}
		total++
		if state.Has(q.Key) {
			answered++
		}
	}
	if total == 0 {
		return 0
	}
	return answered * 100 / total
}

// Present returns the next prompt and records its presentation: informational
// notices are marked shown and the OnQuestion hook fires.
func (e *Engine) Present(ctx context.Context, state *domain.State) (*Prompt, *domain.State, bool) {
	prompt, ok := e.NextPrompt(state)
	if !ok {
		return nil, state, false
	}
	next := e.MarkShown(state, prompt)
	e.emitQuestion(ctx, next, prompt.Key(), e.Progress(next))
	return prompt, next, true
}

// MarkShown flags an informational question as presented so that it is not
// offered again. Other prompts leave the state untouched.
func (e *Engine) MarkShown(state *domain.State, prompt *Prompt) *domain.State {
	if prompt == nil || !prompt.Question.IsInfo() || state.Has(prompt.Key()) {
		return state
	}
	next := e.cloneState(state)
	next.MarkShown(prompt.Key())
	return next
}

// Hint renders the retry hint for a rejected answer.
func Hint(choices []string) string {
	return fmt.Sprintf("Bitte wählen Sie eine der folgenden Optionen: %s.", strings.Join(choices, ", "))
}
