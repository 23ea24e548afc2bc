package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/admitcheck/internal/runtime"
	"github.com/aretw0/admitcheck/pkg/catalog"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *rules.Table {
	t := rules.Empty()
	t.Programs["ProgramX"] = rules.CategoryCredits{"Mathematik": 10}
	t.Programs["Data Science"] = rules.CategoryCredits{"Informatik": 20}
	t.Compositions = []rules.Composition{
		{Program: "Wirtschaftsingenieurwesen", StudyMode: "Vollzeit", Specialization: "Logistik", Modules: []string{"Mathematik 1"}},
		{Program: "Wirtschaftsingenieurwesen", StudyMode: "Vollzeit", Specialization: "Technik", Modules: []string{"Mathematik 1"}},
		{Program: "Wirtschaftsingenieurwesen", StudyMode: "Praxisintegriert", Specialization: "Logistik", Modules: []string{"Mathematik 1"}},
	}
	return t
}

func newEngine(table *rules.Table) *runtime.Engine {
	return runtime.NewEngine(catalog.Default(), runtime.WithResolver(runtime.RuleResolver{Table: table}))
}

// walk applies inputs one by one, presenting each prompt like a chat turn.
func walk(t *testing.T, e *runtime.Engine, state *domain.State, inputs ...string) *domain.State {
	t.Helper()
	ctx := context.Background()
	for _, in := range inputs {
		_, presented, _ := e.Present(ctx, state)
		next, out := e.ApplyAnswer(ctx, presented, in)
		require.NotEqual(t, runtime.OutcomeRejected, out.Kind, "input %q rejected: %s", in, out.Hint)
		state = next
	}
	return state
}

func TestEngine_BachelorPath(t *testing.T) {
	e := newEngine(testTable())
	state := domain.NewState("s1")

	p, ok := e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "abschlussziel", p.Key())
	assert.Equal(t, []string{"Bachelor", "Master"}, p.Choices)
	assert.Equal(t, 0, e.Progress(state))

	state = walk(t, e, state, "bachelor")
	assert.Equal(t, "Bachelor", state.Answers["abschlussziel"], "canonical choice is stored")
	assert.Equal(t, domain.GoalBachelor, state.Goal())
	assert.Equal(t, domain.CategoryBachelor, state.Category())

	p, ok = e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "hochschulzugang", p.Key())
	assert.Equal(t, 50, e.Progress(state))

	state = walk(t, e, state, "Fachhochschulreife")
	_, ok = e.NextPrompt(state)
	assert.False(t, ok, "interview should be complete")
	assert.Equal(t, 100, e.Progress(state))
}

func TestEngine_InternalMasterPath(t *testing.T) {
	e := newEngine(testTable())
	state := walk(t, e, domain.NewState("s1"), "Master", "Ja", "ProgramX", "2,0", "3", "Gut")
	assert.Equal(t, domain.CategoryMasterInternal, state.Category())
	assert.False(t, state.Has("hinweis_nachweise"), "notice is external only")

	p, ok := e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "bachelor_studiengang", p.Key())
	assert.Equal(t, []string{"Wirtschaftsingenieurwesen"}, p.Choices)

	state = walk(t, e, state, "Wirtschaftsingenieurwesen")
	p, ok = e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "studienart", p.Key())
	assert.Equal(t, []string{"Praxisintegriert", "Vollzeit"}, p.Choices)

	state = walk(t, e, state, "vollzeit")
	p, ok = e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "vertiefung", p.Key())
	assert.Equal(t, []string{"Logistik", "Technik"}, p.Choices, "specializations depend on program and mode")

	state = walk(t, e, state, "Technik")
	_, ok = e.NextPrompt(state)
	assert.False(t, ok)
	assert.Equal(t, 100, e.Progress(state))
}

func TestEngine_ExternalMasterNotice(t *testing.T) {
	ctx := context.Background()
	e := newEngine(testTable())
	state := walk(t, e, domain.NewState("s1"), "Master", "Nein")
	assert.Equal(t, domain.CategoryMasterExternal, state.Category())

	prompt, presented, ok := e.Present(ctx, state)
	require.True(t, ok)
	assert.Equal(t, "hinweis_nachweise", prompt.Key())
	assert.True(t, presented.Shown("hinweis_nachweise"), "notice is marked when presented")
	assert.NotContains(t, presented.Answers, "hinweis_nachweise", "a shown notice is not an answer")
	assert.False(t, state.Has("hinweis_nachweise"), "input state is not mutated")

	next, out := e.ApplyAnswer(ctx, presented, "OK")
	assert.Equal(t, runtime.OutcomeControl, out.Kind)
	assert.Same(t, presented, next)

	p, ok := e.NextPrompt(next)
	require.True(t, ok)
	assert.Equal(t, "studiengang", p.Key())
}

func TestEngine_ControlTokensNeverCreateKeys(t *testing.T) {
	ctx := context.Background()
	e := newEngine(testTable())
	state := domain.NewState("s1")

	for _, token := range []string{"ok", "OKAY", " next ", "Continue", "weiter", "init", "start", "los"} {
		next, out := e.ApplyAnswer(ctx, state, token)
		assert.Equal(t, runtime.OutcomeControl, out.Kind, token)
		assert.Empty(t, next.Answers, token)
		assert.Empty(t, next.Derived, token)
	}

	_, out := e.ApplyAnswer(ctx, state, "   ")
	assert.Equal(t, runtime.OutcomeIgnored, out.Kind)
}

func TestEngine_RejectsUnknownChoice(t *testing.T) {
	ctx := context.Background()
	e := newEngine(testTable())
	state := domain.NewState("s1")

	next, out := e.ApplyAnswer(ctx, state, "Diplom")
	assert.Equal(t, runtime.OutcomeRejected, out.Kind)
	assert.Equal(t, "abschlussziel", out.Key)
	assert.Contains(t, out.Hint, "Bachelor, Master")
	assert.Same(t, state, next)

	p, ok := e.NextPrompt(next)
	require.True(t, ok)
	assert.Equal(t, "abschlussziel", p.Key(), "same question is repeated")
}

func TestEngine_NextPromptIsPure(t *testing.T) {
	e := newEngine(testTable())
	state := walk(t, e, domain.NewState("s1"), "Master", "Ja")
	before := state.Clone()

	first, ok := e.NextPrompt(state)
	require.True(t, ok)
	second, _ := e.NextPrompt(state)

	assert.Equal(t, first, second)
	assert.Equal(t, before.Answers, state.Answers)
	assert.Equal(t, before.Derived, state.Derived)
}

func TestEngine_NeverOffersAnsweredKey(t *testing.T) {
	e := newEngine(testTable())
	inputs := []string{"Master", "Ja", "ProgramX", "1,7", "2", "Sehr gut", "Wirtschaftsingenieurwesen", "Vollzeit", "Logistik"}

	ctx := context.Background()
	state := domain.NewState("s1")
	for _, in := range inputs {
		prompt, presented, ok := e.Present(ctx, state)
		require.True(t, ok)
		assert.False(t, state.Has(prompt.Key()), "offered answered key %s", prompt.Key())
		state, _ = e.ApplyAnswer(ctx, presented, in)
	}
	_, ok := e.NextPrompt(state)
	assert.False(t, ok)
}

func TestEngine_ComputedQuestionsWithoutRules(t *testing.T) {
	e := newEngine(rules.Empty())
	state := walk(t, e, domain.NewState("s1"), "Master", "Ja")

	p, ok := e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "studiengang", p.Key())
	assert.Nil(t, p.Choices, "free text when no programs are known")

	state = walk(t, e, state, "Irgendein Master", "2,0", "3", "Gut")
	_, ok = e.NextPrompt(state)
	assert.False(t, ok, "skip-policy questions are not offered without options")
	assert.Equal(t, 100, e.Progress(state))
}

func TestEngine_ProgressFollowsBranch(t *testing.T) {
	e := newEngine(testTable())
	state := walk(t, e, domain.NewState("s1"), "Master")

	// abschlussziel, hsbi_bachelor, studiengang, note, erfahrung, englisch
	assert.Equal(t, 16, e.Progress(state))

	state = walk(t, e, state, "Ja")
	// the internal branch adds the prior-program question; its follow-ups
	// only count once their options resolve
	assert.Equal(t, 28, e.Progress(state))
}

func TestEngine_Prefill(t *testing.T) {
	e := newEngine(testTable())
	state := e.Prefill(domain.NewState("s1"), map[string]string{
		"abschlussziel":        "master",
		"bachelor_studiengang": "Wirtschaftsingenieurwesen",
	})
	assert.Equal(t, "Master", state.Answers["abschlussziel"])
	assert.Equal(t, domain.GoalMaster, state.Goal())

	again := e.Prefill(state, map[string]string{"abschlussziel": "Bachelor"})
	assert.Equal(t, "Master", again.Answers["abschlussziel"], "prefill never overwrites")

	p, ok := e.NextPrompt(state)
	require.True(t, ok)
	assert.Equal(t, "hsbi_bachelor", p.Key())
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var questions []string
	var answers []*domain.AnswerEvent
	hooks := domain.LifecycleHooks{
		OnQuestion: func(_ context.Context, ev *domain.QuestionEvent) { questions = append(questions, ev.Key) },
		OnAnswer:   func(_ context.Context, ev *domain.AnswerEvent) { answers = append(answers, ev) },
	}
	e := runtime.NewEngine(catalog.Default(), runtime.WithLifecycleHooks(hooks))

	ctx := context.Background()
	_, state, _ := e.Present(ctx, domain.NewState("s1"))
	state, _ = e.ApplyAnswer(ctx, state, "Bachelor")
	e.Present(ctx, state)

	assert.Equal(t, []string{"abschlussziel", "hochschulzugang"}, questions)
	require.Len(t, answers, 1)
	assert.Equal(t, "abschlussziel", answers[0].Key)
	assert.Equal(t, "bachelor", answers[0].Changes[domain.FieldCategory])
}
