package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	keys := make([]string, 0, c.Len())
	for _, q := range c.Questions() {
		keys = append(keys, q.Key)
	}
	assert.Equal(t, []string{
		"abschlussziel", "hochschulzugang", "hsbi_bachelor", "hinweis_nachweise",
		"studiengang", "abschlussnote", "berufserfahrung_jahre", "englischkenntnisse",
		"bachelor_studiengang", "studienart", "vertiefung",
	}, keys)

	goal, ok := c.Get("abschlussziel")
	require.True(t, ok)
	assert.Empty(t, goal.When)
	derived, ok := goal.DerivedFor("master")
	require.True(t, ok)
	assert.Equal(t, "master", derived[domain.FieldGoal])

	info, _ := c.Get("hinweis_nachweise")
	assert.True(t, info.IsInfo())
	assert.Equal(t, domain.Precondition{{Key: domain.FieldCategory, Value: "master_external"}}, info.When)

	program, _ := c.Get("studiengang")
	assert.Equal(t, domain.KindComputed, program.Kind)
	assert.Equal(t, domain.EmptyFreeText, program.OnEmpty)

	mode, _ := c.Get("studienart")
	assert.Equal(t, domain.EmptySkip, mode.OnEmpty)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "Empty",
			yaml:    "questions: []",
			wantErr: "no questions",
		},
		{
			name: "Duplicate Key",
			yaml: `
questions:
  - { key: a, prompt: A }
  - { key: a, prompt: again }
`,
			wantErr: "duplicate key",
		},
		{
			name: "Forward Reference",
			yaml: `
questions:
  - { key: a, prompt: A, when: { b: x } }
  - { key: b, prompt: B }
`,
			wantErr: `references "b" before it is defined`,
		},
		{
			name: "Computed Without Source",
			yaml: `
questions:
  - { key: a, prompt: A, kind: computed }
`,
			wantErr: "without source",
		},
		{
			name: "Unknown Kind",
			yaml: `
questions:
  - { key: a, prompt: A, kind: riddle }
`,
			wantErr: `unknown kind "riddle"`,
		},
		{
			name: "Derive Outside Choices",
			yaml: `
questions:
  - key: a
    prompt: A
    choices: [X, Y]
    derive:
      Z: { goal: master }
`,
			wantErr: `derive entry "Z"`,
		},
		{
			name:    "Malformed YAML",
			yaml:    "questions: [",
			wantErr: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_DerivedFieldsSatisfyReferences(t *testing.T) {
	c, err := Parse([]byte(`
questions:
  - key: goal_question
    prompt: Goal?
    choices: [One, Two]
    derive:
      One: { track: first }
  - key: followup
    prompt: "More?"
    when: { track: first }
`))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  - { key: a, prompt: A }\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	q, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, domain.KindStatic, q.Kind)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
