package loam

import (
	"context"
	"testing"

	"github.com/aretw0/admitcheck/internal/testutils"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Catalog_OrdersAndDecodes(t *testing.T) {
	dir := testutils.SetupTestRepo(t,
		core.Document{
			ID: "note.md",
			Content: `---
key: abschlussnote
order: 20
---
Wie lautet Ihre Abschlussnote?`,
		},
		core.Document{
			ID: "ziel.md",
			Content: `---
key: abschlussziel
order: 10
choices: [Bachelor, Master]
derive:
  Bachelor:
    goal: bachelor
    category: bachelor
  Master:
    goal: master
---
Welchen Abschluss streben Sie an?`,
		},
	)

	c, err := LoadCatalog(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	qs := c.Questions()
	assert.Equal(t, "abschlussziel", qs[0].Key)
	assert.Equal(t, "Welchen Abschluss streben Sie an?", qs[0].Prompt)
	assert.Equal(t, []string{"Bachelor", "Master"}, qs[0].Choices)

	derived, ok := qs[0].DerivedFor("bachelor")
	require.True(t, ok)
	assert.Equal(t, "bachelor", derived["category"])

	assert.Equal(t, "abschlussnote", qs[1].Key)
	assert.Equal(t, "Wie lautet Ihre Abschlussnote?", qs[1].Prompt)
}

func TestLoader_Catalog_KeyDefaultsToFileName(t *testing.T) {
	dir := testutils.SetupTestRepo(t, core.Document{
		ID: "berufserfahrung_jahre.md",
		Content: `---
order: 1
---
Wie viele Jahre Berufserfahrung haben Sie?`,
	})

	c, err := LoadCatalog(context.Background(), dir)
	require.NoError(t, err)

	q, ok := c.Get("berufserfahrung_jahre")
	require.True(t, ok)
	assert.Equal(t, "Wie viele Jahre Berufserfahrung haben Sie?", q.Prompt)
}

func TestLoader_Catalog_RejectsDuplicateKeys(t *testing.T) {
	dir := testutils.SetupTestRepo(t,
		core.Document{ID: "a.md", Content: "---\nkey: dup\n---\nA?"},
		core.Document{ID: "b.md", Content: "---\nkey: dup\n---\nB?"},
	)

	_, err := LoadCatalog(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestParseOrder(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want int
	}{
		{nil, 0},
		{7, 7},
		{int64(8), 8},
		{float64(9), 9},
		{"10", 10},
	} {
		got, err := parseOrder(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := parseOrder("first")
	assert.Error(t, err)
}
