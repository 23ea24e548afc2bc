package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/admitcheck/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatChoices(t *testing.T) {
	assert.Equal(t, "  [1] Ja\n  [2] Nein\n", tui.FormatChoices([]string{"Ja", "Nein"}))
	assert.Empty(t, tui.FormatChoices(nil))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[--------------------] 0%", tui.ProgressBar(0))
	assert.Equal(t, "[##########----------] 50%", tui.ProgressBar(50))
	assert.Equal(t, "[####################] 100%", tui.ProgressBar(150))
}

func TestRenderers(t *testing.T) {
	out, err := tui.PlainRenderer("**Entscheidung: Ja**")
	require.NoError(t, err)
	assert.Equal(t, "**Entscheidung: Ja**\n", out)

	out, err = tui.NewRenderer()("**Entscheidung: Ja**")
	require.NoError(t, err)
	assert.Contains(t, out, "Entscheidung")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "Zulassungscheck v0.1.0")
}
