package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/admitcheck"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChat_BachelorByNumber(t *testing.T) {
	a, err := admitcheck.New()
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunChat(context.Background(), a, ChatOptions{
		SessionID: "cli-1",
		Input:     strings.NewReader("1\nAllgemeine Hochschulreife\n"),
		Output:    &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Welchen Abschluss streben Sie an?")
	assert.Contains(t, text, "[1] Bachelor")
	assert.Contains(t, text, "Entscheidung: Ja")

	_, err = a.Sessions().Load(context.Background(), "cli-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunChat_ExitKeepsSession(t *testing.T) {
	a, err := admitcheck.New()
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunChat(context.Background(), a, ChatOptions{
		SessionID: "cli-2",
		Input:     strings.NewReader("Master\nexit\n"),
		Output:    &out,
	})
	require.NoError(t, err)

	state, err := a.Sessions().Load(context.Background(), "cli-2")
	require.NoError(t, err)
	assert.Equal(t, "Master", state.Answers["abschlussziel"])
}

func TestRunChat_JSONLines(t *testing.T) {
	a, err := admitcheck.New()
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunChat(context.Background(), a, ChatOptions{
		SessionID: "cli-3",
		JSON:      true,
		Input:     strings.NewReader("\"Bachelor\"\nFachhochschulreife\n"),
		Output:    &out,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var last domain.Reply
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.True(t, last.Terminal)
	require.NotNil(t, last.Decision)
	assert.Equal(t, domain.VerdictAdmit, last.Decision.Verdict)
}

func TestRunChat_CancelledContext(t *testing.T) {
	a, err := admitcheck.New()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err = RunChat(ctx, a, ChatOptions{
		SessionID: "cli-4",
		Input:     blockingReader{},
		Output:    &out,
	})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Welchen Abschluss streben Sie an?")
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestResolveChoice(t *testing.T) {
	choices := []string{"Bachelor", "Master"}
	assert.Equal(t, "Master", resolveChoice("2", choices))
	assert.Equal(t, "3", resolveChoice("3", choices))
	assert.Equal(t, "0", resolveChoice("0", choices))
	assert.Equal(t, "2.0", resolveChoice("2.0", nil))
	assert.Equal(t, "Master", resolveChoice("Master", choices))
}

func TestParseInput(t *testing.T) {
	assert.Equal(t, "Master", parseInput(`"Master"`, true))
	assert.Equal(t, "Master", parseInput(" Master ", true))
	assert.Equal(t, `"Master"`, parseInput(`"Master"`, false))
}
