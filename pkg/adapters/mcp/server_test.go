package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/admitcheck"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	a, err := admitcheck.New()
	require.NoError(t, err)
	return NewServer(a, nil)
}

func TestHandleChat(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	resp, err := s.handleChat(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "mcp-1",
		"message":    "start",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bachelor", "Master"}, resp.Choices)
	assert.False(t, resp.Terminal)

	resp, err = s.handleChat(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "mcp-1",
		"message":    "Bachelor",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Progress)

	resp, err = s.handleChat(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "mcp-1",
		"message":    "Fachhochschulreife",
	})
	require.NoError(t, err)
	assert.True(t, resp.Terminal)
	require.NotNil(t, resp.Decision)
	assert.Nil(t, resp.Choices)
}

func TestHandleChat_MissingSession(t *testing.T) {
	s := newServer(t)
	_, err := s.handleChat(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"message": "Master",
	})
	assert.ErrorIs(t, err, admitcheck.ErrMissingSessionID)
}

func TestHandleReport(t *testing.T) {
	s := newServer(t)

	report, err := s.handleReport(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"days": float64(14),
	})
	require.NoError(t, err)
	assert.Equal(t, 14, report.Days)
	assert.Equal(t, 0, report.Sessions)

	report, err = s.handleReport(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, 7, report.Days)
}
