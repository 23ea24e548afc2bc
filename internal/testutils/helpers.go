package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary Loam repository holding docs and returns
// its absolute path. Versioning is off so tests need no git binary.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, docs ...core.Document) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, loam.WithVersioning(false))
	require.NoError(t, err, "Failed to init loam repo")

	ctx := context.Background()
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc), "Failed to save %s", doc.ID)
	}
	return absPath
}

// Question builds a Markdown question document with the given frontmatter.
func Question(id, frontmatter, prompt string) core.Document {
	return core.Document{
		ID:      id,
		Content: "---\n" + frontmatter + "\n---\n" + prompt,
	}
}
