package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "admitcheck version 0.1.0")
}

func TestRulesValidateCommand(t *testing.T) {
	out, err := run(t, "rules", "validate", "../../pkg/rules/testdata/rules.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Rules are valid")

	_, err = run(t, "rules", "validate", "missing.csv")
	assert.Error(t, err)
}

func TestCatalogValidateCommand(t *testing.T) {
	t.Setenv("ADMITCHECK_CATALOG", "")
	out, err := run(t, "catalog", "validate", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "abschlussziel")
	assert.Contains(t, out, "Catalog is valid")
}
