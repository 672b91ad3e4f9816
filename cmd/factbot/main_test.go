package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/factbot/internal/facts"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestFactCommandPrintsCategoryMembers(t *testing.T) {
	out := execute(t, "fact", "History", "--count", "3", "--rand-seed", "11")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, facts.Builtin().Contains(facts.CategoryHistory, line), "unexpected fact %q", line)
	}
}

func TestFactCommandUnknownCategory(t *testing.T) {
	out := execute(t, "fact", "Xyzzy", "--count", "1")
	assert.Equal(t, facts.FallbackMessage+"\n", out)
}

func TestCategoriesCommand(t *testing.T) {
	out := execute(t, "categories")
	assert.Equal(t, "Science  10\nHistory  10\nNature   10\nRandom   10\n", out)
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "factbot dev (local)\n", execute(t, "version"))
}
