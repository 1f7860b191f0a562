package diff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Identical(t *testing.T) {
	doc := "Popular: 15\n"
	result, err := Compute(doc, doc, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, result.HasDifferences)
	assert.Empty(t, result.Hunks)
}

func TestCompute_Different(t *testing.T) {
	oldDoc := "Tags:\n  - Id: 1\n    Name: go\n"
	newDoc := "tags:\n  - tag_id: 1\n    Name: go\n"
	result, err := Compute(oldDoc, newDoc, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)
	require.Len(t, result.Hunks, 1)
	assert.Contains(t, result.Hunks[0], "@@")
	assert.Contains(t, result.Unified, "-  - Id: 1")
	assert.Contains(t, result.Unified, "+  - tag_id: 1")
}

func TestCompute_Labels(t *testing.T) {
	opts := DefaultOptions()
	opts.OldLabel = "post.yaml"
	opts.NewLabel = "post.out.yaml"

	result, err := Compute("a: 1\n", "b: 1\n", opts)
	require.NoError(t, err)
	assert.Contains(t, result.Unified, "--- post.yaml")
	assert.Contains(t, result.Unified, "+++ post.out.yaml")
}

func TestCompute_EmptySides(t *testing.T) {
	result, err := Compute("", "a: 1\n", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)

	result, err = Compute("a: 1\n", "", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)
}

func TestResult_Stats(t *testing.T) {
	result, err := Compute("line1\nline2\n", "line1\nline3\nline4\n", DefaultOptions())
	require.NoError(t, err)

	added, removed := result.Stats()
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)
}

func TestWrite_NoColor(t *testing.T) {
	result, err := Compute("line1\nline2\n", "line1\nline3\n", DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	Write(&buf, result, false)

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "-line2")
	assert.Contains(t, out, "+line3")
}

func TestWrite_WithColor(t *testing.T) {
	result, err := Compute("line1\nline2\n", "line1\nline3\n", DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	Write(&buf, result, true)
	assert.Contains(t, buf.String(), "\033[")
}

func TestWrite_NoDifferences(t *testing.T) {
	result, err := Compute("same\n", "same\n", DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	Write(&buf, result, false)
	assert.Contains(t, buf.String(), "No differences")
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a\n", "b\n", "c"}, splitLines("a\nb\nc"))
	assert.Equal(t, []string{"a\n", "b\n", "c\n", ""}, splitLines("a\nb\nc\n"))
	assert.Equal(t, []string{""}, splitLines(""))
}
