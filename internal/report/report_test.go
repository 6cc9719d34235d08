package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astralkit/regbuilder/internal/pipeline"
	"github.com/astralkit/regbuilder/internal/registry"
)

func sampleSummary() *pipeline.Summary {
	return &pipeline.Summary{
		Total:   3,
		Added:   1,
		Removed: 1,
		Updated: 1,
		Digest:  "0123456789abcdef0123456789abcdef",
		Diff: registry.DiffResult{
			Added: map[string]registry.Entry{
				"fresh": {Name: "fresh", Version: "0.1", Author: "a"},
			},
			Removed: map[string]registry.Entry{
				"gone": {Name: "gone", Version: "1.0"},
			},
			Updated: map[string]map[string]registry.FieldChange{
				"bumped": {"version": {Old: "1.0", New: "1.1"}},
			},
		},
	}
}

func TestMarkdown_Sections(t *testing.T) {
	out := string(Markdown(sampleSummary()))

	require.Contains(t, out, "# Registry change report")
	require.Contains(t, out, "`0123456789abcdef0123456789abcdef`")
	require.Contains(t, out, "## Added")
	require.Contains(t, out, "| fresh | 0.1 | a |")
	require.Contains(t, out, "## Removed")
	require.Contains(t, out, "| gone | 1.0 |")
	require.Contains(t, out, "## Updated")
	require.Contains(t, out, "### bumped")
	require.Contains(t, out, "| version | 1.0 | 1.1 |")
}

func TestMarkdown_NoChanges(t *testing.T) {
	sum := &pipeline.Summary{Total: 2, Digest: "d"}

	out := string(Markdown(sum))
	require.Contains(t, out, "No changes since the previous generation.")
	require.NotContains(t, out, "## Added")
}

func TestMarkdown_FirstGeneration(t *testing.T) {
	sum := &pipeline.Summary{Total: 0, Digest: "d", FirstGeneration: true}

	out := string(Markdown(sum))
	require.Contains(t, out, "First generation")
	require.NotContains(t, out, "No changes since the previous generation.")
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "changes.md")
	require.NoError(t, WriteMarkdown(path, sampleSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "## Added")
}

func TestWriteHTML_RendersTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes.html")
	require.NoError(t, WriteHTML(path, sampleSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>fresh</td>")
}
