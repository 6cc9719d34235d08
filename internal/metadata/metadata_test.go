package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, ok := Parse([]byte("name: demo\nversion: 1.0\ntags:\n  - chat\n"))
	require.True(t, ok)
	require.Equal(t, "demo", doc["name"])
	require.Equal(t, []any{"chat"}, doc["tags"])
}

func TestParse_NonMapping(t *testing.T) {
	for _, data := range []string{"- a\n- b\n", "just a scalar", "", "42"} {
		_, ok := Parse([]byte(data))
		require.False(t, ok, "input %q should not parse to a mapping", data)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, ok := Parse([]byte("name: [unclosed\n"))
	require.False(t, ok)
}

func TestYAMLSource_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("name: demo\n"), 0o644))

	doc, ok := YAMLSource{}.Load(dir)
	require.True(t, ok)
	require.Equal(t, "demo", doc["name"])
}

func TestYAMLSource_Load_MissingFile(t *testing.T) {
	_, ok := YAMLSource{}.Load(t.TempDir())
	require.False(t, ok)
}

func TestYAMLSource_Load_Unparsable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("::: not yaml {"), 0o644))

	_, ok := YAMLSource{}.Load(dir)
	require.False(t, ok)
}
