// Package metadata loads extension metadata documents from candidate
// directories. The rest of the pipeline treats the document format as
// opaque: it only ever sees a parsed key-value mapping.
package metadata

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/astralkit/regbuilder/internal/logfields"
)

// Filename is the metadata document expected at an extension's root, both
// locally and in its source repository.
const Filename = "metadata.yaml"

// Source loads the raw metadata mapping for one candidate directory.
// A false return means "no usable metadata here" and is never an error:
// partial extension trees are expected.
type Source interface {
	Load(dir string) (map[string]any, bool)
}

// YAMLSource reads Filename from the candidate directory.
type YAMLSource struct{}

// Load implements Source. Unreadable or unparsable documents, and documents
// that do not parse to a mapping, are reported as absent.
func (YAMLSource) Load(dir string) (map[string]any, bool) {
	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	doc, ok := Parse(data)
	if !ok {
		slog.Debug("Skipping unparsable metadata document", logfields.Path(path))
		return nil, false
	}
	return doc, true
}

// Parse decodes a metadata document. Only mapping-shaped documents are
// accepted; scalars, sequences, and empty documents yield false.
func Parse(data []byte) (map[string]any, bool) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	if doc == nil {
		return nil, false
	}
	return doc, true
}
