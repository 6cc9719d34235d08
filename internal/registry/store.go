package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/astralkit/regbuilder/internal/logfields"
)

// DigestDocument is the JSON document published next to the registry.
type DigestDocument struct {
	MD5 string `json:"md5"`
}

// LoadFile reads a previously published registry. Missing, unreadable, or
// non-object documents yield an empty registry: diffing against nothing is
// the valid first-generation case, never an error. Entries whose value is
// not object-shaped are dropped individually.
func LoadFile(path string) Registry {
	reg := Registry{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("Previous registry unreadable, starting empty", logfields.Path(path), logfields.Error(err))
		}
		return reg
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Debug("Previous registry not object-shaped, starting empty", logfields.Path(path), logfields.Error(err))
		return reg
	}

	for name, raw := range doc {
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			slog.Debug("Dropping non-object registry entry", logfields.Name(name), logfields.Error(err))
			continue
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		reg[name] = entry
	}

	return reg
}

// SaveFile writes the registry as human-readable indented JSON, creating
// parent directories as needed. Non-ASCII characters are preserved
// literally. A write failure here is fatal to the run.
func SaveFile(reg Registry, path string) error {
	for name, entry := range reg {
		if entry.Tags == nil {
			entry.Tags = []string{}
			reg[name] = entry
		}
	}
	return saveJSON(reg, path)
}

// SaveDigest writes the digest document for a previously saved registry.
func SaveDigest(digest string, path string) error {
	return saveJSON(DigestDocument{MD5: digest}, path)
}

func saveJSON(v any, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
