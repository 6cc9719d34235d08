// Package collector builds the local registry by scanning a plugin root:
// one immediate subdirectory per candidate extension.
package collector

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/astralkit/regbuilder/internal/giturl"
	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/metadata"
	"github.com/astralkit/regbuilder/internal/registry"
)

// Collect scans the immediate subdirectories of root in lexicographic order
// (the order os.ReadDir guarantees), loads metadata through src, and builds
// the local registry. Two subdirectories declaring the same name collide
// deterministically: the lexicographically later one wins. A missing root
// yields an empty registry, not an error. No network access happens here.
func Collect(root string, src metadata.Source) registry.Registry {
	reg := registry.Registry{}

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Plugin root unreadable", logfields.Path(root), logfields.Error(err))
		}
		return reg
	}

	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dir := filepath.Join(root, de.Name())

		raw, ok := src.Load(dir)
		if !ok {
			continue
		}

		entry, ok := registry.Normalize(raw)
		if !ok {
			slog.Debug("Skipping extension with incomplete metadata", logfields.Path(dir))
			continue
		}

		if entry.Repo == "" {
			if remote, ok := originRemoteURL(dir); ok {
				slog.Debug("Inferred repo from origin remote", logfields.Name(entry.Name), logfields.URL(remote))
				entry.Repo = remote
			}
		}

		reg[entry.Name] = entry
	}

	return reg
}

// originRemoteURL reads the origin remote of a plugin directory that is a
// git work tree, so locally developed extensions without a repo field still
// get remote sync. Credentials embedded in the remote URL are stripped
// before the URL enters the registry.
func originRemoteURL(dir string) (string, bool) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", false
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", false
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", false
	}
	return giturl.SanitizeRemoteURL(urls[0]), true
}
