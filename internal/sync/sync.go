// Package sync overlays remote-resolved metadata onto a locally collected
// registry. The overlay is one-directional: remote data can refresh
// version, desc, and author, but never removes or blanks a field.
package sync

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/astralkit/regbuilder/internal/github"
	"github.com/astralkit/regbuilder/internal/giturl"
	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/registry"
)

// Resolver fetches remote metadata for one repository reference.
// *github.Client satisfies it.
type Resolver interface {
	ResolveMetadata(ctx context.Context, owner, repo string) github.FetchResult
}

// Overlay walks every repo-backed entry of the registry, resolves its
// remote metadata, and replaces the entry with a rebuilt copy carrying the
// overlaid fields. Entries are skipped, untouched, when the repo URL does
// not parse, the remote is unavailable or malformed, or the remote supplies
// no version (a versionless remote is not authoritative). Returns the
// number of entries that changed.
func Overlay(ctx context.Context, reg registry.Registry, resolver Resolver) int {
	updated := 0

	for name, entry := range reg {
		repoURL := strings.TrimSpace(entry.Repo)
		if repoURL == "" {
			continue
		}

		ref, ok := giturl.ParseRepoURL(repoURL)
		if !ok {
			slog.Debug("Repo URL not a repository reference, skipping sync", logfields.Name(name), logfields.URL(repoURL))
			continue
		}

		res := resolver.ResolveMetadata(ctx, ref.Owner, ref.Name)
		switch res.Status {
		case github.StatusUnavailable:
			slog.Info("Remote metadata unavailable, keeping local values", logfields.Name(name), logfields.Repository(ref.FullName()))
			continue
		case github.StatusMalformed:
			slog.Info("Remote metadata malformed, keeping local values", logfields.Name(name), logfields.Repository(ref.FullName()))
			continue
		}

		next, changed := overlayEntry(entry, res.Metadata)
		if changed {
			reg[name] = next
			updated++
		}
	}

	return updated
}

// overlayEntry rebuilds an entry with remote fields applied. The entry is a
// value copy, so a rejected overlay leaves the registry untouched. A remote
// document without a non-empty version is ignored entirely.
func overlayEntry(entry registry.Entry, remote map[string]any) (registry.Entry, bool) {
	version := remoteString(remote["version"])
	if version == "" {
		return entry, false
	}
	entry.Version = version

	desc := remoteString(remote["desc"])
	if desc == "" {
		desc = remoteString(remote["description"])
	}
	if desc != "" {
		entry.Desc = desc
	}

	if author := remoteString(remote["author"]); author != "" {
		entry.Author = author
	}

	return entry, true
}

// remoteString coerces remote scalar values; YAML parses unquoted versions
// like 1.2 as numbers.
func remoteString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
