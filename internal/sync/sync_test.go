package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astralkit/regbuilder/internal/github"
	"github.com/astralkit/regbuilder/internal/registry"
)

// fakeResolver maps "owner/repo" to a canned result and records lookups.
type fakeResolver struct {
	results map[string]github.FetchResult
	calls   []string
}

func (f *fakeResolver) ResolveMetadata(_ context.Context, owner, repo string) github.FetchResult {
	key := owner + "/" + repo
	f.calls = append(f.calls, key)
	res, ok := f.results[key]
	if !ok {
		return github.FetchResult{Status: github.StatusUnavailable}
	}
	return res
}

func localEntry(name string) registry.Entry {
	return registry.Entry{
		Name:    name,
		Desc:    "local desc",
		Version: "1.0",
		Author:  "local author",
		Repo:    "https://github.com/owner/" + name,
		Tags:    []string{},
	}
}

func TestOverlay_RefreshesFields(t *testing.T) {
	reg := registry.Registry{"p": localEntry("p")}
	resolver := &fakeResolver{results: map[string]github.FetchResult{
		"owner/p": {Status: github.StatusResolved, Metadata: map[string]any{
			"version": "2.0",
			"desc":    "remote desc",
			"author":  "remote author",
		}},
	}}

	updated := Overlay(context.Background(), reg, resolver)
	require.Equal(t, 1, updated)
	require.Equal(t, "2.0", reg["p"].Version)
	require.Equal(t, "remote desc", reg["p"].Desc)
	require.Equal(t, "remote author", reg["p"].Author)
}

func TestOverlay_NeverBlanksFields(t *testing.T) {
	reg := registry.Registry{"p": localEntry("p")}
	resolver := &fakeResolver{results: map[string]github.FetchResult{
		"owner/p": {Status: github.StatusResolved, Metadata: map[string]any{
			"version": "2.0",
			"desc":    "",
			"author":  "   ",
		}},
	}}

	Overlay(context.Background(), reg, resolver)
	require.Equal(t, "2.0", reg["p"].Version)
	require.Equal(t, "local desc", reg["p"].Desc)
	require.Equal(t, "local author", reg["p"].Author)
}

func TestOverlay_VersionlessRemoteIgnored(t *testing.T) {
	reg := registry.Registry{"p": localEntry("p")}
	resolver := &fakeResolver{results: map[string]github.FetchResult{
		"owner/p": {Status: github.StatusResolved, Metadata: map[string]any{
			"desc":   "remote desc",
			"author": "remote author",
		}},
	}}

	updated := Overlay(context.Background(), reg, resolver)
	require.Zero(t, updated)
	require.Equal(t, localEntry("p"), reg["p"])
}

func TestOverlay_DescriptionFallback(t *testing.T) {
	reg := registry.Registry{"p": localEntry("p")}
	resolver := &fakeResolver{results: map[string]github.FetchResult{
		"owner/p": {Status: github.StatusResolved, Metadata: map[string]any{
			"version":     "2.0",
			"description": "legacy remote desc",
		}},
	}}

	Overlay(context.Background(), reg, resolver)
	require.Equal(t, "legacy remote desc", reg["p"].Desc)
}

func TestOverlay_NumericRemoteVersion(t *testing.T) {
	reg := registry.Registry{"p": localEntry("p")}
	resolver := &fakeResolver{results: map[string]github.FetchResult{
		"owner/p": {Status: github.StatusResolved, Metadata: map[string]any{
			"version": 2.5,
		}},
	}}

	Overlay(context.Background(), reg, resolver)
	require.Equal(t, "2.5", reg["p"].Version)
}

func TestOverlay_SkipsUnresolvableEntries(t *testing.T) {
	noRepo := localEntry("norepo")
	noRepo.Repo = ""
	badURL := localEntry("badurl")
	badURL.Repo = "https://example.com/not/github"
	unavailable := localEntry("down")
	malformed := localEntry("broken")

	reg := registry.Registry{
		"norepo": noRepo,
		"badurl": badURL,
		"down":   unavailable,
		"broken": malformed,
	}
	resolver := &fakeResolver{results: map[string]github.FetchResult{
		"owner/down":   {Status: github.StatusUnavailable},
		"owner/broken": {Status: github.StatusMalformed},
	}}

	updated := Overlay(context.Background(), reg, resolver)
	require.Zero(t, updated)
	require.Equal(t, noRepo, reg["norepo"])
	require.Equal(t, badURL, reg["badurl"])
	require.Equal(t, unavailable, reg["down"])
	require.Equal(t, malformed, reg["broken"])

	// Only repo-parsable entries reach the resolver.
	require.ElementsMatch(t, []string{"owner/down", "owner/broken"}, resolver.calls)
}
