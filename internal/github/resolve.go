package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/astralkit/regbuilder/internal/logfields"
	"github.com/astralkit/regbuilder/internal/metadata"
)

// Status classifies the outcome of a remote metadata fetch. Soft negatives
// are values, not errors: the caller matches on the status instead of
// unwrapping swallowed failures.
type Status int

const (
	// StatusResolved means a mapping-shaped metadata document was retrieved.
	StatusResolved Status = iota
	// StatusUnavailable means no branch yielded a retrievable document
	// (network failure, non-2xx response, unknown repository).
	StatusUnavailable
	// StatusMalformed means content was retrieved but did not parse as a
	// non-empty mapping.
	StatusMalformed
)

// FetchResult carries the resolution outcome for one repository.
// Metadata is non-nil only when Status is StatusResolved.
type FetchResult struct {
	Status   Status
	Metadata map[string]any
}

// fallbackBranches is the fixed tail of the branch-fallback sequence,
// tried in this order after the repository's default branch.
var fallbackBranches = [...]string{"main", "master"}

// ResolveMetadata locates metadata.yaml in the repository root using the
// branch-fallback protocol: the default branch reported by the
// repository-info endpoint first, then main, then master, skipping branches
// already attempted. It stops at the first branch that yields a parsed
// mapping. A failed default-branch lookup is soft and simply skips that step.
func (c *Client) ResolveMetadata(ctx context.Context, owner, repo string) FetchResult {
	tried := map[string]bool{}
	sawMalformed := false

	if branch, ok := c.defaultBranch(ctx, owner, repo); ok {
		tried[branch] = true
		res := c.fetchBranchMetadata(ctx, owner, repo, branch)
		if res.Status == StatusResolved {
			return res
		}
		sawMalformed = sawMalformed || res.Status == StatusMalformed
	}

	for _, branch := range fallbackBranches {
		if tried[branch] {
			continue
		}
		res := c.fetchBranchMetadata(ctx, owner, repo, branch)
		if res.Status == StatusResolved {
			return res
		}
		sawMalformed = sawMalformed || res.Status == StatusMalformed
	}

	if sawMalformed {
		return FetchResult{Status: StatusMalformed}
	}
	return FetchResult{Status: StatusUnavailable}
}

// defaultBranch queries the repository-info endpoint. Every failure mode
// (network error, non-2xx, missing field) collapses to "no default branch
// known" and never aborts the overall resolution.
func (c *Client) defaultBranch(ctx context.Context, owner, repo string) (string, bool) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.apiBase, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("Repository info request failed", logfields.Repository(owner+"/"+repo), logfields.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slog.Debug("Repository info request rejected", logfields.Repository(owner+"/"+repo), slog.Int("status", resp.StatusCode))
		return "", false
	}

	var info struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", false
	}
	if info.DefaultBranch == "" {
		return "", false
	}
	return info.DefaultBranch, true
}

// fetchBranchMetadata retrieves metadata.yaml from one branch via the
// raw-content endpoint.
func (c *Client) fetchBranchMetadata(ctx context.Context, owner, repo, branch string) FetchResult {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, owner, repo, branch, metadata.Filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{Status: StatusUnavailable}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("Raw content request failed", logfields.URL(url), logfields.Error(err))
		return FetchResult{Status: StatusUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return FetchResult{Status: StatusUnavailable}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{Status: StatusUnavailable}
	}

	doc, ok := metadata.Parse(body)
	if !ok || len(doc) == 0 {
		slog.Debug("Remote metadata not mapping-shaped", logfields.URL(url), logfields.Branch(branch))
		return FetchResult{Status: StatusMalformed}
	}

	return FetchResult{Status: StatusResolved, Metadata: doc}
}
