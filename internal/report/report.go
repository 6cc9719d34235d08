// Package report renders a human-readable change report for a generation
// run, as Markdown or as standalone HTML.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/astralkit/regbuilder/internal/pipeline"
	"github.com/astralkit/regbuilder/internal/registry"
)

// Markdown renders the change report.
func Markdown(sum *pipeline.Summary) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Registry change report\n\n")
	fmt.Fprintf(&b, "Generated %s.\n\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Entries: %d\n", sum.Total)
	fmt.Fprintf(&b, "- Digest: `%s`\n", sum.Digest)
	if sum.FirstGeneration {
		fmt.Fprintf(&b, "- First generation: no previous registry to compare against.\n")
	}
	b.WriteString("\n")

	diff := sum.Diff
	if diff.Empty() && !sum.FirstGeneration {
		b.WriteString("No changes since the previous generation.\n")
		return []byte(b.String())
	}

	if len(diff.Added) > 0 {
		b.WriteString("## Added\n\n")
		b.WriteString("| Name | Version | Author |\n|---|---|---|\n")
		for _, name := range sortedEntryNames(diff.Added) {
			entry := diff.Added[name]
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, entry.Version, entry.Author)
		}
		b.WriteString("\n")
	}

	if len(diff.Removed) > 0 {
		b.WriteString("## Removed\n\n")
		b.WriteString("| Name | Last version |\n|---|---|\n")
		for _, name := range sortedEntryNames(diff.Removed) {
			fmt.Fprintf(&b, "| %s | %s |\n", name, diff.Removed[name].Version)
		}
		b.WriteString("\n")
	}

	if len(diff.Updated) > 0 {
		b.WriteString("## Updated\n\n")
		names := make([]string, 0, len(diff.Updated))
		for name := range diff.Updated {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "### %s\n\n", name)
			b.WriteString("| Field | Old | New |\n|---|---|---|\n")
			changes := diff.Updated[name]
			fields := make([]string, 0, len(changes))
			for field := range changes {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				change := changes[field]
				fmt.Fprintf(&b, "| %s | %v | %v |\n", field, change.Old, change.New)
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

// WriteMarkdown writes the Markdown report to path, creating parent
// directories as needed.
func WriteMarkdown(path string, sum *pipeline.Summary) error {
	return writeFile(path, Markdown(sum))
}

// WriteHTML renders the Markdown report through goldmark (GFM tables
// enabled) and writes a standalone HTML document.
func WriteHTML(path string, sum *pipeline.Summary) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert(Markdown(sum), &body); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Registry change report</title>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")

	return writeFile(path, doc.Bytes())
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func sortedEntryNames(m map[string]registry.Entry) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
