package registry

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts one raw metadata mapping into a canonical Entry.
// It returns false when any of the required fields (name, desc, version,
// author) is empty after trimming; such sources are excluded from the
// registry rather than reported as errors.
//
// The legacy field name "description" is accepted as a fallback for "desc".
// Optional fields are coerced to their zero values when absent or of the
// wrong shape; a malformed optional field never rejects the entry.
func Normalize(raw map[string]any) (Entry, bool) {
	name := strings.TrimSpace(norm.NFC.String(scalarString(raw["name"])))
	desc := strings.TrimSpace(scalarString(raw["desc"]))
	if desc == "" {
		desc = strings.TrimSpace(scalarString(raw["description"]))
	}
	version := strings.TrimSpace(scalarString(raw["version"]))
	author := strings.TrimSpace(scalarString(raw["author"]))

	if name == "" || desc == "" || version == "" || author == "" {
		return Entry{}, false
	}

	return Entry{
		Name:        name,
		Desc:        desc,
		Version:     version,
		Author:      author,
		Repo:        strings.TrimSpace(scalarString(raw["repo"])),
		DisplayName: optionalString(raw["display_name"]),
		SocialLink:  optionalString(raw["social_link"]),
		Tags:        stringList(raw["tags"]),
		Logo:        optionalString(raw["logo"]),
		Pinned:      boolValue(raw["pinned"]),
		Stars:       intValue(raw["stars"]),
		UpdatedAt:   optionalString(raw["updated_at"]),
	}, true
}

// scalarString renders scalar values as strings. YAML frequently parses
// unquoted versions like 1.0 as numbers, so required fields accept any
// scalar shape.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// optionalString applies the "absent or non-string means empty" policy.
func optionalString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// stringList coerces the raw tags value. A present but non-list value
// (for example a bare string) yields an empty list. Scalar elements are
// rendered as strings; anything else is dropped.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case bool, int, int64, uint64, float64:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

// intValue coerces the raw stars value to an integer, with invalid input
// mapping to 0 rather than rejecting the entry.
func intValue(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
