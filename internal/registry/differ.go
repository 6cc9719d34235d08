package registry

import "reflect"

// FieldChange records an old and new value for a single field of an
// updated entry.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// DiffResult classifies every name of two registry snapshots. Entries
// identical in both snapshots appear in none of the collections.
type DiffResult struct {
	Added   map[string]Entry
	Removed map[string]Entry
	Updated map[string]map[string]FieldChange
}

// Empty reports whether the diff carries no changes at all.
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0
}

// Diff compares a previously published registry against a freshly
// synthesized one. For names present in both, the change set covers the
// union of field names on either side, restricted to fields whose values
// actually differ.
func Diff(old, current Registry) DiffResult {
	result := DiffResult{
		Added:   map[string]Entry{},
		Removed: map[string]Entry{},
		Updated: map[string]map[string]FieldChange{},
	}

	for name, entry := range current {
		oldEntry, ok := old[name]
		if !ok {
			result.Added[name] = entry
			continue
		}

		oldFields := oldEntry.Fields()
		newFields := entry.Fields()
		changes := map[string]FieldChange{}
		for field := range fieldUnion(oldFields, newFields) {
			oldVal := oldFields[field]
			newVal := newFields[field]
			if !reflect.DeepEqual(oldVal, newVal) {
				changes[field] = FieldChange{Old: oldVal, New: newVal}
			}
		}
		if len(changes) > 0 {
			result.Updated[name] = changes
		}
	}

	for name, entry := range old {
		if _, ok := current[name]; !ok {
			result.Removed[name] = entry
		}
	}

	return result
}

func fieldUnion(a, b map[string]any) map[string]struct{} {
	union := make(map[string]struct{}, len(a))
	for k := range a {
		union[k] = struct{}{}
	}
	for k := range b {
		union[k] = struct{}{}
	}
	return union
}
