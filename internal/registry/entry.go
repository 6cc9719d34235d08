// Package registry defines the extension registry data model and the
// operations that produce a publishable registry: entry normalization,
// snapshot diffing, deterministic content hashing, and JSON persistence.
package registry

// Entry is one normalized registry record for a single extension,
// keyed by Name in a Registry.
type Entry struct {
	Name        string   `json:"name"`
	Desc        string   `json:"desc"`
	Version     string   `json:"version"`
	Author      string   `json:"author"`
	Repo        string   `json:"repo"`
	DisplayName string   `json:"display_name"`
	SocialLink  string   `json:"social_link"`
	Tags        []string `json:"tags"`
	Logo        string   `json:"logo"`
	Pinned      bool     `json:"pinned"`
	Stars       int      `json:"stars"`
	UpdatedAt   string   `json:"updated_at"`
}

// Registry maps extension name to its entry. Insertion order is irrelevant;
// the last writer for a given name wins.
type Registry map[string]Entry

// Fields returns the entry as a field-name keyed map, mirroring its JSON
// shape. Diffing and hashing operate on this representation so both see the
// same field set.
func (e Entry) Fields() map[string]any {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"name":         e.Name,
		"desc":         e.Desc,
		"version":      e.Version,
		"author":       e.Author,
		"repo":         e.Repo,
		"display_name": e.DisplayName,
		"social_link":  e.SocialLink,
		"tags":         tags,
		"logo":         e.Logo,
		"pinned":       e.Pinned,
		"stars":        e.Stars,
		"updated_at":   e.UpdatedAt,
	}
}
