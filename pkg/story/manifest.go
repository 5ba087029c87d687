package story

import "encoding/json"

// Manifest lists the stories a source offers.
type Manifest struct {
	DefaultStoryID string `json:"defaultStoryId,omitempty"`
	Stories        []Info `json:"stories"`
}

// Info is per-story metadata from the manifest.
type Info struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Estimate string `json:"estimate,omitempty"`
	File     string `json:"file"`
	Thumb    string `json:"thumb,omitempty"`
}

// ParseManifest decodes a stories manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &SchemaError{Msg: "invalid stories manifest", Err: err}
	}
	return &m, nil
}

// Find returns the entry for id, or false if the manifest does not list it.
func (m *Manifest) Find(id string) (*Info, bool) {
	for i := range m.Stories {
		if m.Stories[i].ID == id {
			return &m.Stories[i], true
		}
	}
	return nil, false
}

// Default returns the manifest's default story entry: the declared
// defaultStoryId if it resolves, otherwise the first listed story.
func (m *Manifest) Default() (*Info, bool) {
	if m.DefaultStoryID != "" {
		if info, ok := m.Find(m.DefaultStoryID); ok {
			return info, true
		}
	}
	if len(m.Stories) > 0 {
		return &m.Stories[0], true
	}
	return nil, false
}
