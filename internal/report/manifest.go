package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"material-copier/internal/copier"
)

// FileName is the manifest name written inside a run's target folder.
const FileName = "manifest.json"

// MaterialEntry represents one copied material in the manifest.
type MaterialEntry struct {
	Source     string `json:"source"`
	SourceGUID string `json:"source_guid"`
	Copy       string `json:"copy"`
	CopyGUID   string `json:"copy_guid"`
}

// TextureEntry represents one copied texture in the manifest.
type TextureEntry struct {
	Source  string `json:"source"`
	Copy    string `json:"copy"`
	Preview string `json:"preview,omitempty"`
}

// Manifest describes the outcome of one run.
type Manifest struct {
	Root      string          `json:"root"`
	Target    string          `json:"target"`
	Suffix    string          `json:"suffix"`
	CreatedAt time.Time       `json:"created_at"`
	Rebound   int             `json:"slots_rebound"`
	Materials []MaterialEntry `json:"materials"`
	Textures  []TextureEntry  `json:"textures"`
}

// Build converts a run result into a manifest. previews maps a copied
// texture path to its preview path.
func Build(rootName, suffix string, res *copier.Result, previews map[string]string) Manifest {
	m := Manifest{
		Root:      rootName,
		Target:    res.Target,
		Suffix:    suffix,
		CreatedAt: time.Now().UTC(),
		Rebound:   res.Rebound,
		Materials: make([]MaterialEntry, len(res.Materials)),
		Textures:  make([]TextureEntry, len(res.Textures)),
	}
	for i, mc := range res.Materials {
		m.Materials[i] = MaterialEntry{
			Source:     mc.Source.Path,
			SourceGUID: mc.Source.GUID,
			Copy:       mc.Copy.Path,
			CopyGUID:   mc.Copy.GUID,
		}
	}
	for i, tc := range res.Textures {
		m.Textures[i] = TextureEntry{Source: tc.Source, Copy: tc.Dest, Preview: previews[tc.Dest]}
	}
	return m
}

// Write writes the manifest as indented JSON, creating parent folders.
func Write(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
