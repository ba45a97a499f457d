package copier

import (
	"fmt"
	"path"

	"material-copier/internal/asset"
)

// CopyMap maps an original material to its copy within one run.
type CopyMap map[*asset.Material]*asset.Material

// MaterialCopy records one duplicated material.
type MaterialCopy struct {
	Source *asset.Material
	Copy   *asset.Material
}

// TextureCopy records one duplicated texture file.
type TextureCopy struct {
	Source string
	Dest   string
}

// Duplication is the bookkeeping of a single run. It holds at most one copy
// per original material and per source texture path.
type Duplication struct {
	Copies    CopyMap
	Materials []MaterialCopy // creation order
	Textures  []TextureCopy  // creation order
	textures  map[string]string
}

// Duplicate copies every selected material once, no matter how many nodes
// or slots reference it, and flushes the store.
func (e *Engine) Duplicate(sel Selection, opts Options) (*Duplication, error) {
	if opts.TargetPath == "" || opts.Suffix == "" {
		return nil, fmt.Errorf("copier: duplicate: target path and suffix are required")
	}
	folder := path.Join(opts.TargetPath, materialsDir)
	if err := e.ensureFolder(folder); err != nil {
		return nil, err
	}

	// Paths of originals are never written over.
	claimed := make(map[string]bool)
	for _, m := range sel.Materials() {
		if m.Path != "" {
			claimed[m.Path] = true
		}
	}

	dup := &Duplication{
		Copies:   make(CopyMap),
		textures: make(map[string]string),
	}
	for _, entry := range sel {
		for i, m := range entry.Materials {
			if !entry.Selected[i] {
				continue
			}
			if c, ok := dup.Copies[m]; ok {
				e.logger.Debug("reusing material copy", "node", entry.Path, "source", m.Path, "copy", c.Path)
				continue
			}

			dst := materialDest(folder, m, opts.Suffix, claimed)
			c, err := e.store.CreateAssetCopy(m)
			if err != nil {
				return nil, fmt.Errorf("copier: %w", err)
			}
			e.store.PersistAt(c, dst)
			claimed[dst] = true

			dup.Copies[m] = c
			dup.Materials = append(dup.Materials, MaterialCopy{Source: m, Copy: c})
			e.logger.Debug("copied material", "node", entry.Path, "source", m.Path, "copy", dst)
		}
	}

	if err := e.store.Flush(); err != nil {
		return nil, fmt.Errorf("copier: flush materials: %w", err)
	}
	return dup, nil
}

// materialDest returns <folder>/<name>_<suffix>.mat. A file left by an
// earlier run is overwritten; a path already claimed in this run gets
// prefixed with "_" until free.
func materialDest(folder string, m *asset.Material, suffix string, claimed map[string]bool) string {
	name := m.Name()
	if name == "" {
		name = m.GUID
	}
	stem := name + "_" + suffix
	dst := path.Join(folder, stem+asset.MaterialExt)
	for claimed[dst] {
		stem = "_" + stem
		dst = path.Join(folder, stem+asset.MaterialExt)
	}
	return dst
}
