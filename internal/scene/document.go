package scene

import (
	"fmt"
	"os"

	"material-copier/internal/asset"

	"github.com/pelletier/go-toml/v2"
)

// MaterialLoader resolves material paths to shared instances.
type MaterialLoader interface {
	LoadMaterial(path string) (*asset.Material, error)
}

type document struct {
	Name      string     `toml:"name"`
	Materials []string   `toml:"materials,omitempty"`
	Children  []document `toml:"children,omitempty"`
}

// Load reads a TOML scene document. Material paths are resolved through
// loader and an empty path yields an empty slot.
func Load(path string, loader MaterialLoader) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("scene: parse %s: root has no name", path)
	}
	root, err := build(doc, loader)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return root, nil
}

func build(doc document, loader MaterialLoader) (*Node, error) {
	n := &Node{Name: doc.Name, slots: make([]*asset.Material, len(doc.Materials))}
	for i, p := range doc.Materials {
		if p == "" {
			continue
		}
		m, err := loader.LoadMaterial(p)
		if err != nil {
			return nil, fmt.Errorf("node %s slot %d: %w", doc.Name, i, err)
		}
		n.slots[i] = m
	}
	for _, c := range doc.Children {
		child, err := build(c, loader)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Save writes root as a TOML scene document, referencing materials by path.
func Save(path string, root *Node) error {
	doc, err := flatten(root)
	if err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("scene: encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

func flatten(n *Node) (document, error) {
	doc := document{Name: n.Name}
	for i, m := range n.slots {
		if m == nil {
			doc.Materials = append(doc.Materials, "")
			continue
		}
		if m.Path == "" {
			return document{}, fmt.Errorf("node %s slot %d: material was never persisted", n.Name, i)
		}
		doc.Materials = append(doc.Materials, m.Path)
	}
	for _, c := range n.Children {
		cd, err := flatten(c)
		if err != nil {
			return document{}, err
		}
		doc.Children = append(doc.Children, cd)
	}
	return doc, nil
}
