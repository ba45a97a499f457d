package copier

import (
	"errors"

	"material-copier/internal/asset"
	"material-copier/internal/scene"
)

// ErrNoRoot is returned when an operation needs a target root and none was given.
var ErrNoRoot = errors.New("copier: no target root selected")

// Entry lists the distinct materials of one node with a selection flag per material.
type Entry struct {
	Node      *scene.Node
	Path      string // slash path of the node from the root
	Materials []*asset.Material
	Selected  []bool
}

// Selection is the per-node material state produced by Discover, in
// encounter order. Flags are plain values owned by the caller.
type Selection []Entry

// Discover walks root and lists, for every node with material slots, the
// distinct materials it references in first-occurrence order. Every flag
// starts selected.
func Discover(root *scene.Node) (Selection, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	var sel Selection
	root.Walk(func(p string, n *scene.Node) {
		if n.SlotCount() == 0 {
			return
		}
		e := Entry{Node: n, Path: p}
		seen := make(map[*asset.Material]bool)
		for _, m := range n.Materials() {
			if m == nil || seen[m] {
				continue
			}
			seen[m] = true
			e.Materials = append(e.Materials, m)
			e.Selected = append(e.Selected, true)
		}
		sel = append(sel, e)
	})
	return sel, nil
}

// Materials returns every distinct material used in the tree, in encounter order.
func (s Selection) Materials() []*asset.Material {
	var out []*asset.Material
	seen := make(map[*asset.Material]bool)
	for _, e := range s {
		for _, m := range e.Materials {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// SetAll sets every flag.
func (s Selection) SetAll(selected bool) {
	for _, e := range s {
		for i := range e.Selected {
			e.Selected[i] = selected
		}
	}
}

// SetNode sets every flag of one node. It reports whether the node was found.
func (s Selection) SetNode(n *scene.Node, selected bool) bool {
	e := s.entry(n)
	if e == nil {
		return false
	}
	for i := range e.Selected {
		e.Selected[i] = selected
	}
	return true
}

// Set sets the flag of material m on node n. It reports whether the pair was found.
func (s Selection) Set(n *scene.Node, m *asset.Material, selected bool) bool {
	e := s.entry(n)
	if e == nil {
		return false
	}
	for i, em := range e.Materials {
		if em == m {
			e.Selected[i] = selected
			return true
		}
	}
	return false
}

// IsSelected reports whether material m is selected on node n.
func (s Selection) IsSelected(n *scene.Node, m *asset.Material) bool {
	return s.entry(n).isSelected(m)
}

func (e *Entry) isSelected(m *asset.Material) bool {
	if e == nil {
		return false
	}
	for i, em := range e.Materials {
		if em == m {
			return e.Selected[i]
		}
	}
	return false
}

// AllSelected reports whether every flag of node n is set.
func (s Selection) AllSelected(n *scene.Node) bool {
	e := s.entry(n)
	if e == nil {
		return false
	}
	for _, v := range e.Selected {
		if !v {
			return false
		}
	}
	return true
}

// Count returns the number of set flags.
func (s Selection) Count() int {
	count := 0
	for _, e := range s {
		for _, v := range e.Selected {
			if v {
				count++
			}
		}
	}
	return count
}

// byNode indexes entries by node for repeated lookups.
func (s Selection) byNode() map[*scene.Node]*Entry {
	m := make(map[*scene.Node]*Entry, len(s))
	for i := range s {
		m[s[i].Node] = &s[i]
	}
	return m
}

func (s Selection) entry(n *scene.Node) *Entry {
	for i := range s {
		if s[i].Node == n {
			return &s[i]
		}
	}
	return nil
}
