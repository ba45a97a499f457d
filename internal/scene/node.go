// Package scene holds the node hierarchy whose material slots get rebound.
package scene

import "material-copier/internal/asset"

// Node is an entity in a hierarchy with an ordered list of material slots.
// A nil slot is empty.
type Node struct {
	Name     string
	Children []*Node

	slots []*asset.Material
}

// New creates a node holding the given material slots.
func New(name string, slots ...*asset.Material) *Node {
	return &Node{Name: name, slots: append([]*asset.Material(nil), slots...)}
}

// Add appends child and returns it.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Materials returns a copy of the slot array.
func (n *Node) Materials() []*asset.Material {
	return append([]*asset.Material(nil), n.slots...)
}

// SetMaterials replaces the whole slot array.
func (n *Node) SetMaterials(slots []*asset.Material) {
	n.slots = append([]*asset.Material(nil), slots...)
}

// SlotCount returns the number of material slots.
func (n *Node) SlotCount() int {
	return len(n.slots)
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(path string, node *Node)) {
	n.walk(n.Name, fn)
}

func (n *Node) walk(path string, fn func(string, *Node)) {
	fn(path, n)
	for _, c := range n.Children {
		c.walk(path+"/"+c.Name, fn)
	}
}

// Find returns the descendant at a slash path such as "Avatar/Body",
// where the first element names n itself.
func (n *Node) Find(path string) *Node {
	var found *Node
	n.Walk(func(p string, node *Node) {
		if found == nil && p == path {
			found = node
		}
	})
	return found
}
