package copier

import "material-copier/internal/scene"

// Rebind points slots at their copies and returns the number of slots changed.
// A slot is remapped only when its material is selected on that node; a nil
// selection remaps every slot whose material has a copy. Each node's slot
// array is rebuilt and written back once.
func Rebind(root *scene.Node, copies CopyMap, sel Selection) int {
	if root == nil || len(copies) == 0 {
		return 0
	}
	byNode := sel.byNode()
	count := 0
	root.Walk(func(_ string, n *scene.Node) {
		if n.SlotCount() == 0 {
			return
		}
		slots := n.Materials()
		changed := false
		for i, m := range slots {
			if m == nil {
				continue
			}
			c, ok := copies[m]
			if !ok {
				continue
			}
			if sel != nil && !byNode[n].isSelected(m) {
				continue
			}
			slots[i] = c
			changed = true
			count++
		}
		if changed {
			n.SetMaterials(slots)
		}
	})
	return count
}
