package main

import (
	"fmt"
	"io"
	"strings"

	"material-copier/internal/copier"

	"github.com/charmbracelet/lipgloss"
)

var (
	nodeStyle = lipgloss.NewStyle().Bold(true)
	pathStyle = lipgloss.NewStyle().Faint(true)
)

// applySelection narrows the default all-selected state. Specs are
// "<node path>" or "<node path>:<material>", where the node path may be "*"
// and the material is a file name without extension or a store path.
// With any only-spec, everything is deselected first.
func applySelection(sel copier.Selection, only, exclude []string) error {
	if len(only) > 0 {
		sel.SetAll(false)
	}
	for _, spec := range only {
		if err := setSpec(sel, spec, true); err != nil {
			return err
		}
	}
	for _, spec := range exclude {
		if err := setSpec(sel, spec, false); err != nil {
			return err
		}
	}
	return nil
}

func setSpec(sel copier.Selection, spec string, selected bool) error {
	nodePath, matName, hasMat := strings.Cut(spec, ":")
	found := false
	for _, e := range sel {
		if nodePath != "*" && e.Path != nodePath {
			continue
		}
		if !hasMat {
			found = sel.SetNode(e.Node, selected) || found
			continue
		}
		for _, m := range e.Materials {
			if m.Name() == matName || m.Path == matName {
				found = sel.Set(e.Node, m, selected) || found
			}
		}
	}
	if !found {
		return fmt.Errorf("selection %q matches no node material", spec)
	}
	return nil
}

func printSelection(w io.Writer, sel copier.Selection) {
	for _, e := range sel {
		mark := "[ ]"
		if sel.AllSelected(e.Node) {
			mark = "[x]"
		} else {
			for _, v := range e.Selected {
				if v {
					mark = "[~]"
					break
				}
			}
		}
		fmt.Fprintf(w, "%s %s\n", mark, nodeStyle.Render(e.Path))
		for i, m := range e.Materials {
			mark := "[ ]"
			if e.Selected[i] {
				mark = "[x]"
			}
			fmt.Fprintf(w, "    %s %s %s\n", mark, m.Name(), pathStyle.Render(m.Path))
		}
	}
}
