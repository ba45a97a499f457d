package main

import (
	"fmt"

	"material-copier/internal/copier"

	"github.com/spf13/cobra"
)

var discoverOpts struct {
	only    []string
	exclude []string
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the materials used by each node of the scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		sel, err := copier.Discover(s.root)
		if err != nil {
			return err
		}
		if err := applySelection(sel, discoverOpts.only, discoverOpts.exclude); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printSelection(out, sel)
		fmt.Fprintf(out, "\n%d nodes, %d distinct materials, %d selected\n",
			len(sel), len(sel.Materials()), sel.Count())
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringArrayVar(&discoverOpts.only, "only", nil, "select only node[:material] (repeatable)")
	discoverCmd.Flags().StringArrayVar(&discoverOpts.exclude, "exclude", nil, "deselect node[:material] (repeatable)")
}
