package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var shadersCmd = &cobra.Command{
	Use:   "shaders",
	Short: "List the shader catalog and each shader's texture properties",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := loadShaders(cfg, newLogger())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range catalog.Names() {
			props := catalog.TexturePropertyNames(name)
			if len(props) == 0 {
				fmt.Fprintf(out, "%s\n", nodeStyle.Render(name))
				continue
			}
			fmt.Fprintf(out, "%s  %s\n", nodeStyle.Render(name), strings.Join(props, ", "))
		}
		return nil
	},
}
