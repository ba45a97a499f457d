package main

import (
	"errors"
	"fmt"
	"os"

	"material-copier/internal/copier"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, copier.ErrNoRoot) {
			fmt.Fprintln(os.Stderr, "Error: please assign a target scene (--scene or the scene config key).")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
