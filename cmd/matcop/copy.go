package main

import (
	"fmt"
	"path"

	"material-copier/internal/copier"
	"material-copier/internal/preview"
	"material-copier/internal/report"
	"material-copier/internal/scene"

	"github.com/spf13/cobra"
)

var copyOpts struct {
	only    []string
	exclude []string
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the selected materials and rebind the scene onto the copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		sel, err := copier.Discover(s.root)
		if err != nil {
			return err
		}
		if err := applySelection(sel, copyOpts.only, copyOpts.exclude); err != nil {
			return err
		}
		if sel.Count() == 0 {
			s.logger.Warn("nothing selected")
			return nil
		}

		catalog, err := loadShaders(s.cfg, s.logger)
		if err != nil {
			return err
		}
		engine := copier.New(s.store, catalog, s.logger.WithPrefix("copier"))
		res, err := engine.Run(s.root, sel, copier.Options{
			TargetPath:   s.cfg.TargetPath,
			Suffix:       s.cfg.Suffix,
			CopyTextures: s.cfg.CopyTextures,
		})
		if err != nil {
			return err
		}
		if err := scene.Save(s.cfg.Scene, s.root); err != nil {
			return err
		}

		previews := make(map[string]string)
		if s.cfg.Previews && len(res.Textures) > 0 {
			dests := make([]string, len(res.Textures))
			for i, tc := range res.Textures {
				dests[i] = tc.Dest
			}
			results := preview.Run(preview.Config{
				StoreRoot: s.store.Root(),
				OutputDir: path.Join(res.Target, preview.Dir),
				Size:      s.cfg.PreviewSize,
				Workers:   s.cfg.Workers,
				Logger:    s.logger.WithPrefix("preview"),
			}, dests)
			for _, r := range results {
				switch {
				case r.Success:
					previews[r.Source] = r.Output
				case r.Skipped:
					s.logger.Debug("no preview for format", "texture", r.Source)
				default:
					s.logger.Warn("preview failed", "texture", r.Source, "err", r.Error)
				}
			}
		}

		manifestPath := s.store.Abs(path.Join(res.Target, report.FileName))
		if err := report.Write(manifestPath, report.Build(s.root.Name, s.cfg.Suffix, res, previews)); err != nil {
			s.logger.Warn("manifest write failed", "err", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Selected materials have been copied and applied.")
		fmt.Fprintf(out, "Materials: %d, Textures: %d, Slots rebound: %d\n",
			len(res.Materials), len(res.Textures), res.Rebound)
		fmt.Fprintf(out, "Target: %s\n\n", res.Target)
		printSelection(out, res.Selection)
		return nil
	},
}

func init() {
	copyCmd.Flags().StringArrayVar(&copyOpts.only, "only", nil, "select only node[:material] (repeatable)")
	copyCmd.Flags().StringArrayVar(&copyOpts.exclude, "exclude", nil, "deselect node[:material] (repeatable)")
	copyCmd.Flags().StringVar(&flags.TargetPath, "target", "", "store folder for the copies (default: RC_MatCop/<root name>)")
	copyCmd.Flags().StringVar(&flags.Suffix, "suffix", "", "suffix appended to copied file names (default: copy)")
	copyCmd.Flags().BoolVar(&flags.CopyTextures, "textures", false, "also copy the textures of copied materials")
	copyCmd.Flags().BoolVar(&flags.Previews, "previews", false, "write WebP previews of copied textures")
	copyCmd.Flags().IntVar(&flags.Workers, "workers", 0, "preview worker goroutines (default: NumCPU)")
}
