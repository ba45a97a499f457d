package main

import (
	"fmt"
	"os"

	"material-copier/internal/config"
	"material-copier/internal/copier"
	"material-copier/internal/scene"
	"material-copier/internal/shader"
	"material-copier/internal/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// verbose enables debug logging
	verbose bool
	// cfgFile is an optional config file
	cfgFile string
	// flags collects CLI overrides for the config file
	flags config.Flags

	rootCmd = &cobra.Command{
		Use:   "matcop",
		Short: "Copy the materials of a scene tree and rebind it onto the copies",
		Long: `matcop lists the materials used by a scene tree, duplicates the selected
ones (optionally with their textures) into a target folder of the asset
store, and points the selected node slots at the duplicates.

Examples:
  matcop discover --scene avatar.scene.toml
  matcop copy --scene avatar.scene.toml --suffix v2 --textures
  matcop copy --scene avatar.scene.toml --only Avatar/Body:skin --exclude '*:hair'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML, JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&flags.StoreRoot, "store", "", "asset store root (default: ./Assets or the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.Scene, "scene", "", "scene document to operate on")
	rootCmd.PersistentFlags().StringVar(&flags.ShaderCatalog, "shaders", "", "shader catalog (default: <store>/shaders.toml)")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(shadersCmd)
}

type session struct {
	cfg    config.Config
	logger *log.Logger
	store  *store.FS
	root   *scene.Node
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Resolve(flags)
	return cfg, nil
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "matcop"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openSession loads config, store and scene. A missing scene is reported
// as copier.ErrNoRoot before anything is touched.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Scene == "" {
		return nil, copier.ErrNoRoot
	}
	logger := newLogger()

	st, err := store.Open(cfg.StoreRoot, logger.WithPrefix("store"))
	if err != nil {
		return nil, err
	}
	root, err := scene.Load(cfg.Scene, st)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, store: st, root: root}, nil
}

// loadShaders returns the configured catalog, or an empty one when the
// file does not exist.
func loadShaders(cfg config.Config, logger *log.Logger) (*shader.Catalog, error) {
	if _, err := os.Stat(cfg.ShaderCatalog); os.IsNotExist(err) {
		logger.Warn("no shader catalog, textures will not be discovered", "path", cfg.ShaderCatalog)
		return shader.NewCatalog(), nil
	}
	catalog, err := shader.Load(cfg.ShaderCatalog)
	if err != nil {
		return nil, fmt.Errorf("load shader catalog: %w", err)
	}
	return catalog, nil
}
