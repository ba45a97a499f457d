package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. MATCOP_SUFFIX.
	EnvPrefix = "MATCOP"
	// ShaderCatalogFile is the default catalog name inside the store root.
	ShaderCatalogFile = "shaders.toml"
)

// Config holds store locations and run settings.
type Config struct {
	// Paths
	StoreRoot     string `mapstructure:"store_root"`
	Scene         string `mapstructure:"scene"`
	ShaderCatalog string `mapstructure:"shader_catalog"`
	TargetPath    string `mapstructure:"target_path"` // store-relative, empty = RC_MatCop/<root>

	// Run settings
	Suffix       string `mapstructure:"suffix"`
	CopyTextures bool   `mapstructure:"copy_textures"`
	Previews     bool   `mapstructure:"previews"`
	PreviewSize  int    `mapstructure:"preview_size"`
	Workers      int    `mapstructure:"workers"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"store_root", "scene", "shader_catalog", "target_path", "suffix"} {
		v.SetDefault(key, "")
	}
	v.SetDefault("copy_textures", false)
	v.SetDefault("previews", false)
	v.SetDefault("preview_size", 0)
	v.SetDefault("workers", 0)
	return v
}

// Load reads a TOML, JSON or YAML config file, with MATCOP_* environment
// overrides. An empty path loads only the environment.
// Fields not set anywhere keep their zero values.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.StoreRoot != "" {
		c.StoreRoot = flags.StoreRoot
	}
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.ShaderCatalog != "" {
		c.ShaderCatalog = flags.ShaderCatalog
	}
	if flags.TargetPath != "" {
		c.TargetPath = flags.TargetPath
	}
	if flags.Suffix != "" {
		c.Suffix = flags.Suffix
	}
	if flags.CopyTextures {
		c.CopyTextures = true
	}
	if flags.Previews {
		c.Previews = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.StoreRoot == "" {
		c.StoreRoot = detectStoreRoot()
	}
	if c.ShaderCatalog == "" {
		c.ShaderCatalog = filepath.Join(c.StoreRoot, ShaderCatalogFile)
	} else if !filepath.IsAbs(c.ShaderCatalog) {
		c.ShaderCatalog = filepath.Join(c.StoreRoot, c.ShaderCatalog)
	}
	c.TargetPath = filepath.ToSlash(c.TargetPath)

	if c.Suffix == "" {
		c.Suffix = "copy"
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 128
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	StoreRoot     string
	Scene         string
	ShaderCatalog string
	TargetPath    string
	Suffix        string
	CopyTextures  bool
	Previews      bool
	Workers       int
}

// detectStoreRoot prefers an Assets folder in the working directory.
func detectStoreRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	assets := filepath.Join(cwd, "Assets")
	if info, err := os.Stat(assets); err == nil && info.IsDir() {
		return assets
	}
	return cwd
}
