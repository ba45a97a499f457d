// Package copier duplicates the materials used by a node tree, optionally
// with their textures, and rebinds the tree onto the duplicates.
//
// A run goes Discover → (caller edits the Selection) → Duplicate → Relink →
// Rebind → Discover. All per-run bookkeeping lives in a Duplication value
// and is dropped when the run returns.
package copier

import (
	"fmt"
	"io"
	"path"

	"material-copier/internal/asset"
	"material-copier/internal/scene"

	"github.com/charmbracelet/log"
)

const (
	// DefaultSuffix is appended to copied file names.
	DefaultSuffix = "copy"
	// DefaultTargetDir is the store folder that holds per-root targets.
	DefaultTargetDir = "RC_MatCop"

	materialsDir = "Materials"
	texturesDir  = "Textures"
)

// Store is the persistent asset store a run reads from and writes to.
type Store interface {
	PathExists(p string) bool
	CreateFolder(p string) error
	CreateAssetCopy(m *asset.Material) (*asset.Material, error)
	PersistAt(m *asset.Material, p string)
	CopyFile(src, dst string) error
	LoadTexture(p string) (*asset.Texture, bool)
	Flush() error
	RefreshIndex()
}

// Reflector lists the texture-typed properties a shader declares, in order.
type Reflector interface {
	TexturePropertyNames(shader string) []string
}

// Options configures one run.
type Options struct {
	TargetPath   string // store folder receiving Materials/ and Textures/
	Suffix       string
	CopyTextures bool
}

// DefaultTargetPath returns the target folder used for a root named rootName.
func DefaultTargetPath(rootName string) string {
	return path.Join(DefaultTargetDir, rootName)
}

func (o Options) withDefaults(rootName string) Options {
	if o.TargetPath == "" {
		o.TargetPath = DefaultTargetPath(rootName)
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	return o
}

// Engine executes runs against a store. Runs are synchronous and must not overlap.
type Engine struct {
	store   Store
	shaders Reflector
	logger  *log.Logger
}

// New creates an engine. A nil reflector disables texture discovery and a
// nil logger discards output.
func New(store Store, shaders Reflector, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{store: store, shaders: shaders, logger: logger}
}

// Result summarizes a completed run.
type Result struct {
	Target    string
	Materials []MaterialCopy
	Textures  []TextureCopy
	Rebound   int       // slots that now point at a copy
	Selection Selection // rediscovered state of the tree, all selected
}

// Run duplicates the selected materials of root, relinks their textures when
// enabled, rebinds the selected slots and rediscovers the tree.
// A failure part-way leaves already flushed copies in the store.
func (e *Engine) Run(root *scene.Node, sel Selection, opts Options) (*Result, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	opts = opts.withDefaults(root.Name)

	dup, err := e.Duplicate(sel, opts)
	if err != nil {
		return nil, err
	}
	if opts.CopyTextures {
		if err := e.Relink(dup, opts); err != nil {
			return nil, err
		}
	}

	rebound := Rebind(root, dup.Copies, sel)

	refreshed, err := Discover(root)
	if err != nil {
		return nil, err
	}

	e.logger.Info("run complete",
		"target", opts.TargetPath,
		"materials", len(dup.Materials),
		"textures", len(dup.Textures),
		"slots", rebound)

	return &Result{
		Target:    opts.TargetPath,
		Materials: dup.Materials,
		Textures:  dup.Textures,
		Rebound:   rebound,
		Selection: refreshed,
	}, nil
}

func (e *Engine) ensureFolder(p string) error {
	if e.store.PathExists(p) {
		return nil
	}
	if err := e.store.CreateFolder(p); err != nil {
		return fmt.Errorf("copier: %w", err)
	}
	return nil
}
