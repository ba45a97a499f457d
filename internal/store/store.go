// Package store is the filesystem-backed asset store. Paths handed to and
// returned by the store are slash-separated and relative to its root.
package store

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"material-copier/internal/asset"
	"material-copier/internal/texture"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// FS persists materials and textures under a root directory.
// It is not safe for concurrent use.
type FS struct {
	root      string
	materials map[string]*asset.Material // path → loaded or persisted material
	dirty     map[string]*asset.Material // pending writes, flushed by Flush
	index     *texture.Index
	logger    *log.Logger
}

// Open returns a store rooted at dir and indexes its textures.
func Open(dir string, logger *log.Logger) (*FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store: open %s: not a directory", dir)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &FS{
		root:      dir,
		materials: make(map[string]*asset.Material),
		dirty:     make(map[string]*asset.Material),
		logger:    logger,
	}
	s.RefreshIndex()
	return s, nil
}

// Root returns the directory backing the store.
func (s *FS) Root() string {
	return s.root
}

// Abs converts a store path to an OS path.
func (s *FS) Abs(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean(p)))
}

// PathExists reports whether p exists on disk or has a pending material write.
func (s *FS) PathExists(p string) bool {
	if _, ok := s.dirty[path.Clean(p)]; ok {
		return true
	}
	_, err := os.Stat(s.Abs(p))
	return err == nil
}

// CreateFolder creates p and any missing parents.
func (s *FS) CreateFolder(p string) error {
	if err := os.MkdirAll(s.Abs(p), 0755); err != nil {
		return fmt.Errorf("store: create folder %s: %w", p, err)
	}
	return nil
}

// LoadMaterial returns the material at p. Repeated loads of the same path
// return the same instance.
func (s *FS) LoadMaterial(p string) (*asset.Material, error) {
	p = path.Clean(p)
	if m, ok := s.materials[p]; ok {
		return m, nil
	}
	data, err := os.ReadFile(s.Abs(p))
	if err != nil {
		return nil, fmt.Errorf("store: read material %s: %w", p, err)
	}
	m, err := asset.DecodeMaterial(data)
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", p, err)
	}
	if m.GUID == "" {
		m.GUID = uuid.NewString()
	}
	m.Path = p
	s.materials[p] = m
	return m, nil
}

// CreateAssetCopy returns a deep value copy of m with its own identity.
// The copy has no path until PersistAt is called.
func (s *FS) CreateAssetCopy(m *asset.Material) (*asset.Material, error) {
	var dup asset.Material
	if err := copier.CopyWithOption(&dup, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("store: copy material %s: %w", m.Path, err)
	}
	dup.GUID = uuid.NewString()
	dup.Path = ""
	return &dup, nil
}

// PersistAt binds m to p and schedules it for writing. An existing
// material at p is replaced.
func (s *FS) PersistAt(m *asset.Material, p string) {
	p = path.Clean(p)
	m.Path = p
	s.materials[p] = m
	s.dirty[p] = m
}

// Flush writes every pending material to disk. Each file is written to a
// temporary sibling and renamed into place.
func (s *FS) Flush() error {
	paths := make([]string, 0, len(s.dirty))
	for p := range s.dirty {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := s.writeMaterial(s.dirty[p]); err != nil {
			return err
		}
		delete(s.dirty, p)
	}
	if len(paths) > 0 {
		s.logger.Debug("flushed materials", "count", len(paths))
	}
	return nil
}

func (s *FS) writeMaterial(m *asset.Material) error {
	data, err := asset.EncodeMaterial(m)
	if err != nil {
		return err
	}
	dst := s.Abs(m.Path)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("store: write %s: %w", m.Path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".mat-*")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", m.Path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", m.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", m.Path, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", m.Path, err)
	}
	return nil
}

// CopyFile copies the file at src to dst, creating parent folders.
func (s *FS) CopyFile(src, dst string) error {
	in, err := os.Open(s.Abs(src))
	if err != nil {
		return fmt.Errorf("store: copy %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(s.Abs(dst)), 0755); err != nil {
		return fmt.Errorf("store: copy %s: %w", src, err)
	}
	out, err := os.Create(s.Abs(dst))
	if err != nil {
		return fmt.Errorf("store: copy %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("store: copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("store: copy %s to %s: %w", src, dst, err)
	}
	s.logger.Debug("copied file", "src", src, "dst", dst)
	return nil
}

// LoadTexture returns the indexed texture at p. Files copied since the last
// RefreshIndex are not visible.
func (s *FS) LoadTexture(p string) (*asset.Texture, bool) {
	return s.index.Lookup(path.Clean(p))
}

// RefreshIndex rescans the root for texture files.
func (s *FS) RefreshIndex() {
	s.index = texture.BuildIndex(s.root, s.index)
	s.logger.Debug("indexed textures", "count", s.index.Len())
}
