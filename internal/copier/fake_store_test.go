package copier

import (
	"fmt"
	"path"

	"material-copier/internal/asset"
)

// fakeStore is an in-memory Store that counts primitive calls.
type fakeStore struct {
	exists    map[string]bool
	indexed   map[string]*asset.Texture
	unindexed map[string]*asset.Texture
	materials map[string]*asset.Material
	dirty     map[string]*asset.Material
	noIndex   map[string]bool // extensions the index never picks up

	assetCopies int
	fileCopies  []string
	flushes     int
	refreshes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		exists:    make(map[string]bool),
		indexed:   make(map[string]*asset.Texture),
		unindexed: make(map[string]*asset.Texture),
		materials: make(map[string]*asset.Material),
		dirty:     make(map[string]*asset.Material),
		noIndex:   make(map[string]bool),
	}
}

func (s *fakeStore) addMaterial(p, shader string, textures map[string]string) *asset.Material {
	m := &asset.Material{GUID: "guid-" + p, Shader: shader, Path: p, Textures: textures}
	s.materials[p] = m
	s.exists[p] = true
	return m
}

func (s *fakeStore) addTexture(p string) {
	s.indexed[p] = &asset.Texture{Path: p, Format: path.Ext(p)[1:]}
	s.exists[p] = true
}

func (s *fakeStore) PathExists(p string) bool { return s.exists[p] }

func (s *fakeStore) CreateFolder(p string) error {
	s.exists[p] = true
	return nil
}

func (s *fakeStore) CreateAssetCopy(m *asset.Material) (*asset.Material, error) {
	s.assetCopies++
	dup := &asset.Material{GUID: fmt.Sprintf("copy-%d", s.assetCopies), Shader: m.Shader}
	for k, v := range m.Textures {
		dup.SetTexture(k, v)
	}
	return dup, nil
}

func (s *fakeStore) PersistAt(m *asset.Material, p string) {
	m.Path = p
	s.materials[p] = m
	s.dirty[p] = m
}

func (s *fakeStore) CopyFile(src, dst string) error {
	if !s.exists[src] {
		return fmt.Errorf("no such file %s", src)
	}
	s.fileCopies = append(s.fileCopies, src+"->"+dst)
	s.exists[dst] = true
	s.unindexed[dst] = &asset.Texture{Path: dst}
	return nil
}

func (s *fakeStore) LoadTexture(p string) (*asset.Texture, bool) {
	t, ok := s.indexed[p]
	return t, ok
}

func (s *fakeStore) Flush() error {
	s.flushes++
	for p := range s.dirty {
		s.exists[p] = true
		delete(s.dirty, p)
	}
	return nil
}

func (s *fakeStore) RefreshIndex() {
	s.refreshes++
	for p, t := range s.unindexed {
		if s.noIndex[path.Ext(p)] {
			continue
		}
		s.indexed[p] = t
		delete(s.unindexed, p)
	}
}

type fakeShaders map[string][]string

func (f fakeShaders) TexturePropertyNames(shader string) []string {
	return f[shader]
}
