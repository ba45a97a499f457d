package asset

import (
	"path"
	"strings"
)

// Material is a shader-parameterized resource persisted as a .mat file.
// Identity is the pointer: two references to the same file share one *Material.
type Material struct {
	GUID     string               `toml:"guid"`
	Shader   string               `toml:"shader"`
	Floats   map[string]float64   `toml:"floats,omitempty"`
	Colors   map[string][]float64 `toml:"colors,omitempty"`
	Textures map[string]string    `toml:"textures,omitempty"` // property → texture path, "" = unbound

	Path string `toml:"-"` // store-relative, empty until persisted
}

// Name returns the base file name of the material without extension.
func (m *Material) Name() string {
	return BaseName(m.Path)
}

// Texture returns the texture path bound to a property.
func (m *Material) Texture(prop string) (string, bool) {
	p, ok := m.Textures[prop]
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// SetTexture binds a texture path onto a property.
func (m *Material) SetTexture(prop, texPath string) {
	if m.Textures == nil {
		m.Textures = make(map[string]string)
	}
	m.Textures[prop] = texPath
}

// Texture is an image resource. Textures are never mutated, only copied.
type Texture struct {
	Path   string
	Format string // sniffed kind, e.g. "png", "tga"
	Size   int64
}

// Name returns the base file name of the texture without extension.
func (t *Texture) Name() string {
	return BaseName(t.Path)
}

// BaseName strips directory and extension from a store path.
func BaseName(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
