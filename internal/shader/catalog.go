// Package shader reflects over shader declarations loaded from a catalog file.
package shader

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// PropertyType is the declared type of a shader property.
type PropertyType string

const (
	Texture PropertyType = "texture"
	Float   PropertyType = "float"
	Range   PropertyType = "range"
	Color   PropertyType = "color"
	Vector  PropertyType = "vector"
)

// Property is one declared shader property.
type Property struct {
	Name string       `toml:"name"`
	Type PropertyType `toml:"type"`
}

// Shader is a named set of properties in declaration order.
type Shader struct {
	Name       string     `toml:"name"`
	Properties []Property `toml:"property"`
}

type catalogFile struct {
	Shaders []Shader `toml:"shader"`
}

// Catalog answers property queries for known shaders.
type Catalog struct {
	shaders map[string]Shader
}

// NewCatalog builds a catalog from shader declarations. Later duplicates
// of a name replace earlier ones.
func NewCatalog(shaders ...Shader) *Catalog {
	c := &Catalog{shaders: make(map[string]Shader, len(shaders))}
	for _, sh := range shaders {
		c.shaders[sh.Name] = sh
	}
	return c
}

// Load reads a TOML shader catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: read %s: %w", path, err)
	}
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("shader: parse %s: %w", path, err)
	}
	for _, sh := range f.Shaders {
		if sh.Name == "" {
			return nil, fmt.Errorf("shader: parse %s: shader without name", path)
		}
		for _, p := range sh.Properties {
			switch p.Type {
			case Texture, Float, Range, Color, Vector:
			default:
				return nil, fmt.Errorf("shader: %s: property %s has unknown type %q", sh.Name, p.Name, p.Type)
			}
		}
	}
	return NewCatalog(f.Shaders...), nil
}

// TexturePropertyNames returns the texture-typed properties of a shader in
// declaration order. Unknown shaders have none.
func (c *Catalog) TexturePropertyNames(shader string) []string {
	sh, ok := c.shaders[shader]
	if !ok {
		return nil
	}
	var names []string
	for _, p := range sh.Properties {
		if p.Type == Texture {
			names = append(names, p.Name)
		}
	}
	return names
}

// Names returns all shader names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.shaders))
	for n := range c.shaders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a shader declaration by name.
func (c *Catalog) Lookup(name string) (Shader, bool) {
	sh, ok := c.shaders[name]
	return sh, ok
}
