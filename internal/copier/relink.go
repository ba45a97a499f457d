package copier

import (
	"fmt"
	"path"
	"strings"

	"material-copier/internal/asset"
)

type binding struct {
	mat  *asset.Material
	prop string
	dest string
}

// Relink copies the textures bound to each duplicated material and binds the
// copies onto the duplicate. A source texture is copied once per run even when
// several materials share it. Unbound properties and textures missing from the
// store are skipped.
func (e *Engine) Relink(dup *Duplication, opts Options) error {
	if len(dup.Materials) == 0 {
		return nil
	}
	folder := path.Join(opts.TargetPath, texturesDir)
	if err := e.ensureFolder(folder); err != nil {
		return err
	}

	claimed := make(map[string]bool)
	var pending []binding

	for _, mc := range dup.Materials {
		for _, prop := range e.texturePropertyNames(mc.Source.Shader) {
			src, ok := mc.Source.Texture(prop)
			if !ok {
				continue
			}
			tex, ok := e.lookupTexture(src)
			if !ok {
				e.logger.Debug("texture not found", "material", mc.Source.Path, "property", prop, "path", src)
				continue
			}

			dest, done := dup.textures[tex.Path]
			if !done {
				dest = e.textureDest(folder, tex, opts.Suffix, claimed)
				if err := e.store.CopyFile(tex.Path, dest); err != nil {
					return fmt.Errorf("copier: %w", err)
				}
				claimed[dest] = true
				dup.textures[tex.Path] = dest
				dup.Textures = append(dup.Textures, TextureCopy{Source: tex.Path, Dest: dest})
				e.logger.Debug("copied texture", "source", tex.Path, "copy", dest)
			} else {
				e.logger.Debug("reusing texture copy", "source", tex.Path, "copy", dest)
			}
			pending = append(pending, binding{mat: mc.Copy, prop: prop, dest: dest})
		}
	}

	if len(pending) == 0 {
		return nil
	}

	e.store.RefreshIndex()
	for _, b := range pending {
		tex, ok := e.lookupTexture(b.dest)
		if !ok {
			return fmt.Errorf("copier: copied texture %s is not loadable", b.dest)
		}
		b.mat.SetTexture(b.prop, tex.Path)
	}

	for _, mc := range dup.Materials {
		e.store.PersistAt(mc.Copy, mc.Copy.Path)
	}
	if err := e.store.Flush(); err != nil {
		return fmt.Errorf("copier: flush texture bindings: %w", err)
	}
	return nil
}

// lookupTexture resolves a bound path through the index, falling back to
// any file present in the store for formats the index does not know.
func (e *Engine) lookupTexture(p string) (*asset.Texture, bool) {
	if tex, ok := e.store.LoadTexture(p); ok {
		return tex, true
	}
	p = path.Clean(p)
	if !e.store.PathExists(p) {
		return nil, false
	}
	return &asset.Texture{Path: p, Format: strings.TrimPrefix(path.Ext(p), ".")}, true
}

func (e *Engine) texturePropertyNames(shader string) []string {
	if e.shaders == nil {
		return nil
	}
	return e.shaders.TexturePropertyNames(shader)
}

// textureDest returns <folder>/<name>_<suffix><ext>, prefixing the stem with
// "_" while the candidate exists in the store or was taken earlier in the run.
func (e *Engine) textureDest(folder string, tex *asset.Texture, suffix string, claimed map[string]bool) string {
	ext := path.Ext(tex.Path)
	stem := tex.Name() + "_" + suffix
	dst := path.Join(folder, stem+ext)
	for claimed[dst] || e.store.PathExists(dst) {
		stem = "_" + stem
		dst = path.Join(folder, stem+ext)
	}
	return dst
}
