package texture

import (
	"io/fs"
	"path/filepath"
	"strings"

	"material-copier/internal/asset"

	"github.com/h2non/filetype"
)

// Extensions lists the file extensions treated as textures.
var Extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tga":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
	".psd":  true,
	".gif":  true,
	".exr":  true,
	".hdr":  true,
	".dds":  true,
	".ktx":  true,
	".ktx2": true,
}

// Index maps store-relative slash paths to texture resources.
type Index struct {
	entries map[string]*asset.Texture
}

// BuildIndex scans root recursively for texture files.
// Previously indexed textures keep their identity when prev is non-nil.
func BuildIndex(root string, prev *Index) *Index {
	idx := &Index{entries: make(map[string]*asset.Texture)}

	filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if !Extensions[ext] {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if prev != nil {
			if tex, ok := prev.entries[rel]; ok {
				idx.entries[rel] = tex
				return nil
			}
		}

		tex := &asset.Texture{Path: rel, Format: sniffFormat(p, ext)}
		if info, err := d.Info(); err == nil {
			tex.Size = info.Size()
		}
		idx.entries[rel] = tex
		return nil
	})

	return idx
}

// sniffFormat reads the file header; TGA has no magic number so
// unknown headers fall back to the extension.
func sniffFormat(p, ext string) string {
	kind, err := filetype.MatchFile(p)
	if err == nil && kind != filetype.Unknown {
		return kind.Extension
	}
	return strings.TrimPrefix(ext, ".")
}

// Lookup returns the texture at a store path, or (nil, false).
func (idx *Index) Lookup(p string) (*asset.Texture, bool) {
	tex, ok := idx.entries[p]
	return tex, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
