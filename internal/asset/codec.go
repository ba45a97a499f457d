package asset

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// MaterialExt is the file extension of persisted materials.
const MaterialExt = ".mat"

// DecodeMaterial parses a TOML material document.
func DecodeMaterial(data []byte) (*Material, error) {
	var m Material
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("asset: parse material: %w", err)
	}
	if m.Shader == "" {
		return nil, fmt.Errorf("asset: material has no shader")
	}
	return &m, nil
}

// EncodeMaterial renders a material as a TOML document.
func EncodeMaterial(m *Material) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("asset: encode material %s: %w", m.Path, err)
	}
	return data, nil
}
