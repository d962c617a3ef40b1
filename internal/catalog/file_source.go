package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a seed catalog. Files ending in .yaml/.yml are YAML, every
// other file is JSON. The document is a list of root categories.
func LoadFile(path string) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read seed file: %w", err)
	}
	roots, err := DecodeSeed(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewMemorySource(roots), nil
}

// DecodeSeed decodes a seed document; ext selects the format.
func DecodeSeed(data []byte, ext string) ([]*Category, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: decode yaml seed: %w", err)
		}
		// round-trip through JSON so modal_config keeps its raw form
		encoded, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("catalog: normalize yaml seed: %w", err)
		}
		data = encoded
	}

	var roots []*Category
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("catalog: decode seed: %w", err)
	}
	return roots, nil
}
