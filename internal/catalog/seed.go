package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in bootstrap catalog.
func DefaultSeed() ([]MediaItem, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed reads a bootstrap catalog from a YAML file. An empty path means the
// built-in one.
func LoadSeed(path string) ([]MediaItem, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML list of items. Items without a kind are movies and
// items without a source kind are remote.
func ParseSeed(data []byte) ([]MediaItem, error) {
	var items []MediaItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i := range items {
		if items[i].Kind == "" {
			items[i].Kind = KindMovie
		}
		if items[i].Source.Kind == "" {
			items[i].Source.Kind = SourceRemote
		}
		if items[i].Genres == nil {
			items[i].Genres = []string{}
		}
	}
	return items, nil
}
