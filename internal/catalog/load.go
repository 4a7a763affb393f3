package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type fileCatalog struct {
	Activities []Item `yaml:"activities"`
}

// Parse decodes a YAML catalog document. Items must carry a name and every
// pattern must compile.
func Parse(data []byte) ([]Item, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, item := range doc.Activities {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("catalog item %d: name is required", i)
		}
		for _, expr := range item.Patterns {
			if _, err := regexp.Compile(expr); err != nil {
				return nil, fmt.Errorf("catalog item %q: pattern %q: %w", item.Name, expr, err)
			}
		}
	}
	return doc.Activities, nil
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() []Item {
	items, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return items
}

// Open builds the index for path, or for the built-in catalog when path is
// empty. A catalog that cannot be read or parsed yields an empty index
// together with the error so callers can report it and keep running.
func Open(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return Build(Default()), nil
	}
	items, err := LoadFile(path)
	if err != nil {
		return Build(nil), errors.Join(errors.New("catalog unavailable, using empty alias index"), err)
	}
	return Build(items), nil
}
