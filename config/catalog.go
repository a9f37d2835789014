package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog lists the options offered to the generator and the models it may call
type Catalog struct {
	Categories       []string `yaml:"categories" json:"categories"`
	Styles           []string `yaml:"styles" json:"styles"`
	Preferences      []string `yaml:"preferences" json:"preferences"`
	Models           []string `yaml:"models" json:"models"`
	PantryCategories []string `yaml:"pantry_categories" json:"pantry_categories"`
}

// LoadCatalog reads the catalog at path, or the embedded default when path is empty
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	source := "embedded catalog"

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve catalog path: %w", err)
		}
		if data, err = os.ReadFile(absPath); err != nil {
			return nil, fmt.Errorf("read catalog file %q: %w", absPath, err)
		}
		source = absPath
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return &catalog, nil
}

// Validate rejects blank entries and an empty model list
func (c *Catalog) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("at least one model must be configured")
	}
	lists := map[string][]string{
		"categories":        c.Categories,
		"styles":            c.Styles,
		"preferences":       c.Preferences,
		"models":            c.Models,
		"pantry_categories": c.PantryCategories,
	}
	for name, list := range lists {
		for _, item := range list {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("%s: entries must not be empty", name)
			}
		}
	}
	return nil
}

// AllowsModel reports whether model is one of the configured identifiers
func (c *Catalog) AllowsModel(model string) bool {
	return model != "" && slices.Contains(c.Models, model)
}
