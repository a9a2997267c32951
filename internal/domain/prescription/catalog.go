package prescription

import (
	"encoding/json"
	"fmt"
	"os"
)

// Catalog is the static medicine and bundle reference data. Loaded once
// at startup, read-only afterwards.
type Catalog struct {
	Medicines []string            `json:"medicines"`
	Bundles   map[string][]string `json:"bundles"`
}

// DefaultCatalog returns the built-in reference data used when no
// catalog file is configured.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Medicines: []string{
			"NAD+ Injection",
			"Sermorelin",
			"Tesamorelin",
			"Glutathione",
			"Methylcobalamin B12",
			"Lipotropic MIC+B12",
			"Tadalafil",
			"Sildenafil",
		},
		Bundles: map[string][]string{
			"Longevity Bundle":   {"NAD+ Injection", "Glutathione", "Methylcobalamin B12"},
			"Performance Bundle": {"Sermorelin", "Lipotropic MIC+B12"},
		},
	}
}

// LoadCatalog reads catalog JSON from path, or returns the defaults when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if c.Bundles == nil {
		c.Bundles = map[string][]string{}
	}
	return &c, nil
}

// IsBundle reports whether name is a known bundle.
func (c *Catalog) IsBundle(name string) bool {
	_, ok := c.Bundles[name]
	return ok
}

// BundleContents returns the medicines a bundle contains, or nil for an
// unknown bundle.
func (c *Catalog) BundleContents(name string) []string {
	return c.Bundles[name]
}
