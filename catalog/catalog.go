// Package catalog describes badge catalogs of the Pond contract.
//
// Catalog is written in YAML and passed to the contract as deploy data, see
// Catalog.DeployData.
//
//	badges:
//	  - id: 1
//	    category: defi
//	    threshold: 25
//	    name: DeFi Pioneer
//	    description: Achieved 25 reputation in DeFi
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Badge is a catalog entry.
type Badge struct {
	ID          int      `yaml:"id"`
	Category    Category `yaml:"category"`
	Threshold   int      `yaml:"threshold"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
}

// Catalog is a set of badges available for minting.
type Catalog struct {
	Badges []Badge `yaml:"badges"`
}

// ErrInvalid is returned for catalogs the contract refuses to install.
var ErrInvalid = errors.New(pondconst.ErrInvalidCatalog)

// Default returns catalog installed by the contract when deployed without data.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog.Default: %v", err))
	}
	return c
}

// Load reads and validates catalog from YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog against the rules applied by the contract on
// deployment.
func (c *Catalog) Validate() error {
	if len(c.Badges) == 0 {
		return fmt.Errorf("%w: no badges", ErrInvalid)
	}

	seen := make(map[int]struct{}, len(c.Badges))
	for i, b := range c.Badges {
		switch {
		case b.ID <= 0:
			return fmt.Errorf("%w: badge #%d: non-positive id %d", ErrInvalid, i, b.ID)
		case !b.Category.Valid():
			return fmt.Errorf("%w: badge %d: %s %d", ErrInvalid, b.ID, pondconst.ErrInvalidCategory, b.Category)
		case b.Threshold < 0:
			return fmt.Errorf("%w: badge %d: negative threshold", ErrInvalid, b.ID)
		case b.Name == "":
			return fmt.Errorf("%w: badge %d: empty name", ErrInvalid, b.ID)
		}

		if _, ok := seen[b.ID]; ok {
			return fmt.Errorf("%w: duplicate badge %d", ErrInvalid, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	return nil
}

// Badge returns catalog entry by its identifier.
func (c *Catalog) Badge(id int) (Badge, bool) {
	for _, b := range c.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// DeployData converts catalog into the Pond contract deploy data.
func (c *Catalog) DeployData() []any {
	res := make([]any, 0, len(c.Badges))
	for _, b := range c.Badges {
		res = append(res, []any{b.ID, int(b.Category), b.Threshold, b.Name, b.Description})
	}
	return res
}

// Marshal encodes catalog into YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
