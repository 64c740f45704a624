package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
	"gopkg.in/yaml.v3"
)

// Category is a reputation category index.
type Category int

// Reputation categories known to the Pond contract.
const (
	DeFi       Category = pondconst.CategoryDeFi
	Governance Category = pondconst.CategoryGovernance
	Social     Category = pondconst.CategorySocial
)

var categoryNames = [pondconst.CategoryCount]string{
	DeFi:       "DeFi",
	Governance: "Governance",
	Social:     "Social",
}

// Categories returns all reputation categories in index order.
func Categories() []Category {
	return []Category{DeFi, Governance, Social}
}

// Valid checks whether c is a known category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < pondconst.CategoryCount
}

// String implements fmt.Stringer.
func (c Category) String() string {
	if !c.Valid() {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

// ParseCategory parses category from its case-insensitive name or index.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)

	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q", pondconst.ErrInvalidCategory, s)
	}

	c := Category(n)
	if !c.Valid() {
		return 0, fmt.Errorf("%s: %d", pondconst.ErrInvalidCategory, n)
	}

	return c, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: category must be a scalar", value.Line)
	}

	parsed, err := ParseCategory(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Category) MarshalYAML() (any, error) {
	if !c.Valid() {
		return int(c), nil
	}
	return strings.ToLower(c.String()), nil
}
