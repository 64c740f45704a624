package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/pondrep/pond-contract/catalog"
)

// parseAccount accepts Neo address or little-endian script hash with optional
// 0x prefix.
func parseAccount(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%q is neither address nor script hash", s)
	}

	return h, nil
}

func parseCategory(s string) (*big.Int, error) {
	c, err := catalog.ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return big.NewInt(int64(c)), nil
}

func parseInt(name, s string) (*big.Int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return big.NewInt(v), nil
}

// parsePairs parses category:amount pairs of multi-category boost.
func parsePairs(pairs []string) ([]any, []any, error) {
	categories := make([]any, 0, len(pairs))
	amounts := make([]any, 0, len(pairs))

	for _, p := range pairs {
		c, a, ok := strings.Cut(p, ":")
		if !ok {
			return nil, nil, fmt.Errorf("pair %q is not in category:amount format", p)
		}

		category, err := parseCategory(c)
		if err != nil {
			return nil, nil, fmt.Errorf("pair %q: %w", p, err)
		}

		amount, err := parseInt("amount", a)
		if err != nil {
			return nil, nil, fmt.Errorf("pair %q: %w", p, err)
		}

		categories = append(categories, category)
		amounts = append(amounts, amount)
	}

	return categories, amounts, nil
}
