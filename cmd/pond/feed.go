package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/pondrep/pond-contract/catalog"
	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
	"github.com/pondrep/pond-contract/rpc/pond"
)

// printFeed writes Pond notifications of the transaction in emission order.
// Notifications of other contracts are skipped.
func printFeed(w io.Writer, contract util.Uint160, log *result.ApplicationLog) error {
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if !e.ScriptHash.Equals(contract) {
				continue
			}

			line, err := formatEvent(e.Name, e.Item)
			if err != nil {
				return fmt.Errorf("execution #%d, event #%d: %w", i, j, err)
			}
			if line != "" {
				fmt.Fprintln(w, line)
			}
		}
	}
	return nil
}

func formatEvent(name string, item *stackitem.Array) (string, error) {
	switch name {
	case pondconst.ReputationChangedEvent:
		var ev pond.ReputationChangedEvent
		if err := ev.FromStackItem(item); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s: %s (%+d)", address.Uint160ToString(ev.Account),
			categoryName(ev.Category), ev.NewScore, ev.Delta), nil
	case pondconst.BadgeMintedEvent:
		var ev pond.BadgeMintedEvent
		if err := ev.FromStackItem(item); err != nil {
			return "", err
		}
		return formatBadgeEvent("minted", ev.Account, ev.BadgeID), nil
	case pondconst.BadgeRevokedEvent:
		var ev pond.BadgeRevokedEvent
		if err := ev.FromStackItem(item); err != nil {
			return "", err
		}
		return formatBadgeEvent("revoked", ev.Account, ev.BadgeID), nil
	case pondconst.BadgeEligibleEvent:
		var ev pond.BadgeEligibleEvent
		if err := ev.FromStackItem(item); err != nil {
			return "", err
		}
		return formatBadgeEvent("eligible", ev.Account, ev.BadgeID), nil
	default:
		return "", nil
	}
}

func formatBadgeEvent(what string, acc util.Uint160, id *big.Int) string {
	return fmt.Sprintf("%s badge %s %s", address.Uint160ToString(acc), id, what)
}

func categoryName(c *big.Int) string {
	if !c.IsInt64() {
		return c.String()
	}
	return catalog.Category(c.Int64()).String()
}

func joinInts(ids []*big.Int) string {
	if len(ids) == 0 {
		return "-"
	}

	s := make([]string, len(ids))
	for i := range ids {
		s[i] = ids[i].String()
	}
	return strings.Join(s, ", ")
}
