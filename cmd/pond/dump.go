package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/pondrep/pond-contract/catalog"
	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
	"github.com/pondrep/pond-contract/rpc/pond"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// storageDump is a human-readable state of the Pond contract storage.
type storageDump struct {
	Catalog  []catalog.Badge `yaml:"catalog"`
	Accounts []*accountDump  `yaml:"accounts"`

	byAccount map[util.Uint160]*accountDump
}

type accountDump struct {
	Address string           `yaml:"address"`
	Scores  map[string]int64 `yaml:"scores,omitempty"`
	Badges  []int64          `yaml:"badges,omitempty"`
}

func newStorageDump() *storageDump {
	return &storageDump{byAccount: make(map[util.Uint160]*accountDump)}
}

func (d *storageDump) account(h util.Uint160) *accountDump {
	acc, ok := d.byAccount[h]
	if !ok {
		acc = &accountDump{Address: address.Uint160ToString(h)}
		d.byAccount[h] = acc
		d.Accounts = append(d.Accounts, acc)
	}
	return acc
}

// add decodes single storage item of the Pond contract.
func (d *storageDump) add(key, value []byte) error {
	if len(key) == 0 {
		return errors.New("empty storage key")
	}

	if key[0] == pondconst.CatalogKey && len(key) == 1 {
		badges, err := decodeCatalog(value)
		if err != nil {
			return fmt.Errorf("decode catalog: %w", err)
		}
		d.Catalog = badges
		return nil
	}

	var h util.Uint160

	switch key[0] {
	case pondconst.ScoresPrefix, pondconst.BadgesPrefix, pondconst.AccountsPrefix:
		var err error
		h, err = util.Uint160DecodeBytesBE(key[1:])
		if err != nil {
			return fmt.Errorf("invalid account in key %x: %w", key, err)
		}
	default:
		return fmt.Errorf("unknown storage key %x", key)
	}

	acc := d.account(h)

	switch key[0] {
	case pondconst.ScoresPrefix:
		scores, err := decodeIntList(value)
		if err != nil {
			return fmt.Errorf("decode scores of %s: %w", acc.Address, err)
		}

		acc.Scores = make(map[string]int64, len(scores))
		for i := range scores {
			acc.Scores[catalog.Category(i).String()] = scores[i]
		}
	case pondconst.BadgesPrefix:
		ids, err := decodeIntList(value)
		if err != nil {
			return fmt.Errorf("decode badges of %s: %w", acc.Address, err)
		}
		acc.Badges = ids
	}

	return nil
}

// sortAccounts orders accounts by address for stable output.
func (d *storageDump) sortAccounts() {
	sort.Slice(d.Accounts, func(i, j int) bool {
		return d.Accounts[i].Address < d.Accounts[j].Address
	})
}

func decodeIntList(value []byte) ([]int64, error) {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return nil, err
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, fmt.Errorf("not an array: %s", item.Type())
	}

	res := make([]int64, len(arr))
	for i := range arr {
		v, err := arr[i].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		if !v.IsInt64() {
			return nil, fmt.Errorf("item #%d: %s overflows int64", i, v)
		}
		res[i] = v.Int64()
	}

	return res, nil
}

func decodeCatalog(value []byte) ([]catalog.Badge, error) {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return nil, err
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, fmt.Errorf("not an array: %s", item.Type())
	}

	badges := make([]*pond.PondBadge, len(arr))
	for i := range arr {
		badges[i] = new(pond.PondBadge)
		if err = badges[i].FromStackItem(arr[i]); err != nil {
			return nil, fmt.Errorf("badge #%d: %w", i, err)
		}
	}

	return toCatalog(badges).Badges, nil
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print whole Pond contract storage in YAML at the penultimate block state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.dialPond(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			d := newStorageDump()

			err = b.iterateContractStorage(b.contract, d.add)
			if err != nil {
				return fmt.Errorf("iterate Pond contract storage: %w", err)
			}

			d.sortAccounts()

			a.log.Debug("storage dumped", zap.Int("accounts", len(d.Accounts)))

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			if err = enc.Encode(d); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
