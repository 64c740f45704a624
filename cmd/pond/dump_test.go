package main

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/pondrep/pond-contract/catalog"
	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, v any) []byte {
	data, err := stackitem.Serialize(stackitem.Make(v))
	require.NoError(t, err)
	return data
}

func TestStorageDump(t *testing.T) {
	a1 := util.Uint160{1}
	a2 := util.Uint160{2}

	def := catalog.Default()

	badges := make([]any, len(def.Badges))
	for i, b := range def.Badges {
		badges[i] = stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(b.ID),
			stackitem.Make(int(b.Category)),
			stackitem.Make(b.Threshold),
			stackitem.Make(b.Name),
			stackitem.Make(b.Description),
		})
	}

	d := newStorageDump()

	// Keys come in storage order, so per-account records are interleaved.
	for _, kv := range []struct {
		key   []byte
		value []byte
	}{
		{append([]byte{pondconst.AccountsPrefix}, a2.BytesBE()...), []byte{1}},
		{append([]byte{pondconst.BadgesPrefix}, a2.BytesBE()...), serialize(t, []any{1, 4})},
		{[]byte{pondconst.CatalogKey}, serialize(t, badges)},
		{append([]byte{pondconst.ScoresPrefix}, a2.BytesBE()...), serialize(t, []any{60, 0, 5})},
		{append([]byte{pondconst.AccountsPrefix}, a1.BytesBE()...), []byte{1}},
		{append([]byte{pondconst.ScoresPrefix}, a1.BytesBE()...), serialize(t, []any{0, 10, 0})},
	} {
		require.NoError(t, d.add(kv.key, kv.value))
	}

	d.sortAccounts()

	require.Equal(t, def.Badges, d.Catalog)

	expected := []*accountDump{
		{
			Address: address.Uint160ToString(a2),
			Scores:  map[string]int64{"DeFi": 60, "Governance": 0, "Social": 5},
			Badges:  []int64{1, 4},
		},
		{
			Address: address.Uint160ToString(a1),
			Scores:  map[string]int64{"DeFi": 0, "Governance": 10, "Social": 0},
		},
	}
	if expected[1].Address < expected[0].Address {
		expected[0], expected[1] = expected[1], expected[0]
	}

	require.Equal(t, expected, d.Accounts)
}

func TestStorageDump_Invalid(t *testing.T) {
	acc := util.Uint160{1}

	for name, kv := range map[string][2][]byte{
		"empty key":      {nil, nil},
		"unknown prefix": {append([]byte{'x'}, acc.BytesBE()...), []byte{1}},
		"short account":  {append([]byte{pondconst.ScoresPrefix}, 1, 2, 3), serialize(t, []any{1})},
		"broken scores":  {append([]byte{pondconst.ScoresPrefix}, acc.BytesBE()...), []byte{0xff}},
		"scores no list": {append([]byte{pondconst.ScoresPrefix}, acc.BytesBE()...), serialize(t, 5)},
		"badges no ints": {append([]byte{pondconst.BadgesPrefix}, acc.BytesBE()...), serialize(t, []any{[]any{1}})},
		"broken catalog": {[]byte{pondconst.CatalogKey}, serialize(t, []any{1})},
	} {
		t.Run(name, func(t *testing.T) {
			require.Error(t, newStorageDump().add(kv[0], kv[1]))
		})
	}
}
