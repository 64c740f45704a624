package tests

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

// randomAccount returns script hash of an account which never signs anything.
func randomAccount() util.Uint160 {
	var u util.Uint160
	copy(u[:], randomBytes(util.Uint160Size))
	return u
}

// testInvokeInts calls safe contract method returning an array of integers.
func testInvokeInts(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) []int64 {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	items := s.Pop().Array()
	res := make([]int64, 0, len(items))
	for i := range items {
		v, err := items[i].TryInteger()
		require.NoError(t, err)
		res = append(res, v.Int64())
	}

	return res
}

// pondEvent is a decoded Pond notification: account and integer parameters
// following it.
type pondEvent struct {
	name    string
	account util.Uint160
	values  []int64
}

func txEvents(t testing.TB, c *neotest.ContractInvoker, h util.Uint256) []pondEvent {
	aer := c.GetTxExecResult(t, h)

	res := make([]pondEvent, 0, len(aer.Events))
	for _, ev := range aer.Events {
		require.Equal(t, c.Hash, ev.ScriptHash)

		items, ok := ev.Item.Value().([]stackitem.Item)
		require.True(t, ok)
		require.NotEmpty(t, items)

		b, err := items[0].TryBytes()
		require.NoError(t, err)
		acc, err := util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)

		e := pondEvent{name: ev.Name, account: acc}
		for _, item := range items[1:] {
			v, err := item.TryInteger()
			require.NoError(t, err)
			e.values = append(e.values, v.Int64())
		}

		res = append(res, e)
	}

	return res
}
