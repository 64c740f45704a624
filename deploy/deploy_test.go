package deploy

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/pondrep/pond-contract/catalog"
	"github.com/pondrep/pond-contract/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRuntimeTransactionModifier(t *testing.T) {
	t.Run("invalid invocation result state", func(t *testing.T) {
		var res result.Invoke
		res.State = "FAULT" // any non-HALT

		err := runtimeTransactionModifier(func() (uint32, error) { return 0, nil })(&res, new(transaction.Transaction))
		require.Error(t, err)
	})

	var validRes result.Invoke
	validRes.State = "HALT"

	t.Run("height failure", func(t *testing.T) {
		err := runtimeTransactionModifier(func() (uint32, error) {
			return 0, errors.New("any error")
		})(&validRes, new(transaction.Transaction))
		require.Error(t, err)
	})

	for _, tc := range []struct {
		curHeight     uint32
		expectedNonce uint32
		expectedVUB   uint32
	}{
		{curHeight: 0, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 1, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 99, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 100, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 199, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 200, expectedNonce: 200, expectedVUB: 300},
		{curHeight: math.MaxUint32 - 50, expectedNonce: 100 * (math.MaxUint32 / 100), expectedVUB: math.MaxUint32},
	} {
		m := runtimeTransactionModifier(func() (uint32, error) { return tc.curHeight, nil })

		var tx transaction.Transaction

		err := m(&validRes, &tx)
		require.NoError(t, err, tc)
		require.EqualValues(t, tc.expectedNonce, tx.Nonce, tc)
		require.EqualValues(t, tc.expectedVUB, tx.ValidUntilBlock, tc)
	}
}

// testBlockchain serves contract state requests and accepts every sent
// transaction. Test invocations of contract methods end with invokeRes.
type testBlockchain struct {
	actor.RPCActor

	contract    *state.Contract
	contractErr error
	requested   []util.Uint160

	invokeRes *result.Invoke
	methods   []string
	scripts   int
	sent      []*transaction.Transaction
	logs      int
}

func (b *testBlockchain) GetVersion() (*result.Version, error) {
	return &result.Version{
		Protocol: result.Protocol{
			Network:              netmode.UnitTestNet,
			MillisecondsPerBlock: 10,
			ValidatorsCount:      1,
		},
	}, nil
}

func (b *testBlockchain) GetBlockCount() (uint32, error) {
	return 1, nil
}

// GetContractStateByHash implements [Blockchain] interface.
func (b *testBlockchain) GetContractStateByHash(addr util.Uint160) (*state.Contract, error) {
	b.requested = append(b.requested, addr)
	return b.contract, b.contractErr
}

func (b *testBlockchain) InvokeFunction(_ util.Uint160, operation string, _ []smartcontract.Parameter, _ []transaction.Signer) (*result.Invoke, error) {
	b.methods = append(b.methods, operation)
	if b.invokeRes != nil {
		return b.invokeRes, nil
	}
	return haltResult(), nil
}

func (b *testBlockchain) InvokeScript([]byte, []transaction.Signer) (*result.Invoke, error) {
	b.scripts++
	return haltResult(), nil
}

func (b *testBlockchain) CalculateNetworkFee(*transaction.Transaction) (int64, error) {
	return 0, nil
}

func (b *testBlockchain) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	b.sent = append(b.sent, tx)
	return tx.Hash(), nil
}

func (b *testBlockchain) Context() context.Context {
	return context.Background()
}

func (b *testBlockchain) GetApplicationLog(h util.Uint256, _ *trigger.Type) (*result.ApplicationLog, error) {
	b.logs++
	return &result.ApplicationLog{
		Container: h,
		Executions: []state.Execution{{
			Trigger: trigger.Application,
			VMState: vmstate.Halt,
		}},
	}, nil
}

func haltResult() *result.Invoke {
	return &result.Invoke{
		State:  vmstate.Halt.String(),
		Script: []byte{1},
	}
}

func newTestPrm(t *testing.T, bc *testBlockchain) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	return Prm{
		Logger:     zaptest.NewLogger(t),
		Blockchain: bc,
		Account:    acc,
		NEF:        nef.File{Checksum: 42},
		Manifest:   *manifest.NewManifest("Pond"),
	}
}

func TestDeploy(t *testing.T) {
	t.Run("up to date", func(t *testing.T) {
		bc := new(testBlockchain)
		prm := newTestPrm(t, bc)

		expected := state.CreateContractHash(prm.Account.ScriptHash(), prm.NEF.Checksum, prm.Manifest.Name)
		bc.contract = &state.Contract{ContractBase: state.ContractBase{
			Hash: expected,
			NEF:  nef.File{Checksum: 42},
		}}

		addr, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, expected, addr)
		require.Equal(t, []util.Uint160{expected}, bc.requested)
	})

	t.Run("known address", func(t *testing.T) {
		bc := new(testBlockchain)
		prm := newTestPrm(t, bc)
		prm.Contract = util.Uint160{1, 2, 3}

		bc.contract = &state.Contract{ContractBase: state.ContractBase{
			Hash: prm.Contract,
			NEF:  nef.File{Checksum: 42},
		}}

		addr, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, prm.Contract, addr)
		require.Equal(t, []util.Uint160{prm.Contract}, bc.requested)
	})

	t.Run("fresh deploy", func(t *testing.T) {
		bc := &testBlockchain{contractErr: errors.New("Unknown contract")}
		prm := newTestPrm(t, bc)
		prm.Catalog = catalog.Default().DeployData()

		expected := state.CreateContractHash(prm.Account.ScriptHash(), prm.NEF.Checksum, prm.Manifest.Name)

		addr, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, expected, addr)
		require.Equal(t, 1, bc.scripts)
		require.Empty(t, bc.methods)
		require.Len(t, bc.sent, 1)
		require.Equal(t, 1, bc.logs)
		require.EqualValues(t, 100, bc.sent[0].ValidUntilBlock)
	})

	t.Run("update", func(t *testing.T) {
		bc := new(testBlockchain)
		prm := newTestPrm(t, bc)
		prm.Contract = util.Uint160{1, 2, 3}

		bc.contract = &state.Contract{ContractBase: state.ContractBase{
			Hash: prm.Contract,
			NEF:  nef.File{Checksum: 7},
		}}

		addr, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, prm.Contract, addr)
		require.Equal(t, []string{"update"}, bc.methods)
		require.Len(t, bc.sent, 1)
		require.Equal(t, 1, bc.logs)
	})

	t.Run("already updated", func(t *testing.T) {
		bc := &testBlockchain{invokeRes: &result.Invoke{
			State:          vmstate.Fault.String(),
			FaultException: common.ErrAlreadyUpdated + ": 2000",
		}}
		prm := newTestPrm(t, bc)
		prm.Contract = util.Uint160{1, 2, 3}

		bc.contract = &state.Contract{ContractBase: state.ContractBase{
			Hash: prm.Contract,
			NEF:  nef.File{Checksum: 7},
		}}

		addr, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, prm.Contract, addr)
		require.Equal(t, []string{"update"}, bc.methods)
		require.Empty(t, bc.sent)
		require.Zero(t, bc.logs)
	})

	t.Run("update failure", func(t *testing.T) {
		bc := &testBlockchain{invokeRes: &result.Invoke{
			State:          vmstate.Fault.String(),
			FaultException: "only committee can update contract",
		}}
		prm := newTestPrm(t, bc)
		prm.Contract = util.Uint160{1, 2, 3}

		bc.contract = &state.Contract{ContractBase: state.ContractBase{
			Hash: prm.Contract,
			NEF:  nef.File{Checksum: 7},
		}}

		_, err := Deploy(context.Background(), prm)
		require.ErrorContains(t, err, "only committee can update contract")
		require.Empty(t, bc.sent)
	})

	t.Run("known address is missing", func(t *testing.T) {
		bc := &testBlockchain{contractErr: errors.New("Unknown contract")}
		prm := newTestPrm(t, bc)
		prm.Contract = util.Uint160{1, 2, 3}

		_, err := Deploy(context.Background(), prm)
		require.ErrorContains(t, err, "missing on the chain")
	})

	t.Run("state failure", func(t *testing.T) {
		bc := &testBlockchain{contractErr: errors.New("connection refused")}

		_, err := Deploy(context.Background(), newTestPrm(t, bc))
		require.ErrorContains(t, err, "connection refused")
	})

	t.Run("canceled", func(t *testing.T) {
		bc := &testBlockchain{contractErr: errors.New("Unknown contract")}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Deploy(ctx, newTestPrm(t, bc))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		prm := newTestPrm(t, new(testBlockchain))
		prm.Account = nil

		_, err := Deploy(context.Background(), prm)
		require.Error(t, err)

		prm = newTestPrm(t, new(testBlockchain))
		prm.Manifest = manifest.Manifest{}

		_, err = Deploy(context.Background(), prm)
		require.Error(t, err)
	})
}

func TestIsErrAlreadyUpdated(t *testing.T) {
	require.False(t, isErrAlreadyUpdated(nil))
	require.False(t, isErrAlreadyUpdated(errors.New("timeout")))
	require.True(t, isErrAlreadyUpdated(errors.New("script failed (FAULT state) due to an error: "+common.ErrAlreadyUpdated+": 2000")))
}

func TestIsErrContractNotFound(t *testing.T) {
	require.False(t, isErrContractNotFound(nil))
	require.False(t, isErrContractNotFound(errors.New("timeout")))
	require.True(t, isErrContractNotFound(errors.New("Unknown contract")))
}
