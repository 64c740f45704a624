package pond

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/pondrep/pond-contract/contracts/pond/pondconst"
	"github.com/stretchr/testify/require"
)

type testInvoker struct {
	method string
	params []any
	res    *result.Invoke
}

func (t *testInvoker) Call(_ util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method = operation
	t.params = params
	return t.res, nil
}

func (t *testInvoker) CallAndExpandIterator(_ util.Uint160, method string, _ int, params ...any) (*result.Invoke, error) {
	return t.Call(util.Uint160{}, method, params...)
}

func (t *testInvoker) TerminateSession(uuid.UUID) error {
	return nil
}

func (t *testInvoker) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: items,
	}
}

func TestContractReader_GetReputation(t *testing.T) {
	inv := &testInvoker{res: halt(stackitem.Make([]any{10, 0, 25}))}
	acc := util.Uint160{1, 2, 3}

	scores, err := NewReader(inv, util.Uint160{}).GetReputation(acc)
	require.NoError(t, err)
	require.Equal(t, "getReputation", inv.method)
	require.Equal(t, []any{acc}, inv.params)
	require.Equal(t, []*big.Int{big.NewInt(10), big.NewInt(0), big.NewInt(25)}, scores)
}

func TestContractReader_Catalog(t *testing.T) {
	inv := &testInvoker{res: halt(stackitem.NewArray([]stackitem.Item{
		stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(7),
			stackitem.Make(CategoryDeFi),
			stackitem.Make(100),
			stackitem.Make("DeFi Veteran"),
			stackitem.Make("Achieved 100 reputation in DeFi"),
		}),
	}))}

	badges, err := NewReader(inv, util.Uint160{}).Catalog()
	require.NoError(t, err)
	require.Len(t, badges, 1)
	require.Equal(t, &PondBadge{
		ID:          big.NewInt(7),
		Category:    big.NewInt(CategoryDeFi),
		Threshold:   big.NewInt(100),
		Name:        "DeFi Veteran",
		Description: "Achieved 100 reputation in DeFi",
	}, badges[0])

	t.Run("broken entry", func(t *testing.T) {
		inv.res = halt(stackitem.NewArray([]stackitem.Item{
			stackitem.NewStruct([]stackitem.Item{stackitem.Make(7)}),
		}))

		_, err := NewReader(inv, util.Uint160{}).Catalog()
		require.Error(t, err)
	})
}

func TestContractReader_EligibilityChanges(t *testing.T) {
	inv := &testInvoker{res: halt(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make([]any{1, 4}),
		stackitem.Make([]any{7}),
	}))}

	res, err := NewReader(inv, util.Uint160{}).EligibilityChanges(util.Uint160{})
	require.NoError(t, err)
	require.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(4)}, res.Eligible)
	require.Equal(t, []*big.Int{big.NewInt(7)}, res.Lost)
}

func TestContractReader_Fault(t *testing.T) {
	inv := &testInvoker{res: &result.Invoke{
		State:          vmstate.Fault.String(),
		FaultException: "at instruction 42 (THROW): " + pondconst.ErrInvalidCategory,
	}}

	_, err := NewReader(inv, util.Uint160{}).GetRepInCategory(util.Uint160{}, big.NewInt(5))
	require.Error(t, err)
	require.ErrorIs(t, ErrorFromException(err.Error()), ErrInvalidCategory)
}

func TestEventsFromApplicationLog(t *testing.T) {
	acc := util.Uint160{4, 5, 6}

	notification := func(name string, params ...any) state.NotificationEvent {
		items := []stackitem.Item{stackitem.NewByteArray(acc.BytesBE())}
		for _, p := range params {
			items = append(items, stackitem.Make(p))
		}
		return state.NotificationEvent{
			Name: name,
			Item: stackitem.NewArray(items),
		}
	}

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				notification(pondconst.ReputationChangedEvent, CategoryDeFi, 80, -50),
				notification(pondconst.ReputationChangedEvent, CategorySocial, 0, 0),
				notification(pondconst.BadgeRevokedEvent, 7),
				notification(pondconst.BadgeEligibleEvent, 1),
				notification(pondconst.BadgeMintedEvent, 4),
			},
		}},
	}

	changed, err := ReputationChangedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*ReputationChangedEvent{
		{Account: acc, Category: big.NewInt(CategoryDeFi), NewScore: big.NewInt(80), Delta: big.NewInt(-50)},
		{Account: acc, Category: big.NewInt(CategorySocial), NewScore: big.NewInt(0), Delta: big.NewInt(0)},
	}, changed)

	revoked, err := BadgeRevokedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*BadgeRevokedEvent{{Account: acc, BadgeID: big.NewInt(7)}}, revoked)

	eligible, err := BadgeEligibleEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*BadgeEligibleEvent{{Account: acc, BadgeID: big.NewInt(1)}}, eligible)

	minted, err := BadgeMintedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*BadgeMintedEvent{{Account: acc, BadgeID: big.NewInt(4)}}, minted)

	t.Run("nil log", func(t *testing.T) {
		_, err := BadgeMintedEventsFromApplicationLog(nil)
		require.Error(t, err)
	})

	t.Run("malformed event", func(t *testing.T) {
		_, err := BadgeMintedEventsFromApplicationLog(&result.ApplicationLog{
			Executions: []state.Execution{{
				Events: []state.NotificationEvent{{
					Name: pondconst.BadgeMintedEvent,
					Item: stackitem.NewArray([]stackitem.Item{stackitem.Make(1)}),
				}},
			}},
		})
		require.Error(t, err)
	})
}

func TestErrorFromException(t *testing.T) {
	require.NoError(t, ErrorFromException(""))

	for _, tc := range []struct {
		exception string
		err       error
	}{
		{"at instruction 17 (THROW): " + pondconst.ErrNotEligible, ErrNotEligible},
		{pondconst.ErrAlreadyMinted, ErrAlreadyMinted},
		{pondconst.ErrUnknownBadge, ErrUnknownBadge},
		{pondconst.ErrLengthMismatch, ErrLengthMismatch},
		{pondconst.ErrInvalidAmount, ErrInvalidAmount},
		{pondconst.ErrInvalidAccount, ErrInvalidAccount},
		{pondconst.ErrInvalidCatalog + ": " + pondconst.ErrInvalidCategory, ErrInvalidCatalog},
	} {
		require.ErrorIs(t, ErrorFromException(tc.exception), tc.err, tc.exception)
	}

	err := ErrorFromException("some other failure")
	require.Error(t, err)
	for _, known := range exceptionErrors {
		require.False(t, errors.Is(err, known))
	}
}
