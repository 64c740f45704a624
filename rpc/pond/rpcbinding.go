// Package pond contains RPC wrappers for Pond contract.
package pond

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// PondBadge is a contract-specific pond.Badge type used by its methods.
type PondBadge struct {
	ID *big.Int
	Category *big.Int
	Threshold *big.Int
	Name string
	Description string
}

// PondEligibility is a contract-specific pond.Eligibility type used by its methods.
type PondEligibility struct {
	Eligible []*big.Int
	Lost []*big.Int
}

// ReputationChangedEvent represents "ReputationChanged" event emitted by the contract.
type ReputationChangedEvent struct {
	Account util.Uint160
	Category *big.Int
	NewScore *big.Int
	Delta *big.Int
}

// BadgeMintedEvent represents "BadgeMinted" event emitted by the contract.
type BadgeMintedEvent struct {
	Account util.Uint160
	BadgeID *big.Int
}

// BadgeRevokedEvent represents "BadgeRevoked" event emitted by the contract.
type BadgeRevokedEvent struct {
	Account util.Uint160
	BadgeID *big.Int
}

// BadgeEligibleEvent represents "BadgeEligible" event emitted by the contract.
type BadgeEligibleEvent struct {
	Account util.Uint160
	BadgeID *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Catalog invokes `catalog` method of contract.
func (c *ContractReader) Catalog() ([]*PondBadge, error) {
	return func (item stackitem.Item, err error) ([]*PondBadge, error) {
		if err != nil {
			return nil, err
		}
		return func (item stackitem.Item) ([]*PondBadge, error) {
			arr, ok := item.Value().([]stackitem.Item)
			if !ok {
				return nil, errors.New("not an array")
			}
			res := make([]*PondBadge, len(arr))
			for i := range res {
				res[i], err = itemToPondBadge(arr[i], nil)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
			}
			return res, nil
		} (item)
	} (unwrap.Item(c.invoker.Call(c.hash, "catalog")))
}

// CategoryName invokes `categoryName` method of contract.
func (c *ContractReader) CategoryName(category *big.Int) (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "categoryName", category))
}

// EligibilityChanges invokes `eligibilityChanges` method of contract.
func (c *ContractReader) EligibilityChanges(account util.Uint160) (*PondEligibility, error) {
	return itemToPondEligibility(unwrap.Item(c.invoker.Call(c.hash, "eligibilityChanges", account)))
}

// GetBadges invokes `getBadges` method of contract.
func (c *ContractReader) GetBadges(account util.Uint160) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "getBadges", account))
}

// GetRepInCategory invokes `getRepInCategory` method of contract.
func (c *ContractReader) GetRepInCategory(account util.Uint160, category *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getRepInCategory", account, category))
}

// GetReputation invokes `getReputation` method of contract.
func (c *ContractReader) GetReputation(account util.Uint160) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "getReputation", account))
}

// IsReadyForBadge invokes `isReadyForBadge` method of contract.
func (c *ContractReader) IsReadyForBadge(account util.Uint160, badgeID *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isReadyForBadge", account, badgeID))
}

// ListAccounts invokes `listAccounts` method of contract.
func (c *ContractReader) ListAccounts() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listAccounts"))
}

// ListAccountsExpanded is similar to ListAccounts (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListAccountsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listAccounts", _numOfIteratorItems))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// DecayReputation creates a transaction invoking `decayReputation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DecayReputation(account util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "decayReputation", account, amount)
}

// DecayReputationTransaction creates a transaction invoking `decayReputation` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DecayReputationTransaction(account util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "decayReputation", account, amount)
}

// DecayReputationUnsigned creates a transaction invoking `decayReputation` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DecayReputationUnsigned(account util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "decayReputation", nil, account, amount)
}

// MintBadge creates a transaction invoking `mintBadge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) MintBadge(account util.Uint160, badgeID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "mintBadge", account, badgeID)
}

// MintBadgeTransaction creates a transaction invoking `mintBadge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MintBadgeTransaction(account util.Uint160, badgeID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "mintBadge", account, badgeID)
}

// MintBadgeUnsigned creates a transaction invoking `mintBadge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MintBadgeUnsigned(account util.Uint160, badgeID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "mintBadge", nil, account, badgeID)
}

// MultiBoostReputation creates a transaction invoking `multiBoostReputation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) MultiBoostReputation(account util.Uint160, categories []any, amounts []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "multiBoostReputation", account, categories, amounts)
}

// MultiBoostReputationTransaction creates a transaction invoking `multiBoostReputation` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MultiBoostReputationTransaction(account util.Uint160, categories []any, amounts []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "multiBoostReputation", account, categories, amounts)
}

// MultiBoostReputationUnsigned creates a transaction invoking `multiBoostReputation` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MultiBoostReputationUnsigned(account util.Uint160, categories []any, amounts []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "multiBoostReputation", nil, account, categories, amounts)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// UpdateReputation creates a transaction invoking `updateReputation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateReputation(account util.Uint160, category *big.Int, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateReputation", account, category, amount)
}

// UpdateReputationTransaction creates a transaction invoking `updateReputation` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateReputationTransaction(account util.Uint160, category *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateReputation", account, category, amount)
}

// UpdateReputationUnsigned creates a transaction invoking `updateReputation` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateReputationUnsigned(account util.Uint160, category *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateReputation", nil, account, category, amount)
}

// itemToPondBadge converts stack item into *PondBadge.
func itemToPondBadge(item stackitem.Item, err error) (*PondBadge, error) {
	if err != nil {
		return nil, err
	}
	var res = new(PondBadge)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of PondBadge from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *PondBadge) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Category, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Category: %w", err)
	}

	index++
	res.Threshold, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Threshold: %w", err)
	}

	index++
	res.Name, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Description, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	return nil
}

// itemToPondEligibility converts stack item into *PondEligibility.
func itemToPondEligibility(item stackitem.Item, err error) (*PondEligibility, error) {
	if err != nil {
		return nil, err
	}
	var res = new(PondEligibility)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of PondEligibility from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *PondEligibility) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Eligible, err = func (item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Eligible: %w", err)
	}

	index++
	res.Lost, err = func (item stackitem.Item) ([]*big.Int, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*big.Int, len(arr))
		for i := range res {
			res[i], err = arr[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Lost: %w", err)
	}

	return nil
}

// ReputationChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "ReputationChanged" name from the provided [result.ApplicationLog].
func ReputationChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ReputationChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ReputationChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ReputationChanged" {
				continue
			}
			event := new(ReputationChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ReputationChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ReputationChangedEvent or
// returns an error if it's not possible to do to so.
func (e *ReputationChangedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Category, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Category: %w", err)
	}

	index++
	e.NewScore, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field NewScore: %w", err)
	}

	index++
	e.Delta, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Delta: %w", err)
	}

	return nil
}

// BadgeMintedEventsFromApplicationLog retrieves a set of all emitted events
// with "BadgeMinted" name from the provided [result.ApplicationLog].
func BadgeMintedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BadgeMintedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BadgeMintedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BadgeMinted" {
				continue
			}
			event := new(BadgeMintedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BadgeMintedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BadgeMintedEvent or
// returns an error if it's not possible to do to so.
func (e *BadgeMintedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.BadgeID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field BadgeID: %w", err)
	}

	return nil
}

// BadgeRevokedEventsFromApplicationLog retrieves a set of all emitted events
// with "BadgeRevoked" name from the provided [result.ApplicationLog].
func BadgeRevokedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BadgeRevokedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BadgeRevokedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BadgeRevoked" {
				continue
			}
			event := new(BadgeRevokedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BadgeRevokedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BadgeRevokedEvent or
// returns an error if it's not possible to do to so.
func (e *BadgeRevokedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.BadgeID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field BadgeID: %w", err)
	}

	return nil
}

// BadgeEligibleEventsFromApplicationLog retrieves a set of all emitted events
// with "BadgeEligible" name from the provided [result.ApplicationLog].
func BadgeEligibleEventsFromApplicationLog(log *result.ApplicationLog) ([]*BadgeEligibleEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BadgeEligibleEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BadgeEligible" {
				continue
			}
			event := new(BadgeEligibleEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BadgeEligibleEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BadgeEligibleEvent or
// returns an error if it's not possible to do to so.
func (e *BadgeEligibleEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.BadgeID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field BadgeID: %w", err)
	}

	return nil
}
