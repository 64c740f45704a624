// Package deploy synchronizes Pond contract on the chain with its local build.
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/pondrep/pond-contract/common"
	"github.com/pondrep/pond-contract/rpc/pond"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Pond deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups all parameters of the Pond deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy Pond to.
	Blockchain Blockchain

	// Account used for transaction signing (must be unlocked). Contract
	// update is accepted only from the committee, so the account should be
	// the committee one when the contract may already exist.
	Account *wallet.Account

	NEF      nef.File
	Manifest manifest.Manifest

	// Address of already deployed contract. Zero value means the address
	// derived from the Account and the NEF, which changes on every update.
	Contract util.Uint160

	// Badge catalog passed on the initial deployment. Nil means the default
	// catalog of the contract.
	Catalog []any
}

// Validate checks that Prm is complete.
func (prm Prm) Validate() error {
	switch {
	case prm.Logger == nil:
		return errors.New("missing logger")
	case prm.Blockchain == nil:
		return errors.New("missing blockchain")
	case prm.Account == nil:
		return errors.New("missing deployer account")
	case prm.Manifest.Name == "":
		return errors.New("missing contract manifest")
	}
	return nil
}

// Deploy makes Pond contract built into Prm.NEF and Prm.Manifest available on
// the chain and returns its address.
//
// Deploy is idempotent: missing contract is deployed, the one with different
// NEF is updated, the same one is left untouched. Updated contract keeps its
// address, so Prm.Contract must be set for it. Catalog is passed on the
// initial deployment only.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if err := prm.Validate(); err != nil {
		return util.Uint160{}, fmt.Errorf("invalid parameters: %w", err)
	}

	act, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: prm.Account.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.Account,
	}}, actor.Options{
		CheckerModifier: runtimeTransactionModifier(prm.Blockchain.GetBlockCount),
	})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	addr := prm.Contract
	if addr.Equals(util.Uint160{}) {
		addr = state.CreateContractHash(prm.Account.ScriptHash(), prm.NEF.Checksum, prm.Manifest.Name)
	}
	log := prm.Logger.With(zap.Stringer("address", addr))

	onChain, err := prm.Blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return util.Uint160{}, fmt.Errorf("get Pond contract state: %w", err)
		}

		if !prm.Contract.Equals(util.Uint160{}) {
			return util.Uint160{}, fmt.Errorf("contract %s is missing on the chain", prm.Contract.StringLE())
		}

		if err = ctx.Err(); err != nil {
			return util.Uint160{}, err
		}

		log.Info("Pond contract is missing on the chain, deploying...")

		res, err := act.Wait(management.New(act).Deploy(&prm.NEF, &prm.Manifest, prm.Catalog))
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy Pond contract: %w", err)
		}
		if err = checkHalt(res); err != nil {
			return util.Uint160{}, fmt.Errorf("deploy Pond contract: %w", err)
		}

		log.Info("Pond contract successfully deployed", zap.Stringer("tx", res.Container))

		return addr, nil
	}

	if onChain.NEF.Checksum == prm.NEF.Checksum {
		log.Info("Pond contract is up to date",
			zap.Int32("id", onChain.ID), zap.Uint16("update counter", onChain.UpdateCounter))
		return addr, nil
	}

	if err = ctx.Err(); err != nil {
		return util.Uint160{}, err
	}

	rawNEF, err := prm.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	rawManifest, err := json.Marshal(prm.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest: %w", err)
	}

	log.Info("Pond contract differs from the local one, updating...",
		zap.Uint32("on-chain checksum", onChain.NEF.Checksum), zap.Uint32("local checksum", prm.NEF.Checksum))

	// Test invocation FAULTs before sending when the version is already the
	// latest one, so the exception arrives as a Wait error.
	res, err := act.Wait(pond.New(act, addr).Update(rawNEF, rawManifest, nil))
	if err == nil {
		err = checkHalt(res)
	}
	if err != nil {
		if isErrAlreadyUpdated(err) {
			log.Info("Pond contract is already of the latest version")
			return addr, nil
		}
		return util.Uint160{}, fmt.Errorf("update Pond contract: %w", err)
	}

	log.Info("Pond contract successfully updated", zap.Stringer("tx", res.Container))

	return addr, nil
}

func checkHalt(res *state.AppExecResult) error {
	if res.VMState.HasFlag(vmstate.Halt) {
		return nil
	}
	if res.FaultException == "" {
		return fmt.Errorf("unexpected VM state %s", res.VMState)
	}
	return pond.ErrorFromException(res.FaultException)
}

func isErrAlreadyUpdated(err error) bool {
	return err != nil && strings.Contains(err.Error(), common.ErrAlreadyUpdated)
}

func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). Deployments repeated within the span
// produce the same transaction.
func runtimeTransactionModifier(getBlockchainHeight func() (uint32, error)) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight, err := getBlockchainHeight()
		if err != nil {
			return fmt.Errorf("get chain height: %w", err)
		}

		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
