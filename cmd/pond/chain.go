package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/pondrep/pond-contract/rpc/pond"
	"go.uber.org/zap"
)

// wrapper over rpcNeo providing Pond services needed for the commands.
type remoteBlockchain struct {
	rpc *rpcclient.Client
	log *zap.Logger

	contract util.Uint160
}

// dial opens connection to the Neo RPC server. Connection and all requests are
// done within the configured timeout.
func (a *app) dial(ctx context.Context) (*remoteBlockchain, error) {
	if err := a.cfg.validate(); err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, a.cfg.RPC, rpcclient.Options{
		DialTimeout:    a.cfg.Timeout,
		RequestTimeout: a.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	a.log.Debug("connected to the Neo RPC server", zap.String("endpoint", a.cfg.RPC))

	return &remoteBlockchain{rpc: c, log: a.log}, nil
}

// dialPond is dial for commands working with already deployed contract.
func (a *app) dialPond(ctx context.Context) (*remoteBlockchain, error) {
	if a.cfg.Contract == "" {
		return nil, errors.New("missing Pond contract address")
	}

	h, err := parseAccount(a.cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("invalid contract: %w", err)
	}

	b, err := a.dial(ctx)
	if err != nil {
		return nil, err
	}

	b.contract = h

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

func (x *remoteBlockchain) reader() *pond.ContractReader {
	return pond.NewReader(invoker.New(x.rpc, nil), x.contract)
}

// openAccount reads signing account from the wallet configured and decrypts it.
func (a *app) openAccount() (*wallet.Account, error) {
	if a.cfg.Wallet == "" {
		return nil, errors.New("missing wallet")
	}

	w, err := wallet.NewWalletFromFile(a.cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	h := w.GetChangeAddress()
	if a.cfg.Address != "" {
		h, err = address.StringToUint160(a.cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address.Uint160ToString(h))
	}

	err = acc.Decrypt(a.cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

func (x *remoteBlockchain) newActor(acc *wallet.Account) (*actor.Actor, error) {
	act, err := actor.NewSimple(x.rpc, acc)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}
	return act, nil
}

func (x *remoteBlockchain) writer(acc *wallet.Account) (*pond.Contract, *actor.Actor, error) {
	act, err := x.newActor(acc)
	if err != nil {
		return nil, nil, err
	}
	return pond.New(act, x.contract), act, nil
}

// await waits for the transaction sent and returns its application log. FAULT
// exception is returned as an error.
func await(act *actor.Actor, h util.Uint256, vub uint32, err error) (*result.ApplicationLog, error) {
	res, err := act.Wait(h, vub, err)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction: %w", err)
	}

	if !res.VMState.HasFlag(vmstate.Halt) {
		if res.FaultException == "" {
			return nil, fmt.Errorf("transaction %s failed with VM state %s", h.StringLE(), res.VMState)
		}
		return nil, fmt.Errorf("transaction %s failed: %w", h.StringLE(), pond.ErrorFromException(res.FaultException))
	}

	return &result.ApplicationLog{
		Container:  res.Container,
		Executions: []state.Execution{res.Execution},
	}, nil
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
