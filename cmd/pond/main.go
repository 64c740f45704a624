package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pondrep/pond-contract/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagConfig   = "config"
	flagRPC      = "rpc"
	flagWallet   = "wallet"
	flagAddress  = "address"
	flagContract = "contract"
	flagTimeout  = "timeout"
	flagDebug    = "debug"

	passwordEnv = "POND_WALLET_PASSWORD"
)

var version = fmt.Sprintf("%d.%d.%d",
	common.Version/1_000_000, common.Version/1_000%1_000, common.Version%1_000)

type globalFlags struct {
	config   string
	rpc      string
	wallet   string
	address  string
	contract string
	timeout  time.Duration
	debug    bool
}

// app is shared by all commands and initialized before any of them runs.
type app struct {
	flags globalFlags
	cfg   Config
	log   *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := new(app)

	root := &cobra.Command{
		Use:           "pond",
		Short:         "Operate Pond reputation contract",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.config, flagConfig, "", "YAML configuration file")
	flags.StringVar(&a.flags.rpc, flagRPC, "", "Neo RPC endpoint")
	flags.StringVar(&a.flags.wallet, flagWallet, "", "NEP-6 wallet with the signing account (password is read from "+passwordEnv+")")
	flags.StringVar(&a.flags.address, flagAddress, "", "Signing account address (default: wallet change address)")
	flags.StringVar(&a.flags.contract, flagContract, "", "Pond contract address or script hash")
	flags.DurationVar(&a.flags.timeout, flagTimeout, defaultTimeout, "Dial and request timeout")
	flags.BoolVar(&a.flags.debug, flagDebug, false, "Enable debug logging")

	root.AddCommand(
		newDeployCmd(a),
		newReputationCmd(a),
		newScoreCmd(a),
		newBadgesCmd(a),
		newReadyCmd(a),
		newEligibilityCmd(a),
		newCatalogCmd(a),
		newAccountsCmd(a),
		newDumpCmd(a),
		newBoostCmd(a),
		newMultiBoostCmd(a),
		newDecayCmd(a),
		newMintCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.flags.config)
	if err != nil {
		return err
	}

	cfg.override(cmd, &a.flags)
	a.cfg = cfg

	if a.flags.debug {
		a.log, err = zap.NewDevelopment()
	} else {
		a.log, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	return nil
}
