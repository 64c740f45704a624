package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/pondrep/pond-contract/catalog"
	"github.com/pondrep/pond-contract/deploy"
	"github.com/spf13/cobra"
)

type deployFlags struct {
	nef      string
	manifest string
	catalog  string
}

func newDeployCmd(a *app) *cobra.Command {
	f := new(deployFlags)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy Pond contract or update the one set by --contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDeploy(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.nef, "nef", "", "Compiled contract NEF file")
	flags.StringVar(&f.manifest, "manifest", "", "Contract manifest file")
	flags.StringVar(&f.catalog, "catalog", "", "YAML badge catalog (default: built into the contract)")

	return cmd
}

func (a *app) runDeploy(cmd *cobra.Command, f *deployFlags) error {
	if f.nef == "" || f.manifest == "" {
		return errors.New("both --nef and --manifest are required")
	}

	prm := deploy.Prm{Logger: a.log}

	var err error

	prm.NEF, prm.Manifest, err = readContract(f.nef, f.manifest)
	if err != nil {
		return err
	}

	if f.catalog != "" {
		c, err := catalog.Load(f.catalog)
		if err != nil {
			return err
		}
		prm.Catalog = c.DeployData()
	}

	if a.cfg.Contract != "" {
		prm.Contract, err = parseAccount(a.cfg.Contract)
		if err != nil {
			return fmt.Errorf("invalid contract: %w", err)
		}
	}

	prm.Account, err = a.openAccount()
	if err != nil {
		return err
	}

	b, err := a.dial(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	prm.Blockchain = b.rpc

	addr, err := deploy.Deploy(cmd.Context(), prm)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (0x%s)\n", address.Uint160ToString(addr), addr.StringLE())

	return nil
}

func readContract(nefPath, manifestPath string) (nef.File, manifest.Manifest, error) {
	var m manifest.Manifest

	rawNEF, err := os.ReadFile(nefPath)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("read NEF: %w", err)
	}

	n, err := nef.FileFromBytes(rawNEF)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("decode NEF: %w", err)
	}

	rawManifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("read manifest: %w", err)
	}

	err = json.Unmarshal(rawManifest, &m)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("decode manifest: %w", err)
	}

	return n, m, nil
}
