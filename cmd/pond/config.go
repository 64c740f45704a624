package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 15 * time.Second

// Config is the CLI configuration file. Command line flags take precedence.
type Config struct {
	// Neo RPC endpoint.
	RPC string `yaml:"rpc"`
	// Path to NEP-6 wallet with the signing account.
	Wallet string `yaml:"wallet"`
	// Address of the signing account, wallet change address by default.
	Address string `yaml:"address"`
	// Password of the signing account.
	Password string `yaml:"password"`
	// Pond contract address or script hash.
	Contract string `yaml:"contract"`
	// Dial and request timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// loadConfig reads YAML configuration file. Empty path results in defaults.
func loadConfig(path string) (Config, error) {
	cfg := Config{Timeout: defaultTimeout}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// override applies explicitly set command line flags.
func (c *Config) override(cmd *cobra.Command, f *globalFlags) {
	flags := cmd.Flags()

	if flags.Changed(flagRPC) {
		c.RPC = f.rpc
	}
	if flags.Changed(flagWallet) {
		c.Wallet = f.wallet
	}
	if flags.Changed(flagAddress) {
		c.Address = f.address
	}
	if flags.Changed(flagContract) {
		c.Contract = f.contract
	}
	if flags.Changed(flagTimeout) {
		c.Timeout = f.timeout
	}
	if pass, ok := os.LookupEnv(passwordEnv); ok {
		c.Password = pass
	}
}

func (c Config) validate() error {
	switch {
	case c.RPC == "":
		return errors.New("missing RPC endpoint")
	case c.Timeout <= 0:
		return fmt.Errorf("non-positive timeout %s", c.Timeout)
	}
	return nil
}
