package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		require.Equal(t, Config{Timeout: defaultTimeout}, cfg)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := loadConfig(writeConfig(t, ""))
		require.NoError(t, err)
		require.Equal(t, Config{Timeout: defaultTimeout}, cfg)
	})

	t.Run("full", func(t *testing.T) {
		cfg, err := loadConfig(writeConfig(t, `
rpc: http://localhost:30333
wallet: /etc/pond/wallet.json
address: NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP
password: secret
contract: 0x0102030405060708090a0b0c0d0e0f1011121314
timeout: 1m
`))
		require.NoError(t, err)
		require.Equal(t, Config{
			RPC:      "http://localhost:30333",
			Wallet:   "/etc/pond/wallet.json",
			Address:  "NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP",
			Password: "secret",
			Contract: "0x0102030405060708090a0b0c0d0e0f1011121314",
			Timeout:  time.Minute,
		}, cfg)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, "endpoint: http://localhost:30333\n"))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfig_Override(t *testing.T) {
	t.Setenv(passwordEnv, "from-env")

	root := newRootCmd()

	cmd, _, err := root.Find([]string{"catalog"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--rpc", "http://example.com:30333", "--timeout", "3s"}))

	cfg := Config{
		RPC:      "http://localhost:30333",
		Wallet:   "wallet.json",
		Password: "from-file",
		Timeout:  defaultTimeout,
	}

	cfg.override(cmd, &globalFlags{
		rpc:     "http://example.com:30333",
		wallet:  "ignored.json",
		timeout: 3 * time.Second,
	})

	require.Equal(t, Config{
		RPC:      "http://example.com:30333",
		Wallet:   "wallet.json",
		Password: "from-env",
		Timeout:  3 * time.Second,
	}, cfg)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, Config{RPC: "http://localhost:30333", Timeout: time.Second}.validate())
	require.Error(t, Config{Timeout: time.Second}.validate())
	require.Error(t, Config{RPC: "http://localhost:30333"}.validate())
	require.Error(t, Config{RPC: "http://localhost:30333", Timeout: -time.Second}.validate())
}
