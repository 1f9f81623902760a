package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/db"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "ckbctl",
	Short:        "CKB panel utilities",
	Long:         "Provision panel preferences, manage the wallet key and inspect the effective configuration",
	SilenceUsage: true,
}

func init() {
	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(home, ".ckb-s3", "ckb.yaml"), "path to ckb.yaml")
}

// openStore loads the config and opens its preference store. The caller
// closes the store with db.Close.
func openStore() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, err
	}
	if err := db.Open(cfg.DBPath()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
