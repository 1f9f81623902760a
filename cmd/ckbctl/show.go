package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/db"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Print the configuration a panel daemon would run with: file, environment and provisioned preferences merged",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		prefs, err := db.GetPrefs(config.PrefsNamespace)
		if err != nil {
			return err
		}
		if err := cfg.OverlayPrefs(prefs); err != nil {
			return err
		}
		if cfg.Link.Password != "" {
			cfg.Link.Password = "********"
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
