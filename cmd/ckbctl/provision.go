package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/b0ase/ckb-s3/internal/config"
	"github.com/b0ase/ckb-s3/internal/db"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Write panel preferences",
	Long:  "Merge WiFi, node URL and theme colors into the preference store, from flags or a provisioning JSON blob",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvision(cmd)
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)

	provisionCmd.Flags().StringP("file", "f", "", "provisioning JSON blob (wifi_ssid, wifi_pass, node_url, accent_r/g/b, bg_r/g/b)")
	provisionCmd.Flags().String("ssid", "", "WiFi SSID")
	provisionCmd.Flags().String("pass", "", "WiFi password")
	provisionCmd.Flags().String("url", "", "node RPC URL, e.g. http://192.168.1.5:8114")
	provisionCmd.Flags().IntSlice("accent", nil, "accent color as r,g,b")
	provisionCmd.Flags().IntSlice("bg", nil, "background color as r,g,b")
}

func provisioningFromFlags(cmd *cobra.Command) (*config.Provisioning, error) {
	p := &config.Provisioning{}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if p, err = config.ParseProvisioning(data); err != nil {
			return nil, err
		}
	}

	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	if v := str("ssid"); v != nil {
		p.WiFiSSID = v
	}
	if v := str("pass"); v != nil {
		p.WiFiPass = v
	}
	if v := str("url"); v != nil {
		p.NodeURL = v
	}

	rgb := func(name string) (r, g, b *int, err error) {
		if !cmd.Flags().Changed(name) {
			return nil, nil, nil, nil
		}
		v, _ := cmd.Flags().GetIntSlice(name)
		if len(v) != 3 {
			return nil, nil, nil, fmt.Errorf("--%s wants r,g,b", name)
		}
		return &v[0], &v[1], &v[2], nil
	}
	var err error
	if cmd.Flags().Changed("accent") {
		if p.AccentR, p.AccentG, p.AccentB, err = rgb("accent"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("bg") {
		if p.BgR, p.BgG, p.BgB, err = rgb("bg"); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func runProvision(cmd *cobra.Command) error {
	p, err := provisioningFromFlags(cmd)
	if err != nil {
		return err
	}
	if _, err := openStore(); err != nil {
		return err
	}
	defer db.Close()

	existing, err := db.GetPrefs(config.PrefsNamespace)
	if err != nil {
		return err
	}
	prefs, err := p.Apply(existing)
	if err != nil {
		return err
	}
	if err := db.SetPrefs(config.PrefsNamespace, prefs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "provisioned %d preferences in %s; restart the panel daemons to apply\n", len(prefs), db.Path())
	return nil
}
