package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/b0ase/ckb-s3/internal/db"
	"github.com/b0ase/ckb-s3/internal/wallet"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the wallet signing key",
	Long:  "Import, generate, inspect or clear the secp256k1 key the wallet panel loads at boot",
}

var keyImportCmd = &cobra.Command{
	Use:   "import <hex>",
	Short: "Store a 32-byte private key given as 64 hex characters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openStore(); err != nil {
			return err
		}
		defer db.Close()

		k, err := wallet.Store(strings.TrimPrefix(args[0], "0x"))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored key, public key %s\n", k.PublicKeyHex())
		return nil
	},
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a new private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openStore(); err != nil {
			return err
		}
		defer db.Close()

		force, _ := cmd.Flags().GetBool("force")
		if _, err := wallet.Load(); err == nil && !force {
			return errors.New("a key is already stored; pass --force to replace it")
		}
		_, hexKey, err := wallet.Generate()
		if err != nil {
			return err
		}
		k, err := wallet.Store(hexKey)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated key, public key %s\n", k.PublicKeyHex())
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the public key of the stored key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openStore(); err != nil {
			return err
		}
		defer db.Close()

		k, err := wallet.Load()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), k.PublicKeyHex())
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openStore(); err != nil {
			return err
		}
		defer db.Close()

		if err := wallet.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "key cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyImportCmd, keyGenerateCmd, keyShowCmd, keyClearCmd)

	keyGenerateCmd.Flags().Bool("force", false, "replace an existing key")
}
