package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/mosaicnetworks/provledger/src/accounts"
	"github.com/mosaicnetworks/provledger/src/crypto/keys"
	"github.com/spf13/cobra"
)

var nodeID string

// NewKeygenCmd produces a KeygenCmd which create a key pair
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keygen",
		Short:   "Create a key pair, or the account of a node",
		PreRunE: loadConfig,
		RunE:    keygen,
	}

	AddKeygenFlags(cmd)

	return cmd
}

//AddKeygenFlags adds flags to the keygen command
func AddKeygenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&nodeID, "node", "", "Node whose account is created, or shown if it exists")
	cmd.Flags().String("store", _config.Store, "Account database: badger, sqlite or inmem")
	cmd.Flags().String("db", _config.DatabaseDir, "Account database directory")
}

func keygen(cmd *cobra.Command, args []string) error {
	if nodeID == "" {
		key, err := keys.GenerateECDSAKey()
		if err != nil {
			return fmt.Errorf("Error generating ECDSA key")
		}
		acc := &accounts.Account{
			PublicKey:  keys.PublicKeyHex(&key.PublicKey),
			PrivateKey: keys.PrivateKeyHex(key),
		}
		return render(cmd.OutOrStdout(), acc, func(w io.Writer) error {
			return printAccount(w, acc)
		})
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	reg := accounts.NewRegistry(store, _config.Logger().WithField("prefix", "accounts"))
	acc, err := reg.GetOrCreate(context.Background(), nodeID)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), acc, func(w io.Writer) error {
		return printAccount(w, acc)
	})
}

func printAccount(w io.Writer, a *accounts.Account) error {
	if a.NodeID != "" {
		fmt.Fprintf(w, "Node: %s\n", a.NodeID)
	}
	fmt.Fprintf(w, "PublicKey: %s\n", a.PublicKey)
	fmt.Fprintf(w, "PrivateKey: %s\n", a.PrivateKey)
	if a.RecordID != "" {
		fmt.Fprintf(w, "Record: %s\n", a.RecordID)
	}
	return nil
}
