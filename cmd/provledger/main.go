package main

import (
	"os"

	cmd "github.com/mosaicnetworks/provledger/cmd/provledger/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.NewSaveCmd(),
		cmd.NewGetCmd(),
		cmd.NewLedgerCmd(),
		cmd.NewKeygenCmd(),
		cmd.VersionCmd,
	)

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
