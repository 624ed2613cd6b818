package commands

import (
	"github.com/spf13/cobra"
)

//RootCmd is the root command for provledger
var RootCmd = &cobra.Command{
	Use:              "provledger",
	Short:            "provenance documents on an append-only ledger",
	TraverseChildren: true,
}

func init() {
	RootCmd.PersistentFlags().StringP("datadir", "d", _config.DataDir, "Top-level directory for configuration and data")
	RootCmd.PersistentFlags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	RootCmd.PersistentFlags().String("log-file", _config.LogFile, "File receiving a copy of the logs")
	RootCmd.PersistentFlags().StringP("output", "o", _config.Output, "Output format: text, json or yaml")
}
