package commands

import (
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewLedgerCmd returns the command that runs the development ledger
func NewLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Run an in-memory development ledger",
		PreRunE: loadConfig,
		RunE:    runLedger,
	}
	AddLedgerFlags(cmd)
	return cmd
}

//AddLedgerFlags adds flags to the ledger command
func AddLedgerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for the ledger API")
	cmd.Flags().Int("commit-after", _config.CommitAfter, "Status requests before a transaction is committed")
}

func runLedger(cmd *cobra.Command, args []string) error {
	logger := _config.Logger()

	logger.WithFields(logrus.Fields{
		"service_listen": _config.ServiceAddr,
		"commit_after":   _config.CommitAfter,
	}).Info("Starting development ledger")

	l := ledger.NewInmemLedger(_config.CommitAfter, logger.WithField("prefix", "ledger"))

	return service.NewService(_config.ServiceAddr, l, logger.WithField("prefix", "service")).Serve()
}
