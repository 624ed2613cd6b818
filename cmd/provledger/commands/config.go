package commands

import (
	"github.com/mosaicnetworks/provledger/src/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var _config = config.NewDefaultConfig()

// AddClientFlags adds the flags of commands talking to a ledger.
func AddClientFlags(cmd *cobra.Command) {
	// Ledger
	cmd.Flags().StringSlice("ledger", _config.LedgerURLs, "Base URLs of the ledger nodes")
	cmd.Flags().String("selection", _config.Selection, "Ledger node selection: round-robin or random")
	cmd.Flags().DurationP("timeout", "t", _config.LedgerTimeout, "Timeout of a ledger request")
	cmd.Flags().Int("breaker-failures", _config.BreakerFailures, "Consecutive failures opening the circuit breaker")
	cmd.Flags().Duration("breaker-timeout", _config.BreakerTimeout, "Time an open circuit breaker rejects requests")

	// Polling
	cmd.Flags().Int("poll-attempts", _config.PollAttempts, "Max number of status requests per record")
	cmd.Flags().Duration("poll-interval", _config.PollInterval, "Time between status requests")
	cmd.Flags().Float64("poll-multiplier", _config.PollMultiplier, "Backoff multiplier of the poll interval")
	cmd.Flags().Duration("poll-max-interval", _config.PollMaxInterval, "Max time between status requests")
	cmd.Flags().Bool("confirm-reads", _config.ConfirmReads, "Wait for records to be in a valid block when reading")

	// Accounts
	cmd.Flags().String("store", _config.Store, "Account database: badger, sqlite or inmem")
	cmd.Flags().String("db", _config.DatabaseDir, "Account database directory")

	// Metrics
	cmd.Flags().String("metrics-listen", _config.MetricsAddr, "Listen IP:Port for prometheus metrics")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.SetDataDir(_config.DataDir)

	if err := _config.Validate(); err != nil {
		return err
	}

	_config.Logger().WithFields(logrus.Fields{
		"DataDir":       _config.DataDir,
		"Concept":       _config.Concept,
		"FailurePolicy": _config.FailurePolicy,
		"Store":         _config.Store,
		"DatabaseDir":   _config.DatabaseDir,
		"LedgerURLs":    _config.LedgerURLs,
		"Selection":     _config.Selection,
		"PollAttempts":  _config.PollAttempts,
		"PollInterval":  _config.PollInterval,
		"ConfirmReads":  _config.ConfirmReads,
		"MetricsAddr":   _config.MetricsAddr,
	}).Debug("Config")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/provledger.toml (.json, .yaml also work)
	viper.SetConfigName("provledger") // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
