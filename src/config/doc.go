// Package config defines the configuration of provledger.
//
// The command line binds its flags to a Config through viper. On top of the
// flags, provledger relies on a data directory, defined by Config.DataDir,
// where it keeps its account database and looks for an optional
// configuration file:
//
//  provledger.toml // (or .yaml, .json) values for any of the flags.
//  badger_db       // the account database when store=badger.
//  accounts.db     // the account database when store=sqlite.
package config
