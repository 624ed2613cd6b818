package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mosaicnetworks/provledger/src/common"
	"github.com/mosaicnetworks/provledger/src/concept"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/oracle"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database
	DefaultBadgerFile = "badger_db"

	// DefaultSQLiteFile is the default name of the SQLite database file.
	DefaultSQLiteFile = "accounts.db"
)

// Default configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultConcept         = "graph"
	DefaultFailurePolicy   = "continue"
	DefaultDocumentAccount = "provledger:document"
	DefaultStore           = "badger"
	DefaultLedgerURL       = "http://127.0.0.1:9984"
	DefaultSelection       = "round-robin"
	DefaultLedgerTimeout   = 10 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
	DefaultPollAttempts    = 60
	DefaultPollInterval    = time.Second
	DefaultPollMultiplier  = 1.0
	DefaultPollMaxInterval = 10 * time.Second
	DefaultConfirmReads    = false
	DefaultServiceAddr     = "127.0.0.1:9984"
	DefaultMetricsAddr     = ""
	DefaultCommitAfter     = 1
	DefaultOutput          = "text"
)

// Config contains all the configuration properties of provledger.
type Config struct {
	// DataDir is the top-level directory containing provledger configuration
	// and data
	DataDir string `mapstructure:"datadir" validate:"required"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log" validate:"oneof=debug info warn error fatal panic"`

	// LogFile, when set, receives a copy of the log output.
	LogFile string `mapstructure:"log-file"`

	// Concept selects how documents are mapped onto accounts: document, graph
	// or role.
	Concept string `mapstructure:"concept" validate:"oneof=document graph role"`

	// FailurePolicy decides whether a failed relation write stops the save
	// (abort) or is only reported (continue).
	FailurePolicy string `mapstructure:"failure-policy" validate:"oneof=continue abort"`

	// DocumentAccount is the account owning documents saved with the document
	// concept.
	DocumentAccount string `mapstructure:"document-account" validate:"required_if=Concept document"`

	// Store is the kind of account database: badger, sqlite or inmem. The
	// inmem store forgets accounts when the process exits.
	Store string `mapstructure:"store" validate:"oneof=badger sqlite inmem"`

	// DatabaseDir is the location of the account database.
	DatabaseDir string `mapstructure:"db"`

	// LedgerURLs are the base URLs of the ledger nodes. Requests are spread
	// over them according to Selection.
	LedgerURLs []string `mapstructure:"ledger" validate:"min=1,dive,url"`

	// Selection is the strategy used to pick a ledger node: round-robin or
	// random.
	Selection string `mapstructure:"selection" validate:"oneof=round-robin random"`

	// LedgerTimeout is the timeout of a single ledger request.
	LedgerTimeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	// BreakerFailures is the number of consecutive failed requests after
	// which a ledger node is not called for BreakerTimeout.
	BreakerFailures int `mapstructure:"breaker-failures" validate:"min=1"`

	// BreakerTimeout is how long an open breaker rejects requests.
	BreakerTimeout time.Duration `mapstructure:"breaker-timeout" validate:"gt=0"`

	// PollAttempts bounds the number of status requests made while waiting
	// for a record.
	PollAttempts int `mapstructure:"poll-attempts" validate:"min=1"`

	// PollInterval is the initial wait between two status requests.
	PollInterval time.Duration `mapstructure:"poll-interval" validate:"gte=0"`

	// PollMultiplier grows the wait after every status request. Values of 1
	// or less keep it fixed.
	PollMultiplier float64 `mapstructure:"poll-multiplier" validate:"gte=0"`

	// PollMaxInterval caps the wait between two status requests.
	PollMaxInterval time.Duration `mapstructure:"poll-max-interval" validate:"gte=0"`

	// ConfirmReads makes reads wait until every record is in a valid block
	// instead of checking it once.
	ConfirmReads bool `mapstructure:"confirm-reads"`

	// ServiceAddr is the address:port of the development ledger service.
	ServiceAddr string `mapstructure:"service-listen"`

	// MetricsAddr is the address:port where prometheus metrics are served.
	// Metrics are not served when it is empty.
	MetricsAddr string `mapstructure:"metrics-listen"`

	// CommitAfter is the number of status requests after which the
	// development ledger commits a transaction.
	CommitAfter int `mapstructure:"commit-after" validate:"gte=0"`

	// Output is the format of command results: text, json or yaml.
	Output string `mapstructure:"output" validate:"oneof=text json yaml"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:         DefaultDataDir(),
		LogLevel:        DefaultLogLevel,
		Concept:         DefaultConcept,
		FailurePolicy:   DefaultFailurePolicy,
		DocumentAccount: DefaultDocumentAccount,
		Store:           DefaultStore,
		DatabaseDir:     DefaultDatabaseDir(),
		LedgerURLs:      []string{DefaultLedgerURL},
		Selection:       DefaultSelection,
		LedgerTimeout:   DefaultLedgerTimeout,
		BreakerFailures: DefaultBreakerFailures,
		BreakerTimeout:  DefaultBreakerTimeout,
		PollAttempts:    DefaultPollAttempts,
		PollInterval:    DefaultPollInterval,
		PollMultiplier:  DefaultPollMultiplier,
		PollMaxInterval: DefaultPollMaxInterval,
		ConfirmReads:    DefaultConfirmReads,
		ServiceAddr:     DefaultServiceAddr,
		MetricsAddr:     DefaultMetricsAddr,
		CommitAfter:     DefaultCommitAfter,
		Output:          DefaultOutput,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level provledger directory, and updates the
// database directory if it is currently set to the default value. If the
// database directory is not currently the default, it means the user has
// explicitely set it to something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// SQLitePath returns the path of the SQLite account database, which lives
// next to the badger directory.
func (c *Config) SQLitePath() string {
	return filepath.Join(filepath.Dir(c.DatabaseDir), DefaultSQLiteFile)
}

var validate = validator.New()

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", e.Field(), e.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// PollPolicy returns the policy of the confirmation oracle.
func (c *Config) PollPolicy() oracle.Policy {
	return oracle.Policy{
		MaxAttempts: c.PollAttempts,
		Interval:    c.PollInterval,
		Multiplier:  c.PollMultiplier,
		MaxInterval: c.PollMaxInterval,
	}
}

// LedgerClients returns the configuration of one HTTP client per ledger URL.
func (c *Config) LedgerClients() []ledger.HTTPClientConfig {
	res := make([]ledger.HTTPClientConfig, 0, len(c.LedgerURLs))
	for _, u := range c.LedgerURLs {
		res = append(res, ledger.HTTPClientConfig{
			URL:             u,
			Timeout:         c.LedgerTimeout,
			BreakerFailures: uint32(c.BreakerFailures),
			BreakerTimeout:  c.BreakerTimeout,
		})
	}
	return res
}

// ConceptOptions returns the options of the concept client.
func (c *Config) ConceptOptions() (concept.Options, error) {
	con, err := concept.ParseConcept(c.Concept)
	if err != nil {
		return concept.Options{}, err
	}
	policy, err := concept.ParseFailurePolicy(c.FailurePolicy)
	if err != nil {
		return concept.Options{}, err
	}
	return concept.Options{
		Concept:           con,
		FailurePolicy:     policy,
		DocumentAccountID: c.DocumentAccount,
	}, nil
}

// Logger returns a formatted logrus Entry, with prefix set to "provledger".
// When LogFile is set, every entry is also written to that file.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
		if c.LogFile != "" {
			c.logger.Hooks.Add(lfshook.NewHook(
				c.LogFile,
				&logrus.JSONFormatter{},
			))
		}
	}
	return c.logger.WithField("prefix", "provledger")
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level provledger
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Provledger")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Provledger")
		} else {
			return filepath.Join(home, ".provledger")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
