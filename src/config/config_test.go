package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mosaicnetworks/provledger/src/concept"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	conf := NewDefaultConfig()
	require.NoError(t, conf.Validate())

	opts, err := conf.ConceptOptions()
	require.NoError(t, err)
	assert.Equal(t, concept.GraphConcept, opts.Concept)
	assert.Equal(t, concept.Continue, opts.FailurePolicy)
}

func TestValidate(t *testing.T) {
	conf := NewDefaultConfig()
	conf.Concept = "tree"
	conf.LedgerURLs = []string{"not a url"}
	conf.PollAttempts = 0

	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Concept must be one of: document graph role")
	assert.Contains(t, err.Error(), "LedgerURLs[0]")
	assert.Contains(t, err.Error(), "PollAttempts")
}

func TestValidateDocumentAccount(t *testing.T) {
	conf := NewDefaultConfig()
	conf.DocumentAccount = ""
	require.NoError(t, conf.Validate())

	conf.Concept = "document"
	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DocumentAccount is required")
}

func TestSetDataDir(t *testing.T) {
	conf := NewDefaultConfig()
	conf.SetDataDir("/tmp/provledger")
	assert.Equal(t, filepath.Join("/tmp/provledger", DefaultBadgerFile), conf.DatabaseDir)
	assert.Equal(t, filepath.Join("/tmp/provledger", DefaultSQLiteFile), conf.SQLitePath())

	conf.DatabaseDir = "/var/db/accounts"
	conf.SetDataDir("/tmp/other")
	assert.Equal(t, "/var/db/accounts", conf.DatabaseDir)
}

func TestPollPolicyAndClients(t *testing.T) {
	conf := NewDefaultConfig()
	conf.PollAttempts = 7
	conf.PollInterval = 50 * time.Millisecond
	conf.LedgerURLs = []string{"http://a:9984", "http://b:9984"}

	p := conf.PollPolicy()
	assert.Equal(t, 7, p.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, p.Interval)

	clients := conf.LedgerClients()
	require.Len(t, clients, 2)
	assert.Equal(t, "http://b:9984", clients[1].URL)
	assert.Equal(t, DefaultBreakerFailures, clients[1].BreakerFailures)
}

func TestLoggerWritesLogFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "provledger-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	conf := NewDefaultConfig()
	conf.LogFile = filepath.Join(dir, "provledger.log")
	conf.Logger().WithField("record_id", "abc").Info("hello")

	data, err := os.ReadFile(conf.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"record_id":"abc"`)
	assert.Contains(t, string(data), `"prefix":"provledger"`)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, LogLevel("warn"))
	assert.Equal(t, logrus.DebugLevel, LogLevel("chatty"))
}
