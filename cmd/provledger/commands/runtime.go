package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/mosaicnetworks/provledger/src/accounts"
	"github.com/mosaicnetworks/provledger/src/assemble"
	"github.com/mosaicnetworks/provledger/src/concept"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/metrics"
	"github.com/mosaicnetworks/provledger/src/oracle"
	"github.com/mosaicnetworks/provledger/src/writer"
)

// runtime holds the components built from the configuration for one command.
type runtime struct {
	store   accounts.Store
	metrics *metrics.Collector
	client  *concept.Client
}

func newRuntime() (*runtime, error) {
	logger := _config.Logger()

	store, err := openStore()
	if err != nil {
		return nil, err
	}

	m := metrics.NewCollector("provledger")
	serveMetrics(m)

	l, err := newLedger(m)
	if err != nil {
		store.Close()
		return nil, err
	}

	opts, err := _config.ConceptOptions()
	if err != nil {
		store.Close()
		return nil, err
	}

	o := oracle.NewOracle(l, _config.PollPolicy(), m, logger.WithField("prefix", "oracle"))
	w := writer.NewWriter(l, o, m, logger.WithField("prefix", "writer"))
	asm := assemble.NewAssembler(l, o, _config.ConfirmReads, logger.WithField("prefix", "assemble"))
	reg := accounts.NewRegistry(store, logger.WithField("prefix", "accounts"))

	return &runtime{
		store:   store,
		metrics: m,
		client:  concept.NewClient(reg, w, asm, opts, logger.WithField("prefix", "concept")),
	}, nil
}

func (r *runtime) Close() error {
	return r.store.Close()
}

func openStore() (accounts.Store, error) {
	switch _config.Store {
	case "badger":
		if err := os.MkdirAll(_config.DatabaseDir, 0700); err != nil {
			return nil, err
		}
		return accounts.NewBadgerStore(_config.DatabaseDir, _config.Logger().WithField("prefix", "badger"))
	case "sqlite":
		if err := os.MkdirAll(_config.DataDir, 0700); err != nil {
			return nil, err
		}
		return accounts.NewSQLiteStore(_config.SQLitePath())
	case "inmem":
		return accounts.NewInmemStore(), nil
	}
	return nil, fmt.Errorf("unknown store %q", _config.Store)
}

func newLedger(m *metrics.Collector) (ledger.Ledger, error) {
	confs := _config.LedgerClients()

	clients := make([]ledger.Ledger, 0, len(confs))
	for _, conf := range confs {
		c := ledger.NewHTTPClient(conf, m, _config.Logger().WithField("prefix", "ledger"))
		_config.Logger().WithField("url", c.URL()).Debug("Ledger client")
		clients = append(clients, c)
	}

	selector, err := ledger.NewSelector(_config.Selection, len(clients))
	if err != nil {
		return nil, err
	}

	pool, err := ledger.NewPool(clients, selector)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func serveMetrics(m *metrics.Collector) {
	if _config.MetricsAddr == "" {
		return
	}

	go func() {
		_config.Logger().WithField("metrics_address", _config.MetricsAddr).Debug("Serving metrics")
		if err := http.ListenAndServe(_config.MetricsAddr, m.Handler()); err != nil {
			_config.Logger().WithError(err).Error("Metrics server stopped")
		}
	}()
}
