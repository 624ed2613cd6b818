package writer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mosaicnetworks/provledger/src/accounts"
	"github.com/mosaicnetworks/provledger/src/common"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/metrics"
	"github.com/mosaicnetworks/provledger/src/oracle"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manglingLedger alters the echo of CREATE submissions.
type manglingLedger struct {
	*ledger.InmemLedger
}

func (l *manglingLedger) CreateRecord(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	echo, err := l.InmemLedger.CreateRecord(ctx, tx)
	if err != nil {
		return nil, err
	}
	echo.Body.Metadata = map[string]string{"tampered": "yes"}
	return echo, nil
}

// refusingLedger fails every TRANSFER.
type refusingLedger struct {
	*ledger.InmemLedger
}

var errRefused = errors.New("transfer refused")

func (l *refusingLedger) TransferRecord(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	return nil, errRefused
}

func newWriter(t *testing.T, l ledger.Ledger, m *metrics.Collector) *Writer {
	policy := oracle.Policy{MaxAttempts: 5, Interval: time.Millisecond, Multiplier: 1}
	o := oracle.NewOracle(l, policy, m, common.NewTestEntry(t, "oracle"))
	return NewWriter(l, o, m, common.NewTestEntry(t, "writer"))
}

func newAccount(t *testing.T, nodeID string) *accounts.Account {
	r := accounts.NewRegistry(accounts.NewInmemStore(), common.NewTestEntry(t, "accounts"))
	a, err := r.GetOrCreate(context.Background(), nodeID)
	require.NoError(t, err)
	return a
}

func TestCreateAndPublish(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInmemLedger(1, common.NewTestEntry(t, "ledger"))
	m := metrics.NewCollector("test")
	w := newWriter(t, l, m)

	owner := newAccount(t, "ex:a")
	recipient := newAccount(t, "ex:b")

	payload := ledger.Payload{Prov: `{"entity":{"ex:a":{}}}`}
	pub, err := w.CreateAndPublish(ctx, owner, recipient.PublicKey, payload, map[string]string{"node": "ex:a"})
	require.NoError(t, err)
	require.NotEqual(t, pub.CreateID, pub.TransferID)

	create, err := l.FetchRecord(ctx, pub.CreateID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Create, create.Body.Operation)
	assert.Equal(t, owner.PublicKey, create.Body.Owner)
	assert.Equal(t, owner.PublicKey, create.Body.Recipient)
	assert.Equal(t, payload, *create.Body.Asset.Data)

	transfer, err := l.FetchRecord(ctx, pub.TransferID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Transfer, transfer.Body.Operation)
	assert.Equal(t, pub.CreateID, transfer.Body.Asset.ID)
	assert.Equal(t, recipient.PublicKey, transfer.Body.Recipient)

	status, err := l.RecordStatus(ctx, pub.TransferID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCommitted, status)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published.WithLabelValues("transfer")))
}

func TestCreateAndPublishRepublishYieldsNewRecords(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewInmemLedger(0, common.NewTestEntry(t, "ledger"))
	w := newWriter(t, l, nil)
	owner := newAccount(t, "ex:a")

	payload := ledger.Payload{Prov: "{}"}
	first, err := w.CreateAndPublish(ctx, owner, owner.PublicKey, payload, nil)
	require.NoError(t, err)
	second, err := w.CreateAndPublish(ctx, owner, owner.PublicKey, payload, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.CreateID, second.CreateID)
	assert.Equal(t, 4, l.Len())
}

func TestCreateAndPublishMismatch(t *testing.T) {
	inner := ledger.NewInmemLedger(0, common.NewTestEntry(t, "ledger"))
	w := newWriter(t, &manglingLedger{inner}, nil)
	owner := newAccount(t, "ex:a")

	_, err := w.CreateAndPublish(context.Background(), owner, owner.PublicKey, ledger.Payload{Prov: "{}"}, nil)
	require.Error(t, err)
	assert.True(t, IsCreateMismatch(err))
	assert.False(t, IsTransferError(err))
	assert.Equal(t, 0, inner.Calls("transfer"))
	assert.Equal(t, 0, inner.Calls("status"))
}

func TestCreateAndPublishTransferFailure(t *testing.T) {
	inner := ledger.NewInmemLedger(0, common.NewTestEntry(t, "ledger"))
	w := newWriter(t, &refusingLedger{inner}, nil)
	owner := newAccount(t, "ex:a")

	_, err := w.CreateAndPublish(context.Background(), owner, owner.PublicKey, ledger.Payload{Prov: "{}"}, nil)
	require.Error(t, err)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, errRefused)

	create, err := inner.FetchRecord(context.Background(), te.CreateID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Create, create.Body.Operation)
}

func TestCreateAndPublishUncommitted(t *testing.T) {
	l := ledger.NewInmemLedger(100, common.NewTestEntry(t, "ledger"))
	w := newWriter(t, l, nil)
	owner := newAccount(t, "ex:a")

	_, err := w.CreateAndPublish(context.Background(), owner, owner.PublicKey, ledger.Payload{Prov: "{}"}, nil)
	assert.True(t, oracle.IsTransactionNotFound(err))
	assert.Equal(t, 5, l.Calls("status"))
	assert.Equal(t, 0, l.Calls("transfer"))
}
