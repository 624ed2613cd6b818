package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mosaicnetworks/provledger/src/common"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) CreateRecord(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *mockLedger) TransferRecord(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *mockLedger) RecordStatus(ctx context.Context, id string) (ledger.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.Status), args.Error(1)
}

func (m *mockLedger) EnclosingBlocks(ctx context.Context, id string) ([]ledger.Block, error) {
	args := m.Called(ctx, id)
	blocks, _ := args.Get(0).([]ledger.Block)
	return blocks, args.Error(1)
}

func (m *mockLedger) FetchRecord(ctx context.Context, id string) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, Interval: time.Millisecond, Multiplier: 1}
}

func newOracle(t *testing.T, l ledger.Ledger, attempts int) *Oracle {
	return NewOracle(l, fastPolicy(attempts), nil, common.NewTestEntry(t, "oracle"))
}

func TestWaitUntilCommittedPollsUntilCommitted(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusPending, nil).Twice()
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusCommitted, nil).Once()

	err := newOracle(t, m, 10).WaitUntilCommitted(context.Background(), "tx")
	require.NoError(t, err)
	m.AssertNumberOfCalls(t, "RecordStatus", 3)
}

func TestWaitUntilCommittedExhausted(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusPending, nil)

	err := newOracle(t, m, 4).WaitUntilCommitted(context.Background(), "tx")
	require.Error(t, err)
	assert.True(t, IsTransactionNotFound(err))

	var tnf *TransactionNotFoundError
	require.ErrorAs(t, err, &tnf)
	assert.True(t, tnf.Observed)
	assert.Equal(t, ledger.StatusPending, tnf.LastStatus)
	assert.Equal(t, 4, tnf.Attempts)
	m.AssertNumberOfCalls(t, "RecordStatus", 4)
}

func TestWaitUntilCommittedNeverObserved(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.Status(""), ledger.ErrNotFound)

	err := newOracle(t, m, 3).WaitUntilCommitted(context.Background(), "tx")

	var tnf *TransactionNotFoundError
	require.ErrorAs(t, err, &tnf)
	assert.False(t, tnf.Observed)
	assert.Contains(t, err.Error(), "never observed")
}

func TestWaitUntilCommittedUndecidedThenRejected(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusUndecided, nil).Once()
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusRejected, nil).Once()

	err := newOracle(t, m, 5).WaitUntilCommitted(context.Background(), "tx")
	assert.True(t, IsRejected(err))
	m.AssertNumberOfCalls(t, "RecordStatus", 2)
}

func TestWaitUntilCommittedPropagatesLedgerErrors(t *testing.T) {
	boom := errors.New("connection refused")
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.Status(""), boom)

	err := newOracle(t, m, 5).WaitUntilCommitted(context.Background(), "tx")
	assert.ErrorIs(t, err, boom)
	m.AssertNumberOfCalls(t, "RecordStatus", 1)
}

func TestIsEnclosingBlockValid(t *testing.T) {
	m := new(mockLedger)
	m.On("EnclosingBlocks", mock.Anything, "none").Return(nil, nil)
	m.On("EnclosingBlocks", mock.Anything, "one").Return([]ledger.Block{{ID: "1", Validity: ledger.Valid}}, nil)
	m.On("EnclosingBlocks", mock.Anything, "bad").Return([]ledger.Block{{ID: "1", Validity: ledger.Invalid}}, nil)
	m.On("EnclosingBlocks", mock.Anything, "two").Return([]ledger.Block{{ID: "1"}, {ID: "2"}}, nil)

	o := newOracle(t, m, 1)
	ctx := context.Background()

	_, err := o.IsEnclosingBlockValid(ctx, "none")
	assert.True(t, IsBlockNotFound(err))

	valid, err := o.IsEnclosingBlockValid(ctx, "one")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = o.IsEnclosingBlockValid(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = o.IsEnclosingBlockValid(ctx, "two")
	var bnf *BlockNotFoundError
	require.ErrorAs(t, err, &bnf)
	assert.True(t, bnf.Ambiguous)
}

func TestIsRecordValid(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "pending").Return(ledger.StatusPending, nil)
	m.On("RecordStatus", mock.Anything, "done").Return(ledger.StatusCommitted, nil)
	m.On("RecordStatus", mock.Anything, "gone").Return(ledger.Status(""), ledger.ErrNotFound)

	o := newOracle(t, m, 1)
	ctx := context.Background()

	valid, err := o.IsRecordValid(ctx, "pending")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = o.IsRecordValid(ctx, "done")
	require.NoError(t, err)
	assert.True(t, valid)

	_, err = o.IsRecordValid(ctx, "gone")
	assert.True(t, IsTransactionNotFound(err))
}

func TestWaitUntilDurable(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusCommitted, nil)
	m.On("EnclosingBlocks", mock.Anything, "tx").Return(nil, nil).Once()
	m.On("EnclosingBlocks", mock.Anything, "tx").Return([]ledger.Block{{ID: "1", Validity: ledger.Unknown}}, nil).Once()
	m.On("EnclosingBlocks", mock.Anything, "tx").Return([]ledger.Block{{ID: "1", Validity: ledger.Valid}}, nil).Once()

	err := newOracle(t, m, 5).WaitUntilDurable(context.Background(), "tx")
	require.NoError(t, err)
	m.AssertNumberOfCalls(t, "EnclosingBlocks", 3)
}

func TestWaitUntilDurableInvalidBlock(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusCommitted, nil)
	m.On("EnclosingBlocks", mock.Anything, "tx").Return([]ledger.Block{{ID: "9", Validity: ledger.Invalid}}, nil)

	err := newOracle(t, m, 5).WaitUntilDurable(context.Background(), "tx")
	var ibe *InvalidBlockError
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, "9", ibe.BlockID)
}

func TestWaitUntilDurableNoBlock(t *testing.T) {
	m := new(mockLedger)
	m.On("RecordStatus", mock.Anything, "tx").Return(ledger.StatusCommitted, nil)
	m.On("EnclosingBlocks", mock.Anything, "tx").Return(nil, nil)

	err := newOracle(t, m, 3).WaitUntilDurable(context.Background(), "tx")
	assert.True(t, IsBlockNotFound(err))
}
