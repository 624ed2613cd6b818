package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type inmemEntry struct {
	tx     *Transaction
	status Status
	polls  int
	block  string
}

// InmemLedger is an in-process ledger. Submitted transactions stay pending
// until their status has been polled commitAfter times, then they are
// committed in a block of their own. Transfers may only spend committed
// records, and only their current owner may transfer them.
type InmemLedger struct {
	sync.Mutex

	commitAfter int
	entries     map[string]*inmemEntry
	owners      map[string]string
	blocks      int
	calls       map[string]int
	logger      *logrus.Entry
}

// NewInmemLedger ...
func NewInmemLedger(commitAfter int, logger *logrus.Entry) *InmemLedger {
	return &InmemLedger{
		commitAfter: commitAfter,
		entries:     make(map[string]*inmemEntry),
		owners:      make(map[string]string),
		calls:       make(map[string]int),
		logger:      logger,
	}
}

// Calls returns how many times an operation was invoked: "create",
// "transfer", "status", "blocks" or "fetch".
func (l *InmemLedger) Calls(operation string) int {
	l.Lock()
	defer l.Unlock()
	return l.calls[operation]
}

// Len returns the number of stored transactions.
func (l *InmemLedger) Len() int {
	l.Lock()
	defer l.Unlock()
	return len(l.entries)
}

// CreateRecord implements the Ledger interface.
func (l *InmemLedger) CreateRecord(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()
	l.calls["create"]++

	if tx.Body.Operation != Create {
		return nil, &InvalidTransactionError{ID: tx.ID, Reason: fmt.Sprintf("operation %s is not CREATE", tx.Body.Operation)}
	}
	if tx.Body.Asset.Data == nil {
		return nil, &InvalidTransactionError{ID: tx.ID, Reason: "missing asset data"}
	}

	if err := l.accept(tx); err != nil {
		return nil, err
	}
	l.owners[tx.ID] = tx.Body.Recipient

	return tx.Copy()
}

// TransferRecord implements the Ledger interface.
func (l *InmemLedger) TransferRecord(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()
	l.calls["transfer"]++

	if tx.Body.Operation != Transfer {
		return nil, &InvalidTransactionError{ID: tx.ID, Reason: fmt.Sprintf("operation %s is not TRANSFER", tx.Body.Operation)}
	}

	assetID := tx.Body.Asset.ID
	created, ok := l.entries[assetID]
	if !ok || created.tx.Body.Operation != Create {
		return nil, &InvalidTransactionError{ID: tx.ID, Reason: fmt.Sprintf("unknown asset %s", assetID)}
	}
	if created.status != StatusCommitted {
		return nil, &InvalidTransactionError{ID: tx.ID, Reason: fmt.Sprintf("asset %s is not committed", assetID)}
	}
	if owner := l.owners[assetID]; owner != tx.Body.Owner {
		return nil, &InvalidTransactionError{ID: tx.ID, Reason: "signer does not own the asset"}
	}

	if err := l.accept(tx); err != nil {
		return nil, err
	}
	l.owners[assetID] = tx.Body.Recipient

	return tx.Copy()
}

// accept verifies and stores a transaction. Callers hold the lock.
func (l *InmemLedger) accept(tx *Transaction) error {
	if tx.Body.Recipient == "" {
		return &InvalidTransactionError{ID: tx.ID, Reason: "missing recipient"}
	}
	ok, err := tx.Verify()
	if err != nil {
		return &InvalidTransactionError{ID: tx.ID, Reason: err.Error()}
	}
	if !ok {
		return &InvalidTransactionError{ID: tx.ID, Reason: "bad signature"}
	}
	if _, dup := l.entries[tx.ID]; dup {
		return &InvalidTransactionError{ID: tx.ID, Reason: "duplicate transaction"}
	}

	stored, err := tx.Copy()
	if err != nil {
		return err
	}
	l.entries[tx.ID] = &inmemEntry{tx: stored, status: StatusPending}

	l.logger.WithFields(logrus.Fields{
		"id":        tx.ID,
		"operation": tx.Body.Operation,
	}).Debug("Accepted transaction")

	return nil
}

// RecordStatus implements the Ledger interface. Every call counts as a poll
// and may commit the transaction.
func (l *InmemLedger) RecordStatus(ctx context.Context, id string) (Status, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.Lock()
	defer l.Unlock()
	l.calls["status"]++

	e, ok := l.entries[id]
	if !ok {
		return "", ErrNotFound
	}

	e.polls++
	if e.status == StatusPending && e.polls > l.commitAfter {
		l.blocks++
		e.status = StatusCommitted
		e.block = fmt.Sprintf("%d", l.blocks)
		l.logger.WithFields(logrus.Fields{
			"id":    id,
			"block": e.block,
		}).Debug("Committed transaction")
	}

	return e.status, nil
}

// EnclosingBlocks implements the Ledger interface.
func (l *InmemLedger) EnclosingBlocks(ctx context.Context, id string) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()
	l.calls["blocks"]++

	e, ok := l.entries[id]
	if !ok || e.block == "" {
		return nil, nil
	}
	return []Block{{ID: e.block, Validity: Valid}}, nil
}

// FetchRecord implements the Ledger interface.
func (l *InmemLedger) FetchRecord(ctx context.Context, id string) (*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()
	l.calls["fetch"]++

	e, ok := l.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.tx.Copy()
}
