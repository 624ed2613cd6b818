package ledger

import (
	"context"
	"errors"
	"fmt"
)

// Status is the state of a transaction on the ledger.
type Status string

// Statuses
const (
	StatusPending   Status = "pending"
	StatusCommitted Status = "committed"
	StatusRejected  Status = "rejected"
	StatusUndecided Status = "undecided"
)

// Terminal reports whether the status will not change anymore.
func (s Status) Terminal() bool {
	return s == StatusCommitted || s == StatusRejected
}

// Validity is the state of a block.
type Validity string

// Validities
const (
	Valid   Validity = "valid"
	Invalid Validity = "invalid"
	Unknown Validity = "unknown"
)

// Block is a block containing a transaction.
type Block struct {
	ID       string   `json:"id"`
	Validity Validity `json:"status"`
}

// ErrNotFound is returned for unknown transaction ids.
var ErrNotFound = errors.New("transaction not found")

// IsNotFound ...
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// InvalidTransactionError is returned when the ledger refuses a submission.
type InvalidTransactionError struct {
	ID     string
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction %s: %s", e.ID, e.Reason)
}

// Ledger is the interface to an append-only ledger. Every method is a
// blocking round trip.
type Ledger interface {
	// CreateRecord submits a CREATE transaction and returns the transaction
	// as accepted by the ledger.
	CreateRecord(ctx context.Context, tx *Transaction) (*Transaction, error)

	// TransferRecord submits a TRANSFER transaction and returns the
	// transaction as accepted by the ledger.
	TransferRecord(ctx context.Context, tx *Transaction) (*Transaction, error)

	// RecordStatus returns the status of a transaction, or ErrNotFound.
	RecordStatus(ctx context.Context, id string) (Status, error)

	// EnclosingBlocks returns the blocks containing a transaction.
	EnclosingBlocks(ctx context.Context, id string) ([]Block, error)

	// FetchRecord returns a transaction, or ErrNotFound.
	FetchRecord(ctx context.Context, id string) (*Transaction, error)
}
