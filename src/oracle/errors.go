package oracle

import (
	"errors"
	"fmt"

	"github.com/mosaicnetworks/provledger/src/ledger"
)

// TransactionNotFoundError is returned when polling gave up on a record.
// Observed tells a record the ledger never reported apart from one that was
// seen but stayed pending.
type TransactionNotFoundError struct {
	ID         string
	Attempts   int
	Observed   bool
	LastStatus ledger.Status
}

func (e *TransactionNotFoundError) Error() string {
	if !e.Observed {
		return fmt.Sprintf("transaction %s never observed after %d attempts", e.ID, e.Attempts)
	}
	return fmt.Sprintf("transaction %s still %s after %d attempts", e.ID, e.LastStatus, e.Attempts)
}

// BlockNotFoundError is returned when a record is not in exactly one block.
type BlockNotFoundError struct {
	ID        string
	Blocks    int
	Ambiguous bool
}

func (e *BlockNotFoundError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("transaction %s is in %d blocks", e.ID, e.Blocks)
	}
	return fmt.Sprintf("no block contains transaction %s", e.ID)
}

// RejectedError is returned when the ledger rejected a record.
type RejectedError struct {
	ID string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction %s was rejected", e.ID)
}

// InvalidBlockError is returned when the block holding a record is invalid.
type InvalidBlockError struct {
	ID      string
	BlockID string
}

func (e *InvalidBlockError) Error() string {
	return fmt.Sprintf("block %s holding transaction %s is invalid", e.BlockID, e.ID)
}

// IsTransactionNotFound ...
func IsTransactionNotFound(err error) bool {
	var e *TransactionNotFoundError
	return errors.As(err, &e)
}

// IsBlockNotFound ...
func IsBlockNotFound(err error) bool {
	var e *BlockNotFoundError
	return errors.As(err, &e)
}

// IsRejected ...
func IsRejected(err error) bool {
	var e *RejectedError
	return errors.As(err, &e)
}
