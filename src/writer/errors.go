package writer

import (
	"errors"
	"fmt"

	"github.com/mosaicnetworks/provledger/src/ledger"
)

// CreateMismatchError is returned when the transaction echoed by the ledger
// differs from the submitted one.
type CreateMismatchError struct {
	Operation ledger.Operation
	Submitted string
	Echoed    string
}

func (e *CreateMismatchError) Error() string {
	return fmt.Sprintf("ledger echoed %s transaction %s for submitted %s", e.Operation, e.Echoed, e.Submitted)
}

// TransferError is returned when the CREATE of a publication succeeded but
// its TRANSFER did not. CreateID is the orphaned record.
type TransferError struct {
	CreateID string
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transferring record %s: %v", e.CreateID, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// IsCreateMismatch ...
func IsCreateMismatch(err error) bool {
	var e *CreateMismatchError
	return errors.As(err, &e)
}

// IsTransferError ...
func IsTransferError(err error) bool {
	var e *TransferError
	return errors.As(err, &e)
}
