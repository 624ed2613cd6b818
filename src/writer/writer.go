package writer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mosaicnetworks/provledger/src/accounts"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/metrics"
	"github.com/mosaicnetworks/provledger/src/oracle"
	"github.com/sirupsen/logrus"
)

// Publication holds the ids of the two transactions of a published record.
// TransferID is the latest id of the record.
type Publication struct {
	CreateID   string
	TransferID string
}

// Writer publishes signed records to a ledger.
type Writer struct {
	ledger  ledger.Ledger
	oracle  *oracle.Oracle
	metrics *metrics.Collector
	logger  *logrus.Entry
}

// NewWriter ...
func NewWriter(l ledger.Ledger, o *oracle.Oracle, m *metrics.Collector, logger *logrus.Entry) *Writer {
	return &Writer{
		ledger:  l,
		oracle:  o,
		metrics: m,
		logger:  logger,
	}
}

// CreateAndPublish creates a record of payload signed by owner, waits for it
// to be committed, then transfers it to recipient (a public key) and waits
// for the transfer. A failure after the CREATE was committed is returned as a
// TransferError.
func (w *Writer) CreateAndPublish(ctx context.Context,
	owner *accounts.Account,
	recipient string,
	payload ledger.Payload,
	metadata map[string]string) (*Publication, error) {

	key, err := owner.Key()
	if err != nil {
		return nil, fmt.Errorf("loading key of %s: %w", owner.NodeID, err)
	}

	create := ledger.NewCreate(owner.PublicKey, owner.PublicKey, payload, metadata)
	if err := create.Sign(key); err != nil {
		return nil, fmt.Errorf("signing create: %w", err)
	}

	if err := w.submit(ctx, create, w.ledger.CreateRecord); err != nil {
		return nil, err
	}

	if err := w.oracle.WaitUntilCommitted(ctx, create.ID); err != nil {
		return nil, err
	}

	w.logger.WithFields(logrus.Fields{
		"node_id": owner.NodeID,
		"create":  create.ID,
	}).Debug("Record created")

	transfer := ledger.NewTransfer(create.ID, owner.PublicKey, recipient, metadata)
	if err := transfer.Sign(key); err != nil {
		return nil, &TransferError{CreateID: create.ID, Err: err}
	}

	if err := w.submit(ctx, transfer, w.ledger.TransferRecord); err != nil {
		return nil, &TransferError{CreateID: create.ID, Err: err}
	}

	if err := w.oracle.WaitUntilCommitted(ctx, transfer.ID); err != nil {
		return nil, &TransferError{CreateID: create.ID, Err: err}
	}

	w.logger.WithFields(logrus.Fields{
		"node_id":   owner.NodeID,
		"create":    create.ID,
		"transfer":  transfer.ID,
		"recipient": recipient,
	}).Debug("Record published")

	return &Publication{
		CreateID:   create.ID,
		TransferID: transfer.ID,
	}, nil
}

func (w *Writer) submit(ctx context.Context,
	tx *ledger.Transaction,
	send func(context.Context, *ledger.Transaction) (*ledger.Transaction, error)) error {

	echo, err := send(ctx, tx)
	if err != nil {
		return fmt.Errorf("submitting %s %s: %w", tx.Body.Operation, tx.ID, err)
	}

	if !tx.SameAs(echo) {
		echoed := ""
		if echo != nil {
			echoed = echo.ID
		}
		return &CreateMismatchError{
			Operation: tx.Body.Operation,
			Submitted: tx.ID,
			Echoed:    echoed,
		}
	}

	w.metrics.IncPublished(strings.ToLower(string(tx.Body.Operation)))
	return nil
}
