package oracle

import (
	"context"
	"errors"

	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/metrics"
	"github.com/sirupsen/logrus"
)

// Oracle queries a ledger about the state of records.
type Oracle struct {
	ledger  ledger.Ledger
	policy  Policy
	metrics *metrics.Collector
	logger  *logrus.Entry
}

// NewOracle ...
func NewOracle(l ledger.Ledger, policy Policy, m *metrics.Collector, logger *logrus.Entry) *Oracle {
	return &Oracle{
		ledger:  l,
		policy:  policy,
		metrics: m,
		logger:  logger,
	}
}

// Policy returns the polling policy of the oracle.
func (o *Oracle) Policy() Policy {
	return o.policy
}

// WaitUntilCommitted polls the status of a record until it is committed. A
// rejected record is a RejectedError. Pending, undecided and unknown records
// are polled again, and a TransactionNotFoundError is returned when the
// policy runs out of attempts.
func (o *Oracle) WaitUntilCommitted(ctx context.Context, id string) error {
	var (
		observed bool
		last     ledger.Status
		attempts int
	)

	err := PollUntil(ctx, o.policy, func(attempt int) (bool, error) {
		attempts = attempt
		o.metrics.IncPoll("status")

		status, err := o.ledger.RecordStatus(ctx, id)
		if ledger.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		observed = true
		last = status

		o.logger.WithFields(logrus.Fields{
			"id":      id,
			"attempt": attempt,
			"status":  status,
		}).Debug("Polled record status")

		if !status.Terminal() {
			return false, nil
		}
		if status == ledger.StatusRejected {
			return false, &RejectedError{ID: id}
		}
		return true, nil
	})

	if errors.Is(err, ErrExhausted) {
		return &TransactionNotFoundError{
			ID:         id,
			Attempts:   attempts,
			Observed:   observed,
			LastStatus: last,
		}
	}
	return err
}

// IsRecordValid reports whether the record is committed. It polls once.
func (o *Oracle) IsRecordValid(ctx context.Context, id string) (bool, error) {
	o.metrics.IncPoll("status")
	status, err := o.ledger.RecordStatus(ctx, id)
	if ledger.IsNotFound(err) {
		return false, &TransactionNotFoundError{ID: id, Attempts: 1}
	}
	if err != nil {
		return false, err
	}
	return status == ledger.StatusCommitted, nil
}

// IsEnclosingBlockValid reports whether the single block holding the record
// is valid. A record found in no block or in several blocks is a
// BlockNotFoundError.
func (o *Oracle) IsEnclosingBlockValid(ctx context.Context, id string) (bool, error) {
	block, err := o.enclosingBlock(ctx, id)
	if err != nil {
		return false, err
	}
	return block.Validity == ledger.Valid, nil
}

func (o *Oracle) enclosingBlock(ctx context.Context, id string) (ledger.Block, error) {
	o.metrics.IncPoll("block")
	blocks, err := o.ledger.EnclosingBlocks(ctx, id)
	if err != nil {
		return ledger.Block{}, err
	}
	switch len(blocks) {
	case 0:
		return ledger.Block{}, &BlockNotFoundError{ID: id}
	case 1:
		return blocks[0], nil
	default:
		return ledger.Block{}, &BlockNotFoundError{ID: id, Blocks: len(blocks), Ambiguous: true}
	}
}

// WaitUntilDurable polls until the record is committed and its block is
// valid. Missing blocks and blocks of unknown validity are polled again; an
// ambiguous or invalid block ends the wait with an error.
func (o *Oracle) WaitUntilDurable(ctx context.Context, id string) error {
	if err := o.WaitUntilCommitted(ctx, id); err != nil {
		return err
	}

	var lastErr error
	err := PollUntil(ctx, o.policy, func(attempt int) (bool, error) {
		block, err := o.enclosingBlock(ctx, id)
		var bnf *BlockNotFoundError
		if errors.As(err, &bnf) && !bnf.Ambiguous {
			lastErr = err
			return false, nil
		}
		if err != nil {
			return false, err
		}

		switch block.Validity {
		case ledger.Valid:
			return true, nil
		case ledger.Invalid:
			return false, &InvalidBlockError{ID: id, BlockID: block.ID}
		}
		lastErr = &TransactionNotFoundError{ID: id, Attempts: attempt, Observed: true, LastStatus: ledger.StatusCommitted}
		return false, nil
	})

	if errors.Is(err, ErrExhausted) && lastErr != nil {
		return lastErr
	}
	return err
}
