package assemble

import (
	"context"
	"errors"
	"fmt"

	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/mosaicnetworks/provledger/src/oracle"
	"github.com/mosaicnetworks/provledger/src/prov"
	"github.com/sirupsen/logrus"
)

// InvalidRecordError is returned when a fetched record fails validation.
type InvalidRecordError struct {
	ID     string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %s is not valid: %s", e.ID, e.Reason)
}

// IsInvalidRecord ...
func IsInvalidRecord(err error) bool {
	var e *InvalidRecordError
	return errors.As(err, &e)
}

// Assembler fetches records and merges their payloads.
type Assembler struct {
	ledger ledger.Ledger
	oracle *oracle.Oracle

	// confirm makes the assembler poll until every record is durable instead
	// of checking it once.
	confirm bool

	logger *logrus.Entry
}

// NewAssembler ...
func NewAssembler(l ledger.Ledger, o *oracle.Oracle, confirm bool, logger *logrus.Entry) *Assembler {
	return &Assembler{
		ledger:  l,
		oracle:  o,
		confirm: confirm,
		logger:  logger,
	}
}

// Assemble fetches the records in ids, in order, and merges their PROV-JSON
// payloads into one document. A record whose asset references another
// record, as TRANSFER records do, is resolved through that record. Records
// present in several payloads appear once. Binding a prefix to two URIs is a
// prov.NamespaceConflictError.
func (a *Assembler) Assemble(ctx context.Context, ids []string) (*prov.Document, error) {
	doc := prov.NewDocument()

	for _, id := range ids {
		payload, err := a.payload(ctx, id)
		if err != nil {
			return nil, err
		}

		part, err := prov.ParseJSON([]byte(payload.Prov))
		if err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", id, err)
		}

		if err := doc.Merge(part); err != nil {
			return nil, fmt.Errorf("merging record %s: %w", id, err)
		}

		a.logger.WithFields(logrus.Fields{
			"id":      id,
			"records": len(part.Records()),
		}).Debug("Merged record")
	}

	return doc, nil
}

func (a *Assembler) payload(ctx context.Context, id string) (*ledger.Payload, error) {
	tx, err := a.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Body.Asset.IsReference() {
		ref := tx.Body.Asset.ID
		tx, err = a.fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		if tx.Body.Asset.IsReference() {
			return nil, &InvalidRecordError{ID: ref, Reason: "asset references another record"}
		}
	}

	if tx.Body.Asset.Data == nil {
		return nil, &InvalidRecordError{ID: tx.ID, Reason: "no asset data"}
	}
	return tx.Body.Asset.Data, nil
}

func (a *Assembler) fetch(ctx context.Context, id string) (*ledger.Transaction, error) {
	tx, err := a.ledger.FetchRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching record %s: %w", id, err)
	}

	ok, err := tx.Verify()
	if err != nil {
		return nil, fmt.Errorf("verifying record %s: %w", id, err)
	}
	if !ok || tx.ID != id {
		return nil, &InvalidRecordError{ID: id, Reason: "bad signature or id"}
	}

	if err := a.validate(ctx, id); err != nil {
		return nil, err
	}
	return tx, nil
}

func (a *Assembler) validate(ctx context.Context, id string) error {
	if a.confirm {
		return a.oracle.WaitUntilDurable(ctx, id)
	}

	committed, err := a.oracle.IsRecordValid(ctx, id)
	if err != nil {
		return err
	}
	if !committed {
		return &InvalidRecordError{ID: id, Reason: "not committed"}
	}

	valid, err := a.oracle.IsEnclosingBlockValid(ctx, id)
	if err != nil {
		return err
	}
	if !valid {
		return &InvalidRecordError{ID: id, Reason: "enclosing block is not valid"}
	}
	return nil
}
