package accounts

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger"
	badger_options "github.com/dgraph-io/badger/options"
	"github.com/sirupsen/logrus"
)

const accountPrefix = "account"

// BadgerStore persists accounts in a Badger database. Each account is one
// key, accountKey(nodeID), holding the JSON encoding of the Account.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// NewBadgerStore opens an existing database or creates a new one if nothing is
// found in path.
func NewBadgerStore(path string, logger *logrus.Entry) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithTruncate(true).
		WithTableLoadingMode(badger_options.FileIO).
		WithValueLogLoadingMode(badger_options.FileIO)

	if logger != nil {
		sub := logger.WithFields(logrus.Fields{"ns": "badger"})
		opts = opts.WithLogger(sub)
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerStore{
		db:   handle,
		path: path,
	}, nil
}

func accountKey(nodeID string) []byte {
	return []byte(fmt.Sprintf("%s_%s", accountPrefix, nodeID))
}

// GetAccount implements the Store interface.
func (s *BadgerStore) GetAccount(nodeID string) (Lookup, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(nodeID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if isDBKeyNotFound(err) {
		return NotFound(), nil
	}
	if err != nil {
		return NotFound(), err
	}

	a := new(Account)
	if err := a.Unmarshal(data); err != nil {
		return NotFound(), err
	}
	return Found(a), nil
}

// PutAccount implements the Store interface. The existence check and the
// write happen in the same transaction, and a concurrent insert of the same
// key makes the commit fail with a conflict, reported as a duplicate.
func (s *BadgerStore) PutAccount(nodeID, publicKey, privateKey string) error {
	a := &Account{
		NodeID:     nodeID,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}
	val, err := a.Marshal()
	if err != nil {
		return err
	}

	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	_, err = tx.Get(accountKey(nodeID))
	switch {
	case err == nil:
		return duplicateErr(nodeID)
	case !isDBKeyNotFound(err):
		return err
	}

	if err := tx.Set(accountKey(nodeID), val); err != nil {
		return err
	}

	return mapCommitError(tx.Commit(), nodeID)
}

// UpdateRecordID implements the Store interface.
func (s *BadgerStore) UpdateRecordID(nodeID, recordID string) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	item, err := tx.Get(accountKey(nodeID))
	if err != nil {
		return mapError(err, nodeID)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}

	a := new(Account)
	if err := a.Unmarshal(data); err != nil {
		return err
	}
	a.RecordID = recordID

	val, err := a.Marshal()
	if err != nil {
		return err
	}
	if err := tx.Set(accountKey(nodeID), val); err != nil {
		return err
	}

	return tx.Commit()
}

// Clear implements the Store interface.
func (s *BadgerStore) Clear() error {
	return s.db.DropAll()
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func isDBKeyNotFound(err error) bool {
	return err != nil && errors.Is(err, badger.ErrKeyNotFound)
}

func mapError(err error, nodeID string) error {
	if isDBKeyNotFound(err) {
		return notFoundErr(nodeID)
	}
	return err
}

func mapCommitError(err error, nodeID string) error {
	if err != nil && errors.Is(err, badger.ErrConflict) {
		return duplicateErr(nodeID)
	}
	return err
}
