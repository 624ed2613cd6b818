package accounts

import (
	"context"
	"fmt"
	"sync"

	"github.com/mosaicnetworks/provledger/src/crypto/keys"
	"github.com/sirupsen/logrus"
)

// Registry hands out the account of a node, creating it on first use. It
// holds no cache: every call goes to the Store.
type Registry struct {
	sync.Mutex

	store  Store
	logger *logrus.Entry
}

// NewRegistry ...
func NewRegistry(store Store, logger *logrus.Entry) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
	}
}

// Store returns the underlying account store.
func (r *Registry) Store() Store {
	return r.store
}

// GetOrCreate returns the persisted account of nodeID, or generates a new
// key-pair and persists it with an empty record id. A concurrent creation of
// the same account by another writer surfaces as a duplicate error; the keys
// already stored are never replaced.
func (r *Registry) GetOrCreate(ctx context.Context, nodeID string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.Lock()
	defer r.Unlock()

	lookup, err := r.store.GetAccount(nodeID)
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", nodeID, err)
	}
	if lookup.Found {
		return lookup.Account, nil
	}

	key, err := keys.GenerateECDSAKey()
	if err != nil {
		return nil, err
	}

	a := &Account{
		NodeID:     nodeID,
		PublicKey:  keys.PublicKeyHex(&key.PublicKey),
		PrivateKey: keys.PrivateKeyHex(key),
	}

	if err := r.store.PutAccount(a.NodeID, a.PublicKey, a.PrivateKey); err != nil {
		return nil, fmt.Errorf("creating account %s: %w", nodeID, err)
	}

	r.logger.WithFields(logrus.Fields{
		"node_id":    nodeID,
		"public_key": a.PublicKey,
	}).Debug("Created account")

	return a, nil
}

// WriteRecordID stores the id of the latest confirmed record of a node. The
// account must exist and the record id must not be empty.
func (r *Registry) WriteRecordID(ctx context.Context, nodeID, recordID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recordID == "" {
		return fmt.Errorf("empty record id for account %s", nodeID)
	}

	r.Lock()
	defer r.Unlock()

	if err := r.store.UpdateRecordID(nodeID, recordID); err != nil {
		return fmt.Errorf("updating account %s: %w", nodeID, err)
	}

	r.logger.WithFields(logrus.Fields{
		"node_id":   nodeID,
		"record_id": recordID,
	}).Debug("Updated account record")

	return nil
}
