package accounts

import (
	"sync"
)

// InmemStore keeps accounts in a map. Nothing survives the process.
type InmemStore struct {
	sync.RWMutex
	accounts map[string]Account
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		accounts: make(map[string]Account),
	}
}

// GetAccount implements the Store interface.
func (s *InmemStore) GetAccount(nodeID string) (Lookup, error) {
	s.RLock()
	defer s.RUnlock()

	a, ok := s.accounts[nodeID]
	if !ok {
		return NotFound(), nil
	}
	return Found(&a), nil
}

// PutAccount implements the Store interface.
func (s *InmemStore) PutAccount(nodeID, publicKey, privateKey string) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.accounts[nodeID]; ok {
		return duplicateErr(nodeID)
	}
	s.accounts[nodeID] = Account{
		NodeID:     nodeID,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}
	return nil
}

// UpdateRecordID implements the Store interface.
func (s *InmemStore) UpdateRecordID(nodeID, recordID string) error {
	s.Lock()
	defer s.Unlock()

	a, ok := s.accounts[nodeID]
	if !ok {
		return notFoundErr(nodeID)
	}
	a.RecordID = recordID
	s.accounts[nodeID] = a
	return nil
}

// Clear implements the Store interface.
func (s *InmemStore) Clear() error {
	s.Lock()
	defer s.Unlock()
	s.accounts = make(map[string]Account)
	return nil
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	return nil
}
