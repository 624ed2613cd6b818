package accounts

import (
	cm "github.com/mosaicnetworks/provledger/src/common"
)

// IsDuplicate reports whether err is a duplicate account error, raised when
// two writers race to create the same account.
func IsDuplicate(err error) bool {
	return cm.IsStore(err, cm.KeyAlreadyExists)
}

// IsNotFound reports whether err is about a missing account.
func IsNotFound(err error) bool {
	return cm.IsStore(err, cm.KeyNotFound)
}

func duplicateErr(nodeID string) error {
	return cm.NewStoreErr(accountDataType, cm.KeyAlreadyExists, nodeID)
}

func notFoundErr(nodeID string) error {
	return cm.NewStoreErr(accountDataType, cm.KeyNotFound, nodeID)
}
