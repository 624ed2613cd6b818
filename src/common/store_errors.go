package common

import (
	"errors"
	"fmt"
)

// StoreErrType classifies the errors returned by account stores.
type StoreErrType uint32

const (
	// KeyNotFound is returned when an account does not exist.
	KeyNotFound StoreErrType = iota
	// KeyAlreadyExists is returned when inserting an account a second time.
	// Stores never overwrite the keys of an existing account.
	KeyAlreadyExists
	// Empty ...
	Empty
	// Closed ...
	Closed
)

// StoreErr ...
type StoreErr struct {
	dataType string
	errType  StoreErrType
	key      string
}

// NewStoreErr ...
func NewStoreErr(dataType string, errType StoreErrType, key string) StoreErr {
	return StoreErr{
		dataType: dataType,
		errType:  errType,
		key:      key,
	}
}

// Type returns the category of the error.
func (e StoreErr) Type() StoreErrType {
	return e.errType
}

// Key returns the key the failed operation was about.
func (e StoreErr) Key() string {
	return e.key
}

// Error ...
func (e StoreErr) Error() string {
	m := ""
	switch e.errType {
	case KeyNotFound:
		m = "Not Found"
	case KeyAlreadyExists:
		m = "Key Already Exists"
	case Empty:
		m = "Empty"
	case Closed:
		m = "Closed"
	}

	return fmt.Sprintf("%s, %s, %s", e.dataType, e.key, m)
}

// IsStore checks that an error is, or wraps, a StoreErr and that its code
// matches the provided StoreErrType.
func IsStore(err error, t StoreErrType) bool {
	var storeErr StoreErr
	return errors.As(err, &storeErr) && storeErr.errType == t
}
