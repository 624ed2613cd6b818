package concept

import (
	"errors"
	"fmt"
)

// AccountNotReadyError is returned when relations are written for an account
// that has no instance record yet.
type AccountNotReadyError struct {
	NodeID string
}

func (e *AccountNotReadyError) Error() string {
	return fmt.Sprintf("account %s has no instance record", e.NodeID)
}

// IsAccountNotReady ...
func IsAccountNotReady(err error) bool {
	var e *AccountNotReadyError
	return errors.As(err, &e)
}
