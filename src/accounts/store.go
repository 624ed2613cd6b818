package accounts

// Store persists accounts. Implementations serialize writes and enforce one
// account per node id.
type Store interface {
	// GetAccount returns the account of a node. A missing account is not an
	// error; the Lookup is simply not Found.
	GetAccount(nodeID string) (Lookup, error)

	// PutAccount inserts a new account with an empty record id. It returns a
	// KeyAlreadyExists StoreErr if the node already has an account.
	PutAccount(nodeID, publicKey, privateKey string) error

	// UpdateRecordID sets the latest record id of an existing account. It
	// returns a KeyNotFound StoreErr if the account does not exist.
	UpdateRecordID(nodeID, recordID string) error

	// Clear deletes every account. It is meant for tests.
	Clear() error

	// Close releases the resources held by the store.
	Close() error
}

const accountDataType = "Account"
