package accounts

import (
	"bytes"
	"crypto/ecdsa"

	"github.com/mosaicnetworks/provledger/src/crypto/keys"
	"github.com/ugorji/go/codec"
)

// Account is the ledger identity of a node. RecordID is empty until a record
// has been confirmed for the node.
type Account struct {
	NodeID     string `json:"node_id" yaml:"node_id"`
	PublicKey  string `json:"public_key" yaml:"public_key"`
	PrivateKey string `json:"private_key" yaml:"private_key"`
	RecordID   string `json:"record_id" yaml:"record_id"`
}

// Key decodes the private key of the account.
func (a *Account) Key() (*ecdsa.PrivateKey, error) {
	return keys.ParsePrivateKeyHex(a.PrivateKey)
}

// Ready reports whether a record has been confirmed for the account.
func (a *Account) Ready() bool {
	return a.RecordID != ""
}

// Marshal returns the JSON encoding of the account.
func (a *Account) Marshal() ([]byte, error) {
	var b bytes.Buffer
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(&b, jh)
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal converts a JSON encoded account to an Account.
func (a *Account) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	dec := codec.NewDecoder(b, jh)
	return dec.Decode(a)
}

// Lookup is the result of a store query: either Found with the account, or
// not found.
type Lookup struct {
	Account *Account
	Found   bool
}

// Found wraps an account in a Lookup.
func Found(a *Account) Lookup {
	return Lookup{Account: a, Found: true}
}

// NotFound is the Lookup of a missing account.
func NotFound() Lookup {
	return Lookup{}
}
