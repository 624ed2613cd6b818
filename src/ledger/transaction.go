package ledger

import (
	"bytes"
	"crypto/ecdsa"

	"github.com/google/uuid"
	"github.com/mosaicnetworks/provledger/src/crypto"
	"github.com/mosaicnetworks/provledger/src/crypto/keys"
	"github.com/ugorji/go/codec"
)

// Operation is the type of a transaction.
type Operation string

// Operations
const (
	Create   Operation = "CREATE"
	Transfer Operation = "TRANSFER"
)

// Payload is the content of a record. Prov is a PROV-JSON document and Map
// resolves the identifiers it references to record ids.
type Payload struct {
	Prov string            `json:"prov"`
	Map  map[string]string `json:"map,omitempty"`
}

// Asset is either inline data (CREATE) or a reference to the CREATE
// transaction being transferred (TRANSFER).
type Asset struct {
	Data *Payload `json:"data,omitempty"`
	ID   string   `json:"id,omitempty"`
}

// IsReference reports whether the asset points to another transaction.
func (a Asset) IsReference() bool {
	return a.ID != ""
}

// Body is the signed part of a transaction. Owner is the public key of the
// signer, Recipient the public key owning the record once the transaction is
// committed.
type Body struct {
	Operation Operation         `json:"operation"`
	Asset     Asset             `json:"asset"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Owner     string            `json:"owner"`
	Recipient string            `json:"recipient"`
	Nonce     string            `json:"nonce"`
}

// Marshal returns the canonical JSON encoding of the body.
func (b *Body) Marshal() ([]byte, error) {
	return EncodeJSON(b)
}

// Hash returns the SHA256 hash of the canonical encoding of the body.
func (b *Body) Hash() ([]byte, error) {
	data, err := b.Marshal()
	if err != nil {
		return nil, err
	}
	return crypto.SHA256(data), nil
}

// ID returns the transaction id of the body, the hex encoded SHA256 of its
// canonical encoding.
func (b *Body) ID() (string, error) {
	data, err := b.Marshal()
	if err != nil {
		return "", err
	}
	return crypto.SHA256Hex(data), nil
}

// Transaction is a signed Body with its id.
type Transaction struct {
	ID        string `json:"id"`
	Body      Body   `json:"body"`
	Signature string `json:"signature"`
}

// NewCreate prepares an unsigned CREATE transaction of payload, owned by
// owner and assigned to recipient once committed.
func NewCreate(owner, recipient string, payload Payload, metadata map[string]string) *Transaction {
	return &Transaction{
		Body: Body{
			Operation: Create,
			Asset:     Asset{Data: &payload},
			Metadata:  metadata,
			Owner:     owner,
			Recipient: recipient,
			Nonce:     uuid.New().String(),
		},
	}
}

// NewTransfer prepares an unsigned TRANSFER of the record created by
// createID from owner to recipient.
func NewTransfer(createID, owner, recipient string, metadata map[string]string) *Transaction {
	return &Transaction{
		Body: Body{
			Operation: Transfer,
			Asset:     Asset{ID: createID},
			Metadata:  metadata,
			Owner:     owner,
			Recipient: recipient,
			Nonce:     uuid.New().String(),
		},
	}
}

// Sign signs the body with the owner's private key and sets the transaction
// id.
func (t *Transaction) Sign(privKey *ecdsa.PrivateKey) error {
	hash, err := t.Body.Hash()
	if err != nil {
		return err
	}
	sig, err := keys.SignHash(privKey, hash)
	if err != nil {
		return err
	}
	id, err := t.Body.ID()
	if err != nil {
		return err
	}
	t.Signature = sig
	t.ID = id
	return nil
}

// Verify checks that the id matches the body and that the signature was
// produced by the owner.
func (t *Transaction) Verify() (bool, error) {
	id, err := t.Body.ID()
	if err != nil {
		return false, err
	}
	if t.ID != id {
		return false, nil
	}
	hash, err := t.Body.Hash()
	if err != nil {
		return false, err
	}
	return keys.VerifyHash(t.Body.Owner, hash, t.Signature)
}

// Marshal returns the canonical JSON encoding of the transaction.
func (t *Transaction) Marshal() ([]byte, error) {
	return EncodeJSON(t)
}

// Unmarshal converts a JSON encoded transaction to a Transaction.
func (t *Transaction) Unmarshal(data []byte) error {
	return DecodeJSON(data, t)
}

// SameAs reports whether two transactions have identical canonical
// encodings.
func (t *Transaction) SameAs(other *Transaction) bool {
	if other == nil {
		return false
	}
	a, err := t.Marshal()
	if err != nil {
		return false
	}
	b, err := other.Marshal()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Copy returns a deep copy, obtained through the wire encoding.
func (t *Transaction) Copy() (*Transaction, error) {
	data, err := t.Marshal()
	if err != nil {
		return nil, err
	}
	c := new(Transaction)
	if err := c.Unmarshal(data); err != nil {
		return nil, err
	}
	return c, nil
}

// EncodeJSON returns the canonical JSON encoding of v. It is the wire format
// of the ledger protocol.
func EncodeJSON(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(&b, jh)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodeJSON decodes JSON produced by EncodeJSON into v.
func DecodeJSON(data []byte, v interface{}) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	dec := codec.NewDecoder(b, jh)
	return dec.Decode(v)
}
