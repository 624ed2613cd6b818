package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"

	"github.com/mosaicnetworks/provledger/src/common"
)

// ToPublicKey is a wrapper around elliptic.Unmarshal on Curve(). The argument
// pub is expected to be the uncompressed form of a point on the curve, as
// returned by FromPublicKey.
func ToPublicKey(pub []byte) *ecdsa.PublicKey {
	if len(pub) == 0 {
		return nil
	}
	x, y := elliptic.Unmarshal(Curve(), pub)
	if x == nil {
		return nil
	}
	return &ecdsa.PublicKey{Curve: Curve(), X: x, Y: y}
}

// FromPublicKey is a wrapper around elliptic.Marshal on Curve(). It outputs
// the point in uncompressed form.
func FromPublicKey(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	return elliptic.Marshal(Curve(), pub.X, pub.Y)
}

// PublicKeyHex returns the hexadecimal reprentation of the uncompressed form of
// the public key
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	return common.EncodeToString(FromPublicKey(pub))
}

// ParsePublicKeyHex decodes a public key produced by PublicKeyHex.
func ParsePublicKeyHex(s string) (*ecdsa.PublicKey, error) {
	raw, err := common.DecodeFromString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding public key %q: %w", s, err)
	}
	pub := ToPublicKey(raw)
	if pub == nil {
		return nil, fmt.Errorf("public key %q is not a point on the curve", s)
	}
	return pub, nil
}
