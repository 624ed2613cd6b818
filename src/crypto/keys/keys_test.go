package keys

import (
	"reflect"
	"testing"

	bcrypto "github.com/mosaicnetworks/provledger/src/crypto"
)

func TestPrivateKeyHexRoundTrip(t *testing.T) {
	key, err := GenerateECDSAKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	nKey, err := ParsePrivateKeyHex(PrivateKeyHex(key))
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if !reflect.DeepEqual(nKey.D, key.D) {
		t.Fatalf("Keys do not match")
	}
	if PublicKeyHex(&nKey.PublicKey) != PublicKeyHex(&key.PublicKey) {
		t.Fatalf("Public keys do not match")
	}
}

func TestParsePrivateKeyErrors(t *testing.T) {
	if _, err := ParsePrivateKey([]byte{1, 2, 3}); err == nil {
		t.Fatalf("short key should be rejected")
	}
	if _, err := ParsePrivateKey(make([]byte, 32)); err == nil {
		t.Fatalf("zero key should be rejected")
	}
	if _, err := ParsePrivateKeyHex("zz"); err == nil {
		t.Fatalf("non hex key should be rejected")
	}
}

func TestPublicKeyHexRoundTrip(t *testing.T) {
	key, _ := GenerateECDSAKey()

	pubHex := PublicKeyHex(&key.PublicKey)
	if pubHex[:2] != "0X" {
		t.Fatalf("public key hex should start with 0X, got %s", pubHex)
	}

	pub, err := ParsePublicKeyHex(pubHex)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if pub.X.Cmp(key.X) != 0 || pub.Y.Cmp(key.Y) != 0 {
		t.Fatalf("public key points do not match")
	}

	if _, err := ParsePublicKeyHex("0X0102"); err == nil {
		t.Fatalf("invalid point should be rejected")
	}
}

func TestSignatureEncoding(t *testing.T) {
	privKey, _ := GenerateECDSAKey()

	msgHashBytes := bcrypto.SHA256([]byte("J'aime mieux forger mon ame que la meubler"))

	r, s, _ := Sign(privKey, msgHashBytes)

	encodedSig := EncodeSignature(r, s)

	dr, ds, err := DecodeSignature(encodedSig)
	if err != nil {
		t.Fatal(err)
	}

	if r.Cmp(dr) != 0 {
		t.Fatalf("Signature Rs defer")
	}

	if s.Cmp(ds) != 0 {
		t.Fatalf("Signature Ss defer")
	}

	if _, _, err := DecodeSignature("abc"); err == nil {
		t.Fatalf("DecodeSignature should fail on a single value")
	}
}

func TestSignVerifyHash(t *testing.T) {
	privKey, _ := GenerateECDSAKey()
	other, _ := GenerateECDSAKey()
	hash := bcrypto.SHA256([]byte("record"))

	sig, err := SignHash(privKey, hash)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	ok, err := VerifyHash(PublicKeyHex(&privKey.PublicKey), hash, sig)
	if err != nil || !ok {
		t.Fatalf("signature should verify: %v", err)
	}

	ok, err = VerifyHash(PublicKeyHex(&other.PublicKey), hash, sig)
	if err != nil || ok {
		t.Fatalf("signature should not verify against another key")
	}
}
