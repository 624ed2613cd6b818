package crypto

import "testing"

func TestSHA256Hex(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256Hex([]byte("abc")); got != want {
		t.Fatalf("SHA256Hex should be %s, not %s", want, got)
	}
	if len(SHA256([]byte{})) != 32 {
		t.Fatalf("SHA256 should return 32 bytes")
	}
}
