package common

import (
	"fmt"
	"testing"
)

func TestIsStore(t *testing.T) {
	err := NewStoreErr("Account", KeyNotFound, "ex:a")

	if !IsStore(err, KeyNotFound) {
		t.Fatalf("IsStore should match KeyNotFound")
	}
	if IsStore(err, KeyAlreadyExists) {
		t.Fatalf("IsStore should not match KeyAlreadyExists")
	}

	wrapped := fmt.Errorf("registry: %w", err)
	if !IsStore(wrapped, KeyNotFound) {
		t.Fatalf("IsStore should see through wrapping")
	}

	if IsStore(fmt.Errorf("other"), KeyNotFound) {
		t.Fatalf("IsStore should not match plain errors")
	}

	if got, want := err.Error(), "Account, ex:a, Not Found"; got != want {
		t.Fatalf("Error() should be %q, not %q", want, got)
	}
}

func TestDecodeFromString(t *testing.T) {
	b, err := DecodeFromString(EncodeToString([]byte{0xab, 0x01}))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(b) != 2 || b[0] != 0xab || b[1] != 0x01 {
		t.Fatalf("unexpected bytes %v", b)
	}

	if _, err := DecodeFromString("ab"); err == nil {
		t.Fatalf("missing prefix should be rejected")
	}
}
