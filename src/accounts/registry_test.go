package accounts

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mosaicnetworks/provledger/src/common"
	"github.com/mosaicnetworks/provledger/src/crypto/keys"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewInmemStore(), common.NewTestEntry(t, "registry"))

	first, err := r.GetOrCreate(ctx, "ex:a")
	if err != nil {
		t.Fatal(err)
	}
	if first.Ready() {
		t.Fatalf("a new account should not be ready")
	}

	second, err := r.GetOrCreate(ctx, "ex:a")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second call should return %#v, not %#v", first, second)
	}

	key, err := second.Key()
	if err != nil {
		t.Fatal(err)
	}
	if pub := keys.PublicKeyHex(&key.PublicKey); pub != first.PublicKey {
		t.Fatalf("private key does not match public key %s: %s", first.PublicKey, pub)
	}

	other, err := r.GetOrCreate(ctx, "ex:b")
	if err != nil {
		t.Fatal(err)
	}
	if other.PublicKey == first.PublicKey {
		t.Fatalf("different nodes should get different keys")
	}
}

func TestWriteRecordID(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewInmemStore(), common.NewTestEntry(t, "registry"))

	if _, err := r.GetOrCreate(ctx, "ex:a"); err != nil {
		t.Fatal(err)
	}

	if err := r.WriteRecordID(ctx, "ex:a", "rec1"); err != nil {
		t.Fatal(err)
	}
	a, err := r.GetOrCreate(ctx, "ex:a")
	if err != nil {
		t.Fatal(err)
	}
	if a.RecordID != "rec1" {
		t.Fatalf("RecordID should be rec1, not %q", a.RecordID)
	}
	if !a.Ready() {
		t.Fatalf("account with a record should be ready")
	}

	if err := r.WriteRecordID(ctx, "ex:a", ""); err == nil {
		t.Fatalf("record ids are never cleared")
	}

	err = r.WriteRecordID(ctx, "ex:missing", "rec2")
	if !IsNotFound(err) {
		t.Fatalf("expected a not found error, got %v", err)
	}
}

// racingStore inserts a competing account between the lookup and the insert
// of the registry.
type racingStore struct {
	*InmemStore
}

func (s *racingStore) GetAccount(nodeID string) (Lookup, error) {
	lookup, err := s.InmemStore.GetAccount(nodeID)
	if err == nil && !lookup.Found {
		s.InmemStore.PutAccount(nodeID, "0XRIVAL", "rival")
	}
	return lookup, err
}

func TestGetOrCreateSurfacesRaces(t *testing.T) {
	store := &racingStore{NewInmemStore()}
	r := NewRegistry(store, common.NewTestEntry(t, "registry"))

	_, err := r.GetOrCreate(context.Background(), "ex:a")
	if !IsDuplicate(err) {
		t.Fatalf("expected a duplicate account error, got %v", err)
	}

	lookup, err := store.GetAccount("ex:a")
	if err != nil {
		t.Fatal(err)
	}
	if lookup.Account.PublicKey != "0XRIVAL" {
		t.Fatalf("the winning keys should be kept, got %s", lookup.Account.PublicKey)
	}
}

func TestGetOrCreateHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRegistry(NewInmemStore(), common.NewTestEntry(t, "registry"))
	if _, err := r.GetOrCreate(ctx, "ex:a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
