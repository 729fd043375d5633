package credential

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return NewMemoryStore(h)
}

func TestHasherRejectsBadCost(t *testing.T) {
	if _, err := NewHasher(bcrypt.MaxCost + 1); err == nil {
		t.Fatal("cost above MaxCost should be rejected")
	}
	if _, err := NewHasher(bcrypt.MinCost - 1); err == nil {
		t.Fatal("cost below MinCost should be rejected")
	}
}

func TestHashIsSaltedPerCall(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	a, err := h.Hash("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same secret should differ")
	}
	if !h.Compare(a, "s3cret-passw0rd") || !h.Compare(b, "s3cret-passw0rd") {
		t.Fatal("both hashes should verify the original secret")
	}
}

func TestPutAndVerify(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", "s3cret-passw0rd"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err := store.Verify(ctx, "u1", "s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("correct secret should verify")
	}

	ok, err = store.Verify(ctx, "u1", "wrong-passw0rd")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("wrong secret must not verify")
	}
}

func TestVerifyUnknownPrincipal(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Verify(context.Background(), "ghost", "anything")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("unknown principal must not verify")
	}
}

func TestPutReplacesCredential(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", "old-passw0rd"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "u1", "new-passw0rd"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if ok, _ := store.Verify(ctx, "u1", "old-passw0rd"); ok {
		t.Fatal("replaced secret must not verify")
	}
	if ok, _ := store.Verify(ctx, "u1", "new-passw0rd"); !ok {
		t.Fatal("current secret should verify")
	}
}

func TestGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(ghost) = %v, want ErrNotFound", err)
	}

	if err := store.Put(ctx, "u1", "s3cret-passw0rd"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	hash, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hash == "" || hash == "s3cret-passw0rd" {
		t.Fatalf("Get returned %q, want a hash", hash)
	}
	if !store.hasher.Compare(hash, "s3cret-passw0rd") {
		t.Fatal("stored hash should verify the secret")
	}
}

func TestRemoveReportsPresence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", "s3cret-passw0rd"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	removed, err := store.Remove(ctx, "u1")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("Remove should report an existing credential was deleted")
	}

	removed, err = store.Remove(ctx, "u1")
	if err != nil {
		t.Fatalf("repeat Remove: %v", err)
	}
	if removed {
		t.Fatal("repeat Remove should report nothing was deleted")
	}
	if ok, _ := store.Verify(ctx, "u1", "s3cret-passw0rd"); ok {
		t.Fatal("removed credential must not verify")
	}
}

func TestLongSecretRejected(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	// bcrypt caps input at 72 bytes; anything longer is an error, never a
	// silent truncation.
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("secret over 72 bytes should be rejected")
	}
}
