// Package testutil provides shared helpers for tests: an in-memory identity
// store, a deterministic encryptor, and a fixed clock.
package testutil

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/sortflow/sortflow/internal/crypto"
	"github.com/sortflow/sortflow/internal/session"
)

// NewTestEncryptor creates an encryptor with a deterministic key.
func NewTestEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	base64Key := base64.StdEncoding.EncodeToString(key)

	encryptor, err := crypto.NewEncryptor(base64Key)
	if err != nil {
		t.Fatalf("Failed to create encryptor: %v", err)
	}
	return encryptor
}

// NewTestSessionStore opens an in-memory identity store that is closed when
// the test finishes.
func NewTestSessionStore(t *testing.T) *session.Store {
	t.Helper()

	store, err := session.Open(":memory:", NewTestEncryptor(t))
	if err != nil {
		t.Fatalf("Failed to open in-memory identity store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// FixedClock returns a clock function frozen at the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
