package testutil

import (
	"testing"

	"seals-go/internal/seals"
)

// NewTestStore creates a Store over a fresh MemoryKV with a fixed clock and
// sequential ids. Gilding requires completion.
func NewTestStore(t *testing.T) (*seals.Store, *MemoryKV, *StubClock) {
	t.Helper()
	kv := NewMemoryKV()
	clock := FixedClock()
	gw := seals.NewGateway(kv, "", seals.NewNopLogger())
	store := seals.NewStore(gw, clock, NewStubIDGenerator(), seals.NewNopLogger(), seals.StoreOptions{GildRequiresComplete: true})
	return store, kv, clock
}
