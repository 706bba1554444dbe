package testutil

import (
	"seals-go/internal/seals"
	"seals-go/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() seals.Vault {
	return vault.NewMemoryVault("test-vault")
}
