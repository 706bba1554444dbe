package testutil

import (
	"seals-go/internal/encryption"
	"seals-go/internal/seals"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() seals.Encryptor {
	return encryption.NewTestEncryptor()
}
